package services

// Caller is the resolved identity of the requester, produced once by the
// auth middleware and passed explicitly into every role-gated operation so
// the workflow engine never reaches for ambient identity state.
type Caller struct {
	UserID int
	Email  string
	Role   int
	Active bool
}

// HasRole reports whether the caller holds at least the given role and the
// account is active.
func (c Caller) HasRole(min int) bool {
	return c.Active && c.Role >= min
}

// requireRole gates an action on the role hierarchy. It returns an
// AuthorizationError describing the caller's actual role on failure.
func requireRole(caller Caller, min int, action string) error {
	if !caller.Active {
		return &AuthorizationError{Action: action, Role: caller.Role, Required: min, Inactive: true}
	}
	if caller.Role < min {
		return &AuthorizationError{Action: action, Role: caller.Role, Required: min}
	}
	return nil
}
