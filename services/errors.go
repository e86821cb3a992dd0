package services

import (
	"fmt"

	"renewal-review-api/models"
)

// ValidationError reports bad input shape, enum violations or missing
// required fields. It is always raised before any store mutation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// AuthorizationError reports a caller whose role is below the required one
// or whose account is inactive. The caller's current role is included for
// debuggability and is never silently downgraded to a generic failure.
type AuthorizationError struct {
	Action   string
	Role     int
	Required int
	Inactive bool
}

func (e *AuthorizationError) Error() string {
	if e.Inactive {
		return fmt.Sprintf("%s: account is inactive", e.Action)
	}
	return fmt.Sprintf("%s requires %s role or higher (caller has %s)",
		e.Action, models.RoleName(e.Required), models.RoleName(e.Role))
}

// NotFoundError reports an unknown product, assessment or decision id.
type NotFoundError struct {
	Resource string
	ID       int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// ConflictError reports a transition attempted from a state that does not
// permit it. Nothing is mutated when it is returned.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func conflictf(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// DependencyError reports an unavailable external collaborator (store or
// generative-text provider). Whether it is surfaced or swallowed depends on
// the path: correctness-critical paths surface it, best-effort paths log it.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}
