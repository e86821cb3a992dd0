package utils

import (
	"strings"
)

// IsInstitutionalEmail reports whether email carries the institutional
// domain suffix. The domain may be configured with or without a leading
// "@"; matching is case-insensitive.
func IsInstitutionalEmail(email, domain string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	domain = strings.ToLower(strings.TrimSpace(domain))
	if email == "" || domain == "" {
		return false
	}
	if !strings.HasPrefix(domain, "@") {
		domain = "@" + domain
	}
	if !strings.HasSuffix(email, domain) {
		return false
	}
	// Require a non-empty local part
	return len(email) > len(domain)
}

// JoinOrgUnits normalizes an organizational-unit list into the comma-joined
// storage form, dropping blanks.
func JoinOrgUnits(units []string) string {
	var cleaned []string
	for _, u := range units {
		u = strings.TrimSpace(u)
		if u != "" {
			cleaned = append(cleaned, u)
		}
	}
	return strings.Join(cleaned, ", ")
}
