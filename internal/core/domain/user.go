package domain

import (
	"slices"
	"strings"
	"time"
)

// Role codes understood by the back office.
const (
	RoleAdmin      = "ADMIN"
	RoleTreasurer  = "TREASURER"
	RoleAccountant = "ACCOUNTANT"
	RoleViewer     = "VIEWER"
)

// User represents a back-office operator.
type User struct {
	UserID       string   `json:"userID"` // Primary Key (e.g., UUID)
	Username     string   `json:"username"`
	PasswordHash string   `json:"-"`
	Name         string   `json:"name"`
	Roles        []string `json:"roles"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete
}

// Principal is the authenticated identity carried by a session.
// A principal may hold several roles at once.
type Principal struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

// Principal returns the session-facing view of the user.
func (u User) Principal() Principal {
	return Principal{ID: u.UserID, Name: u.Name, Roles: NormalizeRoles(u.Roles)}
}

// HasRole reports whether the principal holds the given role code.
func (p Principal) HasRole(code string) bool {
	return slices.Contains(p.Roles, strings.ToUpper(strings.TrimSpace(code)))
}

// HasAnyRole reports whether the principal holds at least one of codes.
func (p Principal) HasAnyRole(codes ...string) bool {
	for _, c := range codes {
		if p.HasRole(c) {
			return true
		}
	}
	return false
}

// NormalizeRoles upper-cases, trims, de-duplicates and sorts role codes.
func NormalizeRoles(roles []string) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		r = strings.ToUpper(strings.TrimSpace(r))
		if r == "" || slices.Contains(out, r) {
			continue
		}
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}
