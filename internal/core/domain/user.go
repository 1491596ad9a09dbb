package domain

import "time"

// Canonical role names. OWNER is bootstrap-only: it can never be assigned
// through the role-update API, only written directly to the database.
const (
	RoleOwner   = "OWNER"
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleUser    = "USER"
)

// CanonicalRoles lists every valid role, highest tier first.
var CanonicalRoles = []string{RoleOwner, RoleAdmin, RoleManager, RoleUser}

// AssignableRoles lists the roles a caller may request through the
// role-update API. OWNER is excluded by construction.
var AssignableRoles = []string{RoleAdmin, RoleManager, RoleUser}

// User models a registered identity. PasswordHash is opaque to everything
// outside the credential store and never serialized.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	Address      string    `json:"address,omitempty"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role string) bool {
	return HasRole(u.Roles, role)
}

// HasRole reports whether role is a member of roles.
func HasRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAssignableRole reports whether role may be requested through the
// role-update API.
func IsAssignableRole(role string) bool {
	return HasRole(AssignableRoles, role)
}
