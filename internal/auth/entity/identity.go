package entity

import "strings"

// Role is the authorization role carried in issued tokens.
type Role string

const (
	RoleUser  Role = "USER"
	RoleOwner Role = "OWNER"
	RoleAdmin Role = "ADMIN"
	// RoleBoth is a user who is also an owner.
	RoleBoth Role = "BOTH"
)

// ParseRole normalizes a stored role. Unknown values fall back to RoleUser.
func ParseRole(s string) Role {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleUser, RoleOwner, RoleAdmin, RoleBoth:
		return r
	default:
		return RoleUser
	}
}

func (r Role) String() string {
	return string(r)
}

// Identity is the registered principal keyed by mobile number.
type Identity struct {
	ID       int64
	Mobile   string
	Role     Role
	Verified bool
}
