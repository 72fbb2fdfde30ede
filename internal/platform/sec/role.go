// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Full catalog management, including chapter publication.
	RoleAdmin UserRole = "admin"

	// Can moderate comments.
	RoleModerator UserRole = "moderator"

	// Paying reader with access to Vip chapters.
	RoleVip UserRole = "vip"

	// Default role for standard registered users.
	RoleMember UserRole = "member"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// CanReadVip reports whether the role may open chapters with Vip status.
func (r UserRole) CanReadVip() bool {
	return r == RoleVip || r == RoleAdmin
}

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	return r.level() > 0
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {
	switch r {
	case RoleAdmin:
		return 40
	case RoleModerator:
		return 30
	case RoleVip:
		return 20
	case RoleMember:
		return 10
	default:
		return 0
	}
}
