// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"slices"
	"time"
)

// Role is an authorization role carried in access tokens.
type Role string

const (
	// RoleUser is granted to every account.
	RoleUser Role = "user"
	// RoleAdmin is granted to store administrators.
	RoleAdmin Role = "admin"
)

// User is a registered storefront account.
// Username and Email are unique case-insensitively.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Email        string    `json:"email"`
	FullName     *string   `json:"fullName,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Roles derives the role names for the user's tokens.
func (u *User) Roles() []string {
	if u.IsAdmin {
		return []string{string(RoleUser), string(RoleAdmin)}
	}

	return []string{string(RoleUser)}
}

// HasRole reports whether role is among the given role names.
func HasRole(roles []string, role Role) bool {
	return slices.Contains(roles, string(role))
}
