// Package models defines the client-side data models: the authenticated user
// and role, the auth request/response DTOs, and the opaque envelopes that
// resource payloads travel in.
package models

import (
	"slices"
	"strings"
)

// Role is copied into the User by value; it is never a live link.
type Role struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Permissions []string  `json:"permissions,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   Timestamp `json:"created_at"`
	UpdatedAt   Timestamp `json:"updated_at"`
}

// User is the cached identity record of the logged-in account.
type User struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	RoleID    *int64     `json:"role_id,omitempty"`
	Role      *Role      `json:"role,omitempty"`
	IsActive  bool       `json:"is_active"`
	LastLogin *Timestamp `json:"last_login,omitempty"`
	CreatedAt Timestamp  `json:"created_at"`
	UpdatedAt Timestamp  `json:"updated_at"`
}

// RoleName returns the role name or "" when the user has no role.
func (u *User) RoleName() string {
	if u == nil || u.Role == nil {
		return ""
	}
	return u.Role.Name
}

// HasPermission reports whether the user's role grants permission.
func (u *User) HasPermission(permission string) bool {
	if u == nil || u.Role == nil {
		return false
	}
	return slices.Contains(u.Role.Permissions, permission)
}

// IsZero reports whether u carries no identity, as when the backend
// answers with an empty body.
func (u *User) IsZero() bool {
	return u == nil || (u.ID == 0 && u.Username == "")
}

// Clone returns a deep copy so callers can never mutate the cached profile.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.RoleID != nil {
		id := *u.RoleID
		c.RoleID = &id
	}
	if u.LastLogin != nil {
		ll := *u.LastLogin
		c.LastLogin = &ll
	}
	if u.Role != nil {
		r := *u.Role
		r.Permissions = slices.Clone(u.Role.Permissions)
		c.Role = &r
	}
	return &c
}

func (u *User) String() string {
	if u == nil {
		return "<anonymous>"
	}
	var b strings.Builder
	b.WriteString(u.Username)
	if name := u.RoleName(); name != "" {
		b.WriteString(" [")
		b.WriteString(name)
		b.WriteString("]")
	}
	return b.String()
}
