package model

import (
	"slices"
	"time"
)

// Built-in role names. The set of undeletable roles is configured separately.
const (
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

// User is an account known to the system
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Roles []Role `json:"roles,omitempty"`
}

// RoleNames returns the names of the loaded roles
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// Role is a named permission group
type Role struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type NewUser struct {
	Email     string
	FirstName string
	LastName  string
}

type UserPatch struct {
	Email     *string
	FirstName *string
	LastName  *string
}

type UserFilter struct {
	Search string // matches email, first or last name
	Active *bool
	Role   string
}

type NewRole struct {
	Name        string
	Description *string
}

type RolePatch struct {
	Name        *string
	Description Optional[string]
}

type RoleFilter struct {
	Search string
}

// Actor is the authenticated caller of a mutating operation. Its values are
// trusted as supplied.
type Actor struct {
	ID    int64
	Roles []string
}

// HasRole reports whether the actor carries role
func (a Actor) HasRole(role string) bool {
	return slices.Contains(a.Roles, role)
}

func (a Actor) IsAdmin() bool {
	return a.HasRole(RoleAdmin)
}
