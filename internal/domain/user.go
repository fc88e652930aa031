package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the authorization role attached to a user and its realtime
// connections.
type Role string

const (
	RoleOperator Role = "OPERATOR"
	RoleManager  Role = "MANAGER"
	RoleDirector Role = "DIRECTOR"
)

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RoleOperator, RoleManager, RoleDirector:
		return true
	}
	return false
}

func ParseRoleFromString(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("%w: invalid role %q", ErrValidation, s)
	}
	return r, nil
}

// User is an authenticated account.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if !u.Role.IsValid() {
		return fmt.Errorf("%w: invalid role %q", ErrValidation, u.Role)
	}
	return nil
}
