package domain

import (
	"errors"
	"time"
)

// User is a registered trader. Profile fields are free-form and optional.
type User struct {
	ID             string
	Username       string
	HashedPassword string
	FirstName      string
	LastName       string
	Email          string
	PhoneNumber    string
	City           string
	State          string
	Role           Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Role is a user's access level.
type Role string

const (
	// RoleAdmin can manage other users
	RoleAdmin Role = "admin"

	// RoleTrader can trade and view their own portfolio
	RoleTrader Role = "trader"
)

// IsValid checks if the role is a known role.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleTrader
}

// CanManageUsers checks if the role can list and delete users.
func (r Role) CanManageUsers() bool {
	return r == RoleAdmin
}

// Authentication errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrForbidden    = errors.New("insufficient role for this operation")
)
