// Package auth provides user accounts and JWT authentication.
package auth

import (
	"context"
	"time"

	"bodega/internal/core/apperror"
)

// Known roles.
const (
	RoleAdmin     = "admin"
	RoleWarehouse = "warehouse"
)

// User is an account keyed by DNI, the national identity number.
type User struct {
	DNI          string    `db:"dni" json:"dni"`
	Name         string    `db:"name" json:"name"`
	Role         string    `db:"role" json:"role"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	DNI      string
	Name     string
	Role     string
	Password string
}

// Validate checks required fields.
func (in *RegisterInput) Validate() error {
	if in.DNI == "" {
		return apperror.NewValidation("dni is required")
	}
	if in.Name == "" {
		return apperror.NewValidation("name is required")
	}
	if in.Role != RoleAdmin && in.Role != RoleWarehouse {
		return apperror.NewValidation("role must be admin or warehouse")
	}
	if len(in.Password) < 8 {
		return apperror.NewValidation("password must be at least 8 characters")
	}
	return nil
}

// Repository defines user storage operations.
type Repository interface {
	// GetByDNI returns a user or NotFound.
	GetByDNI(ctx context.Context, dni string) (*User, error)

	// Create inserts a user. Duplicate DNI maps to a Duplicate error.
	Create(ctx context.Context, u *User) error

	// UpdatePassword replaces the stored hash.
	UpdatePassword(ctx context.Context, dni, passwordHash string) error

	// List returns all accounts.
	List(ctx context.Context) ([]*User, error)
}
