// Package auth_repo provides the PostgreSQL user repository.
package auth_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"bodega/internal/core/apperror"
	"bodega/internal/domain/auth"
	"bodega/internal/infrastructure/storage/postgres"
)

const usersTable = "users"

// UserRepo implements auth.Repository.
type UserRepo struct {
	txManager *postgres.TxManager
}

var _ auth.Repository = (*UserRepo)(nil)

// NewUserRepo creates a new user repository.
func NewUserRepo(txManager *postgres.TxManager) *UserRepo {
	return &UserRepo{txManager: txManager}
}

// GetByDNI returns a user or NotFound.
func (r *UserRepo) GetByDNI(ctx context.Context, dni string) (*auth.User, error) {
	var u auth.User
	err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &u,
		"SELECT dni, name, role, password_hash, active, created_at FROM "+usersTable+" WHERE dni = $1", dni)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("user", dni)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// Create inserts a user.
func (r *UserRepo) Create(ctx context.Context, u *auth.User) error {
	_, err := r.txManager.GetQuerier(ctx).Exec(ctx,
		"INSERT INTO "+usersTable+" (dni, name, role, password_hash, active, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		u.DNI, u.Name, u.Role, u.PasswordHash, u.Active, u.CreatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("user", "dni", u.DNI)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// UpdatePassword replaces the stored hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, dni, passwordHash string) error {
	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx,
		"UPDATE "+usersTable+" SET password_hash = $1 WHERE dni = $2", passwordHash, dni)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("user", dni)
	}
	return nil
}

// List returns all accounts.
func (r *UserRepo) List(ctx context.Context) ([]*auth.User, error) {
	var out []*auth.User
	err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &out,
		"SELECT dni, name, role, password_hash, active, created_at FROM "+usersTable+" ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	return out, nil
}
