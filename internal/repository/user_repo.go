package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sakhi-junction/internal/model"
	"sakhi-junction/pkg/apierror"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// FindByID resolves an account without its password hash. This is the lookup
// the auth gate uses, so the secret column is never even selected.
func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	var (
		u        model.User
		active   *bool
		verified *bool
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name, role, is_active, is_email_verified, last_login, created_at, updated_at
		 FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Email, &u.Name, &u.Role, &active, &verified, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, apierror.NotFound("User not found")
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}

	u.Status = model.AccountStatusFromPtr(active)
	u.EmailVerification = model.EmailVerificationFromPtr(verified)
	return u, nil
}

// FindByEmail is used only by the login flow and therefore includes the
// password hash.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	var (
		u        model.User
		active   *bool
		verified *bool
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, name, role, is_active, is_email_verified, last_login, created_at, updated_at
		 FROM users WHERE lower(email) = lower($1)`, strings.TrimSpace(email)).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &active, &verified, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, apierror.NotFound("User not found")
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by email: %w", err)
	}

	u.Status = model.AccountStatusFromPtr(active)
	u.EmailVerification = model.EmailVerificationFromPtr(verified)
	return u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1))`,
		strings.TrimSpace(email)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) Create(ctx context.Context, u model.User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, name, role, is_active, is_email_verified, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Role, u.Status.Ptr(), u.EmailVerification.Ptr(), u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET last_login = $2, updated_at = $2 WHERE id = $1`,
		userID, at)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

func (r *UserRepository) SetEmailVerified(ctx context.Context, userID string, verified bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET is_email_verified = $2, updated_at = $3 WHERE id = $1`,
		userID, verified, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set email verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("User not found")
	}
	return nil
}
