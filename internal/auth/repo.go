package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/modernmaestros/maestro/internal/platform/db"
	"github.com/modernmaestros/maestro/internal/platform/httpx"
)

// Repository provides credential-store access for authentication.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user User) (int64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository backed by postgres.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	const query = `
		SELECT user_id, username, first_name, last_name, email, password_hash, user_type, is_admin, created_at
		FROM users
		WHERE username = $1`
	var (
		u        User
		lastName pgtype.Text
	)
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&u.ID, &u.Username, &u.FirstName, &lastName, &u.Email, &u.PasswordHash, &u.UserType, &u.IsAdmin, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("auth: find by username: %w", err)
	}
	if lastName.Valid {
		u.LastName = &lastName.String
	}
	return &u, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)", email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("auth: email exists: %w", err)
	}
	return exists, nil
}

func (r *repository) Create(ctx context.Context, user User) (int64, error) {
	const query = `
		INSERT INTO users (username, first_name, last_name, email, password_hash, user_type, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING user_id`
	lastName := pgtype.Text{}
	if user.LastName != nil {
		lastName = pgtype.Text{String: *user.LastName, Valid: true}
	}
	var id int64
	err := r.pool.QueryRow(ctx, query,
		user.Username, user.FirstName, lastName, user.Email, user.PasswordHash, user.UserType, user.IsAdmin,
	).Scan(&id)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return 0, fmt.Errorf("%w: username or email already taken", httpx.ErrConflict)
		}
		return 0, fmt.Errorf("auth: create user: %w", err)
	}
	return id, nil
}
