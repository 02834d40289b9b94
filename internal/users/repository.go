package users

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

// Repository provides persistence for user records.
type Repository interface {
	Create(ctx context.Context, user User, passwordHash string) (int64, error)
	List(ctx context.Context) ([]User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	ResolveID(ctx context.Context, username string) (int64, error)
	Search(ctx context.Context, req SearchUsersRequest) ([]User, error)
	Update(ctx context.Context, username string, updates map[string]any) error
	Delete(ctx context.Context, username string) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository backed by postgres.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const userColumns = `user_id, username, first_name, last_name, email, user_type, preferences, is_admin, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var (
		u           User
		lastName    pgtype.Text
		preferences []byte
	)
	err := row.Scan(&u.ID, &u.Username, &u.FirstName, &lastName, &u.Email, &u.UserType, &preferences, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if lastName.Valid {
		u.LastName = &lastName.String
	}
	if len(preferences) > 0 {
		u.Preferences = preferences
	}
	return &u, nil
}

func (r *repository) Create(ctx context.Context, user User, passwordHash string) (int64, error) {
	const query = `
		INSERT INTO users (username, first_name, last_name, email, password_hash, user_type, preferences, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING user_id`
	lastName := pgtype.Text{}
	if user.LastName != nil {
		lastName = pgtype.Text{String: *user.LastName, Valid: true}
	}
	var preferences any
	if len(user.Preferences) > 0 {
		preferences = []byte(user.Preferences)
	}
	var id int64
	err := r.pool.QueryRow(ctx, query,
		user.Username, user.FirstName, lastName, user.Email, passwordHash, user.UserType, preferences, user.IsAdmin,
	).Scan(&id)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return 0, fmt.Errorf("%w: username or email already taken", httpx.ErrConflict)
		}
		return 0, fmt.Errorf("users: create: %w", err)
	}
	return id, nil
}

func (r *repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+userColumns+" FROM users ORDER BY username")
	if err != nil {
		return nil, fmt.Errorf("users: list: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("users: find by username: %w", err)
	}
	return u, nil
}

func (r *repository) ResolveID(ctx context.Context, username string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, "SELECT user_id FROM users WHERE username = $1", username).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, httpx.ErrNotFound
		}
		return 0, fmt.Errorf("users: resolve id: %w", err)
	}
	return id, nil
}

func (r *repository) Search(ctx context.Context, req SearchUsersRequest) ([]User, error) {
	query := "SELECT " + userColumns + " FROM users"
	var (
		conditions []string
		args       []any
	)
	if req.Username != "" {
		args = append(args, req.Username)
		conditions = append(conditions, fmt.Sprintf("username = $%d", len(args)))
	}
	if req.Email != "" {
		args = append(args, req.Email)
		conditions = append(conditions, fmt.Sprintf("email = $%d", len(args)))
	}
	if req.UserType != "" {
		args = append(args, req.UserType)
		conditions = append(conditions, fmt.Sprintf("user_type = $%d", len(args)))
	}
	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY username"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("users: search: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *repository) Update(ctx context.Context, username string, updates map[string]any) error {
	query := "UPDATE users SET updated_at = NOW()"
	var args []any
	for _, col := range []string{"first_name", "last_name", "email", "password_hash", "user_type", "preferences"} {
		if v, ok := updates[col]; ok {
			args = append(args, v)
			query += fmt.Sprintf(", %s = $%d", col, len(args))
		}
	}
	args = append(args, username)
	query += fmt.Sprintf(" WHERE username = $%d", len(args))

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("%w: email already taken", httpx.ErrConflict)
		}
		return fmt.Errorf("users: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, username string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM users WHERE username = $1", username)
	if err != nil {
		return fmt.Errorf("users: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func collectUsers(rows pgx.Rows) ([]User, error) {
	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}
