package compositions

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

// Repository provides persistence for compositions.
type Repository interface {
	Create(ctx context.Context, composition Composition) (int64, error)
	List(ctx context.Context, req ListCompositionsRequest) ([]Composition, int, error)
	Get(ctx context.Context, id int64) (*Composition, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
	ComposerExists(ctx context.Context, composerID int64) (bool, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository backed by postgres.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const compositionColumns = `composition_id, composer_id, title, year_of_composition, description,
	duration_seconds, status, instrumentation, external_api_name, created_at, updated_at`

func scanComposition(row pgx.Row) (*Composition, error) {
	var (
		c               Composition
		year            pgtype.Int4
		description     pgtype.Text
		duration        pgtype.Int4
		instrumentation []byte
		externalAPI     pgtype.Text
	)
	err := row.Scan(&c.ID, &c.ComposerID, &c.Title, &year, &description,
		&duration, &c.Status, &instrumentation, &externalAPI, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if year.Valid {
		v := int(year.Int32)
		c.Year = &v
	}
	if description.Valid {
		c.Description = &description.String
	}
	if duration.Valid {
		v := int(duration.Int32)
		c.DurationSeconds = &v
	}
	if len(instrumentation) > 0 {
		c.Instrumentation = instrumentation
	}
	if externalAPI.Valid {
		c.ExternalAPIName = &externalAPI.String
	}
	return &c, nil
}

func (r *repository) Create(ctx context.Context, composition Composition) (int64, error) {
	const query = `
		INSERT INTO compositions
			(composer_id, title, year_of_composition, description, duration_seconds, status, instrumentation, external_api_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING composition_id`
	year := pgtype.Int4{}
	if composition.Year != nil {
		year = pgtype.Int4{Int32: int32(*composition.Year), Valid: true}
	}
	description := pgtype.Text{}
	if composition.Description != nil {
		description = pgtype.Text{String: *composition.Description, Valid: true}
	}
	duration := pgtype.Int4{}
	if composition.DurationSeconds != nil {
		duration = pgtype.Int4{Int32: int32(*composition.DurationSeconds), Valid: true}
	}
	var instrumentation any
	if len(composition.Instrumentation) > 0 {
		instrumentation = []byte(composition.Instrumentation)
	}
	externalAPI := pgtype.Text{}
	if composition.ExternalAPIName != nil {
		externalAPI = pgtype.Text{String: *composition.ExternalAPIName, Valid: true}
	}

	var id int64
	err := r.pool.QueryRow(ctx, query,
		composition.ComposerID, composition.Title, year, description, duration,
		composition.Status, instrumentation, externalAPI,
	).Scan(&id)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return 0, fmt.Errorf("%w: composition already exists for this composer and year", httpx.ErrConflict)
		}
		return 0, fmt.Errorf("compositions: create: %w", err)
	}
	return id, nil
}

func (r *repository) List(ctx context.Context, req ListCompositionsRequest) ([]Composition, int, error) {
	where := ""
	var args []any
	appendCond := func(cond string, v any) {
		args = append(args, v)
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(cond, len(args))
	}
	if req.Year != nil {
		appendCond("year_of_composition = $%d", *req.Year)
	}
	if req.Status != "" {
		appendCond("status = $%d", req.Status)
	}
	if req.ComposerID != nil {
		appendCond("composer_id = $%d", *req.ComposerID)
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM compositions"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("compositions: count: %w", err)
	}

	query := "SELECT " + compositionColumns + " FROM compositions" + where + " ORDER BY title"
	args = append(args, req.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, req.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("compositions: list: %w", err)
	}
	defer rows.Close()

	compositions := []Composition{}
	for rows.Next() {
		c, err := scanComposition(rows)
		if err != nil {
			return nil, 0, err
		}
		compositions = append(compositions, *c)
	}
	return compositions, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (*Composition, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+compositionColumns+" FROM compositions WHERE composition_id = $1", id)
	c, err := scanComposition(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("compositions: get: %w", err)
	}
	return c, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	query := "UPDATE compositions SET updated_at = NOW()"
	var args []any
	for _, col := range []string{"title", "year_of_composition", "description", "duration_seconds", "status", "instrumentation"} {
		if v, ok := updates[col]; ok {
			args = append(args, v)
			query += fmt.Sprintf(", %s = $%d", col, len(args))
		}
	}
	args = append(args, id)
	query += fmt.Sprintf(" WHERE composition_id = $%d", len(args))

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("%w: composition already exists for this composer and year", httpx.ErrConflict)
		}
		return fmt.Errorf("compositions: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM compositions WHERE composition_id = $1", id)
	if err != nil {
		return fmt.Errorf("compositions: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) ComposerExists(ctx context.Context, composerID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM composers WHERE composer_id = $1)", composerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("compositions: composer exists: %w", err)
	}
	return exists, nil
}
