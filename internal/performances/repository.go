package performances

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/modernmaestros/maestro/internal/platform/httpx"
)

// Repository provides persistence for performances.
type Repository interface {
	Create(ctx context.Context, performance Performance) (int64, error)
	List(ctx context.Context, req ListPerformancesRequest) ([]Performance, error)
	Get(ctx context.Context, id int64) (*Performance, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
	CompositionExists(ctx context.Context, compositionID int64) (bool, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository backed by postgres.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const performanceColumns = `performance_id, composition_id, user_id, recording_date, location, file_url, created_at, updated_at`

func scanPerformance(row pgx.Row) (*Performance, error) {
	var (
		p             Performance
		userID        pgtype.Int8
		recordingDate pgtype.Timestamptz
		location      pgtype.Text
	)
	err := row.Scan(&p.ID, &p.CompositionID, &userID, &recordingDate, &location, &p.FileURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		p.UserID = &userID.Int64
	}
	if recordingDate.Valid {
		t := recordingDate.Time
		p.RecordingDate = &t
	}
	if location.Valid {
		p.Location = &location.String
	}
	return &p, nil
}

func (r *repository) Create(ctx context.Context, performance Performance) (int64, error) {
	const query = `
		INSERT INTO performances (composition_id, user_id, recording_date, location, file_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING performance_id`
	userID := pgtype.Int8{}
	if performance.UserID != nil {
		userID = pgtype.Int8{Int64: *performance.UserID, Valid: true}
	}
	recordingDate := pgtype.Timestamptz{}
	if performance.RecordingDate != nil {
		recordingDate = pgtype.Timestamptz{Time: *performance.RecordingDate, Valid: true}
	}
	location := pgtype.Text{}
	if performance.Location != nil {
		location = pgtype.Text{String: *performance.Location, Valid: true}
	}
	var id int64
	err := r.pool.QueryRow(ctx, query,
		performance.CompositionID, userID, recordingDate, location, performance.FileURL,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("performances: create: %w", err)
	}
	return id, nil
}

func (r *repository) List(ctx context.Context, req ListPerformancesRequest) ([]Performance, error) {
	query := "SELECT " + performanceColumns + " FROM performances"
	var (
		conditions []string
		args       []any
	)
	if req.CompositionID != nil {
		args = append(args, *req.CompositionID)
		conditions = append(conditions, fmt.Sprintf("composition_id = $%d", len(args)))
	}
	if req.UserID != nil {
		args = append(args, *req.UserID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}
	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY performance_id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("performances: list: %w", err)
	}
	defer rows.Close()

	performances := []Performance{}
	for rows.Next() {
		p, err := scanPerformance(rows)
		if err != nil {
			return nil, err
		}
		performances = append(performances, *p)
	}
	return performances, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (*Performance, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+performanceColumns+" FROM performances WHERE performance_id = $1", id)
	p, err := scanPerformance(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("performances: get: %w", err)
	}
	return p, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	query := "UPDATE performances SET updated_at = NOW()"
	var args []any
	for _, col := range []string{"recording_date", "location", "file_url"} {
		if v, ok := updates[col]; ok {
			args = append(args, v)
			query += fmt.Sprintf(", %s = $%d", col, len(args))
		}
	}
	args = append(args, id)
	query += fmt.Sprintf(" WHERE performance_id = $%d", len(args))

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("performances: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM performances WHERE performance_id = $1", id)
	if err != nil {
		return fmt.Errorf("performances: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) CompositionExists(ctx context.Context, compositionID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM compositions WHERE composition_id = $1)", compositionID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("performances: composition exists: %w", err)
	}
	return exists, nil
}
