package interactions

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/modernmaestros/maestro/internal/platform/httpx"
)

// Repository provides persistence for user interactions.
type Repository interface {
	Create(ctx context.Context, interaction Interaction) (int64, error)
	List(ctx context.Context, req ListInteractionsRequest) ([]Interaction, error)
	Get(ctx context.Context, id int64) (*Interaction, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository backed by postgres.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const interactionColumns = `interaction_id, user_id, target_id, target_type, interaction_type, content, rating, created_at, updated_at`

func scanInteraction(row pgx.Row) (*Interaction, error) {
	var (
		in      Interaction
		userID  pgtype.Int8
		content pgtype.Text
		rating  pgtype.Int4
	)
	err := row.Scan(&in.ID, &userID, &in.TargetID, &in.TargetType, &in.InteractionType,
		&content, &rating, &in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		in.UserID = &userID.Int64
	}
	if content.Valid {
		in.Content = &content.String
	}
	if rating.Valid {
		r := int(rating.Int32)
		in.Rating = &r
	}
	return &in, nil
}

func (r *repository) Create(ctx context.Context, interaction Interaction) (int64, error) {
	const query = `
		INSERT INTO user_interactions (user_id, target_id, target_type, interaction_type, content, rating)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING interaction_id`
	userID := pgtype.Int8{}
	if interaction.UserID != nil {
		userID = pgtype.Int8{Int64: *interaction.UserID, Valid: true}
	}
	content := pgtype.Text{}
	if interaction.Content != nil {
		content = pgtype.Text{String: *interaction.Content, Valid: true}
	}
	rating := pgtype.Int4{}
	if interaction.Rating != nil {
		rating = pgtype.Int4{Int32: int32(*interaction.Rating), Valid: true}
	}
	var id int64
	err := r.pool.QueryRow(ctx, query,
		userID, interaction.TargetID, interaction.TargetType, interaction.InteractionType, content, rating,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("interactions: create: %w", err)
	}
	return id, nil
}

func (r *repository) List(ctx context.Context, req ListInteractionsRequest) ([]Interaction, error) {
	query := "SELECT " + interactionColumns + " FROM user_interactions"
	var (
		conditions []string
		args       []any
	)
	if req.TargetID != nil {
		args = append(args, *req.TargetID)
		conditions = append(conditions, fmt.Sprintf("target_id = $%d", len(args)))
	}
	if req.TargetType != "" {
		args = append(args, req.TargetType)
		conditions = append(conditions, fmt.Sprintf("target_type = $%d", len(args)))
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
	query += " ORDER BY interaction_id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("interactions: list: %w", err)
	}
	defer rows.Close()

	interactions := []Interaction{}
	for rows.Next() {
		in, err := scanInteraction(rows)
		if err != nil {
			return nil, err
		}
		interactions = append(interactions, *in)
	}
	return interactions, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (*Interaction, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+interactionColumns+" FROM user_interactions WHERE interaction_id = $1", id)
	in, err := scanInteraction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("interactions: get: %w", err)
	}
	return in, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	query := "UPDATE user_interactions SET updated_at = NOW()"
	var args []any
	for _, col := range []string{"content", "rating"} {
		if v, ok := updates[col]; ok {
			args = append(args, v)
			query += fmt.Sprintf(", %s = $%d", col, len(args))
		}
	}
	args = append(args, id)
	query += fmt.Sprintf(" WHERE interaction_id = $%d", len(args))

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("interactions: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM user_interactions WHERE interaction_id = $1", id)
	if err != nil {
		return fmt.Errorf("interactions: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
