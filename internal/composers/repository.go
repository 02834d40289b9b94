package composers

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

// Repository provides persistence for composer profiles.
type Repository interface {
	Create(ctx context.Context, composer Composer) (int64, error)
	List(ctx context.Context, search string) ([]Composer, error)
	Get(ctx context.Context, id int64) (*Composer, error)
	FindByName(ctx context.Context, name string) (*Composer, error)
	FindByUserID(ctx context.Context, userID int64) (*Composer, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
	Link(ctx context.Context, id, userID int64) error
	Unlink(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository backed by postgres.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const composerColumns = `composer_id, name, biography, website, social_media_links, user_id, created_at, updated_at`

func scanComposer(row pgx.Row) (*Composer, error) {
	var (
		c         Composer
		biography pgtype.Text
		website   pgtype.Text
		links     []byte
		userID    pgtype.Int8
	)
	err := row.Scan(&c.ID, &c.Name, &biography, &website, &links, &userID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if biography.Valid {
		c.Biography = &biography.String
	}
	if website.Valid {
		c.Website = &website.String
	}
	if len(links) > 0 {
		c.SocialMediaLinks = links
	}
	if userID.Valid {
		c.UserID = &userID.Int64
	}
	return &c, nil
}

func (r *repository) Create(ctx context.Context, composer Composer) (int64, error) {
	const query = `
		INSERT INTO composers (name, biography, website, social_media_links, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING composer_id`
	biography := pgtype.Text{}
	if composer.Biography != nil {
		biography = pgtype.Text{String: *composer.Biography, Valid: true}
	}
	website := pgtype.Text{}
	if composer.Website != nil {
		website = pgtype.Text{String: *composer.Website, Valid: true}
	}
	var links any
	if len(composer.SocialMediaLinks) > 0 {
		links = []byte(composer.SocialMediaLinks)
	}
	userID := pgtype.Int8{}
	if composer.UserID != nil {
		userID = pgtype.Int8{Int64: *composer.UserID, Valid: true}
	}
	var id int64
	err := r.pool.QueryRow(ctx, query, composer.Name, biography, website, links, userID).Scan(&id)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return 0, fmt.Errorf("%w: composer name already exists", httpx.ErrConflict)
		}
		return 0, fmt.Errorf("composers: create: %w", err)
	}
	return id, nil
}

func (r *repository) List(ctx context.Context, search string) ([]Composer, error) {
	query := "SELECT " + composerColumns + " FROM composers"
	var args []any
	if search != "" {
		query += " WHERE name ILIKE $1"
		args = append(args, "%"+search+"%")
	}
	query += " ORDER BY name"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("composers: list: %w", err)
	}
	defer rows.Close()

	composers := []Composer{}
	for rows.Next() {
		c, err := scanComposer(rows)
		if err != nil {
			return nil, err
		}
		composers = append(composers, *c)
	}
	return composers, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (*Composer, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+composerColumns+" FROM composers WHERE composer_id = $1", id)
	c, err := scanComposer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("composers: get: %w", err)
	}
	return c, nil
}

func (r *repository) FindByName(ctx context.Context, name string) (*Composer, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+composerColumns+" FROM composers WHERE name = $1", name)
	c, err := scanComposer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("composers: find by name: %w", err)
	}
	return c, nil
}

func (r *repository) FindByUserID(ctx context.Context, userID int64) (*Composer, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+composerColumns+" FROM composers WHERE user_id = $1", userID)
	c, err := scanComposer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("composers: find by user: %w", err)
	}
	return c, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	query := "UPDATE composers SET updated_at = NOW()"
	var args []any
	for _, col := range []string{"name", "biography", "website", "social_media_links"} {
		if v, ok := updates[col]; ok {
			args = append(args, v)
			query += fmt.Sprintf(", %s = $%d", col, len(args))
		}
	}
	args = append(args, id)
	query += fmt.Sprintf(" WHERE composer_id = $%d", len(args))

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("%w: composer name already exists", httpx.ErrConflict)
		}
		return fmt.Errorf("composers: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM composers WHERE composer_id = $1", id)
	if err != nil {
		return fmt.Errorf("composers: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// Link runs in a transaction so the one-profile-per-user check and the
// link itself cannot interleave with a concurrent claim.
func (r *repository) Link(ctx context.Context, id, userID int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var held int64
		err := tx.QueryRow(ctx,
			"SELECT composer_id FROM composers WHERE user_id = $1 FOR UPDATE", userID).Scan(&held)
		if err == nil {
			return fmt.Errorf("%w: user already linked to a composer", httpx.ErrConflict)
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("composers: link: %w", err)
		}

		tag, err := tx.Exec(ctx,
			"UPDATE composers SET user_id = $1, updated_at = NOW() WHERE composer_id = $2 AND user_id IS NULL",
			userID, id)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return fmt.Errorf("%w: user already linked to a composer", httpx.ErrConflict)
			}
			return fmt.Errorf("composers: link: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: composer already linked", httpx.ErrConflict)
		}
		return nil
	})
}

func (r *repository) Unlink(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE composers SET user_id = NULL, updated_at = NOW() WHERE composer_id = $1", id)
	if err != nil {
		return fmt.Errorf("composers: unlink: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
