package seo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/driveformv/mvt-warehousing-sub000/internal/models"
)

// ErrNotFound is returned when no metadata exists for a path.
var ErrNotFound = errors.New("seo metadata not found")

// Repository handles seo_metadata persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a SEO metadata repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByPath returns the metadata for a page path.
func (r *Repository) GetByPath(ctx context.Context, path string) (*models.SEOMetadata, error) {
	const q = `SELECT id, path, title, description, keywords, og_image, created_at, updated_at
		FROM seo_metadata WHERE path = $1`
	var m models.SEOMetadata
	err := r.pool.QueryRow(ctx, q, path).
		Scan(&m.ID, &m.Path, &m.Title, &m.Description, &m.Keywords, &m.OGImage, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Upsert inserts or replaces the metadata for a path.
func (r *Repository) Upsert(ctx context.Context, m *models.SEOMetadata) error {
	const q = `INSERT INTO seo_metadata (id, path, title, description, keywords, og_image)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
		ON CONFLICT (path) DO UPDATE SET
			title = EXCLUDED.title, description = EXCLUDED.description,
			keywords = EXCLUDED.keywords, og_image = EXCLUDED.og_image, updated_at = NOW()
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, m.Path, m.Title, m.Description, m.Keywords, m.OGImage).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}
