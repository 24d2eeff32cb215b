package blog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/driveformv/mvt-warehousing-sub000/internal/models"
)

// Sentinel errors for blog CRUD.
var (
	ErrNotFound  = errors.New("blog post not found")
	ErrSlugTaken = errors.New("a post with this slug already exists")
)

// Repository handles blog_posts persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a blog repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const postColumns = `id, title, slug, excerpt, body, author, cover_image, published, published_at, created_at, updated_at`

func scanPost(row pgx.Row) (*models.BlogPost, error) {
	var p models.BlogPost
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Body, &p.Author, &p.CoverImage,
		&p.Published, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPublished returns published posts, newest first.
func (r *Repository) ListPublished(ctx context.Context) ([]models.BlogPost, error) {
	const q = `SELECT ` + postColumns + ` FROM blog_posts WHERE published ORDER BY published_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.BlogPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

// GetByID returns a published post by id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	const q = `SELECT ` + postColumns + ` FROM blog_posts WHERE id = $1 AND published`
	p, err := scanPost(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a post.
func (r *Repository) Create(ctx context.Context, p *models.BlogPost) error {
	const q = `INSERT INTO blog_posts (id, title, slug, excerpt, body, author, cover_image, published)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)
		RETURNING id, published_at, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, p.Title, p.Slug, p.Excerpt, p.Body, p.Author, p.CoverImage, p.Published).
		Scan(&p.ID, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
}

// Update replaces the mutable fields of a post.
func (r *Repository) Update(ctx context.Context, p *models.BlogPost) error {
	const q = `UPDATE blog_posts
		SET title = $2, slug = $3, excerpt = $4, body = $5, author = $6, cover_image = $7, published = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING published_at, created_at, updated_at`
	err := r.pool.QueryRow(ctx, q, p.ID, p.Title, p.Slug, p.Excerpt, p.Body, p.Author, p.CoverImage, p.Published).
		Scan(&p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Delete removes a post permanently.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
