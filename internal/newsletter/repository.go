package newsletter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/driveformv/mvt-warehousing-sub000/internal/models"
)

// ErrNotFound is returned when a subscriber email is absent.
var ErrNotFound = errors.New("subscriber not found")

// Repository handles newsletter_subscribers persistence. Email uniqueness is
// enforced by the storage layer, so subscribe is race-free without a prior
// existence check.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a newsletter repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Subscribe inserts or reactivates a subscriber. Returns created=true when a
// row was inserted or reactivated (a welcome email should follow) and
// created=false when the email was already actively subscribed. The
// conditional upsert only touches rows that are not already active, so an
// active duplicate yields no returned row instead of a second record.
func (r *Repository) Subscribe(ctx context.Context, email string) (created bool, err error) {
	const q = `INSERT INTO newsletter_subscribers (id, email, status)
		VALUES (gen_random_uuid(), $1, 'active')
		ON CONFLICT (email) DO UPDATE SET status = 'active', updated_at = NOW()
		WHERE newsletter_subscribers.status <> 'active'
		RETURNING id`
	var id string
	err = r.pool.QueryRow(ctx, q, email).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Unsubscribe marks a subscriber unsubscribed. Returns ErrNotFound when the
// email has never subscribed.
func (r *Repository) Unsubscribe(ctx context.Context, email string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE newsletter_subscribers SET status = 'unsubscribed', updated_at = NOW() WHERE email = $1`, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all subscribers, newest first.
func (r *Repository) List(ctx context.Context) ([]models.NewsletterSubscriber, error) {
	const q = `SELECT id, email, status, created_at, updated_at
		FROM newsletter_subscribers ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.NewsletterSubscriber
	for rows.Next() {
		var s models.NewsletterSubscriber
		if err := rows.Scan(&s.ID, &s.Email, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
