package contact

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/driveformv/mvt-warehousing-sub000/internal/models"
)

// ErrNotFound is returned when a submission id is absent.
var ErrNotFound = errors.New("contact submission not found")

// Repository handles contact_submissions persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a contact submissions repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a submission with status unread.
func (r *Repository) Create(ctx context.Context, s *models.ContactSubmission) error {
	const q = `INSERT INTO contact_submissions (id, name, email, phone, company, subject, message, status)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, 'unread')
		RETURNING id, status, created_at`
	return r.pool.QueryRow(ctx, q, s.Name, s.Email, s.Phone, s.Company, s.Subject, s.Message).
		Scan(&s.ID, &s.Status, &s.CreatedAt)
}

// List returns all submissions, newest first.
func (r *Repository) List(ctx context.Context) ([]models.ContactSubmission, error) {
	const q = `SELECT id, name, email, phone, company, subject, message, status, created_at
		FROM contact_submissions ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.ContactSubmission
	for rows.Next() {
		var s models.ContactSubmission
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Company, &s.Subject, &s.Message, &s.Status, &s.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// UpdateStatus sets the read/unread status of a submission.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE contact_submissions SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
