package careers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/driveformv/mvt-warehousing-sub000/internal/models"
)

// ErrNotFound is returned when an application id is absent.
var ErrNotFound = errors.New("job application not found")

// Repository handles job_applications persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a job applications repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts an application with status unread.
func (r *Repository) Create(ctx context.Context, a *models.JobApplication) error {
	const q = `INSERT INTO job_applications (id, name, email, phone, position, experience, message, resume_path, status)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, 'unread')
		RETURNING id, status, created_at`
	return r.pool.QueryRow(ctx, q, a.Name, a.Email, a.Phone, a.Position, a.Experience, a.Message, a.ResumePath).
		Scan(&a.ID, &a.Status, &a.CreatedAt)
}

// List returns all applications, newest first.
func (r *Repository) List(ctx context.Context) ([]models.JobApplication, error) {
	const q = `SELECT id, name, email, phone, position, experience, message, resume_path, status, created_at
		FROM job_applications ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.JobApplication
	for rows.Next() {
		var a models.JobApplication
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.Position, &a.Experience, &a.Message, &a.ResumePath, &a.Status, &a.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// UpdateStatus sets the read/unread status of an application.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE job_applications SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
