package emailconfig

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/driveformv/mvt-warehousing-sub000/internal/models"
	"github.com/driveformv/mvt-warehousing-sub000/pkg/database"
)

// Sentinel errors for admin CRUD.
var (
	ErrNotFound  = errors.New("email configuration not found")
	ErrNameTaken = errors.New("an active configuration with this name already exists")
)

// Repository handles email_configurations persistence. A partial unique index
// on (name) WHERE active guarantees at most one active configuration per name.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an email configurations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const configColumns = `id, name, from_email, to_emails, cc_emails, bcc_emails, subject_template, active, created_at, updated_at`

func scanConfig(row pgx.Row) (*models.EmailConfiguration, error) {
	var c models.EmailConfiguration
	err := row.Scan(&c.ID, &c.Name, &c.FromEmail, &c.ToEmails, &c.CcEmails, &c.BccEmails,
		&c.SubjectTemplate, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetActiveByName returns the active configuration with the given name.
// Inactive configurations are invisible here; absence returns ErrNotFound.
func (r *Repository) GetActiveByName(ctx context.Context, name string) (*models.EmailConfiguration, error) {
	const q = `SELECT ` + configColumns + ` FROM email_configurations WHERE name = $1 AND active`
	cfg, err := scanConfig(r.pool.QueryRow(ctx, q, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// List returns all configurations regardless of active flag, ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.EmailConfiguration, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+configColumns+` FROM email_configurations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.EmailConfiguration
	for rows.Next() {
		cfg, err := scanConfig(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *cfg)
	}
	return list, rows.Err()
}

// GetByID returns a configuration by id regardless of active flag.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.EmailConfiguration, error) {
	const q = `SELECT ` + configColumns + ` FROM email_configurations WHERE id = $1`
	cfg, err := scanConfig(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Create inserts a configuration, assigning id and timestamps. Returns
// ErrNameTaken when an active configuration with the same name exists.
func (r *Repository) Create(ctx context.Context, c *models.EmailConfiguration) error {
	const q = `INSERT INTO email_configurations (id, name, from_email, to_emails, cc_emails, bcc_emails, subject_template, active)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, q,
		c.Name, c.FromEmail, c.ToEmails, c.CcEmails, c.BccEmails, c.SubjectTemplate, c.Active,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if database.IsUniqueViolation(err) {
		return ErrNameTaken
	}
	return err
}

// Update replaces the mutable fields of a configuration and refreshes
// updated_at. Returns ErrNotFound when id is absent and ErrNameTaken when the
// change would produce a second active configuration with the same name.
func (r *Repository) Update(ctx context.Context, c *models.EmailConfiguration) error {
	const q = `UPDATE email_configurations
		SET name = $2, from_email = $3, to_emails = $4, cc_emails = $5, bcc_emails = $6,
		    subject_template = $7, active = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, q,
		c.ID, c.Name, c.FromEmail, c.ToEmails, c.CcEmails, c.BccEmails, c.SubjectTemplate, c.Active,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if database.IsUniqueViolation(err) {
		return ErrNameTaken
	}
	return err
}

// Delete removes a configuration permanently. Returns ErrNotFound when absent.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM email_configurations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
