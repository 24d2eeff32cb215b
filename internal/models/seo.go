package models

import (
	"time"

	"github.com/google/uuid"
)

// SEOMetadata holds per-page metadata managed through the admin panel.
// Path is unique (e.g. "/", "/services", "/careers").
type SEOMetadata struct {
	ID          uuid.UUID `json:"id"`
	Path        string    `json:"path"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Keywords    string    `json:"keywords,omitempty"`
	OGImage     string    `json:"og_image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
