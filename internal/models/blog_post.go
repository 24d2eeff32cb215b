package models

import (
	"time"

	"github.com/google/uuid"
)

// BlogPost is one article served on the marketing site.
type BlogPost struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Excerpt     string    `json:"excerpt,omitempty"`
	Body        string    `json:"body"`
	Author      string    `json:"author,omitempty"`
	CoverImage  string    `json:"cover_image,omitempty"`
	Published   bool      `json:"published"`
	PublishedAt time.Time `json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
