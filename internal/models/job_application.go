package models

import (
	"time"

	"github.com/google/uuid"
)

// JobApplication is one careers form submission.
// ResumePath holds either the S3 object key of the uploaded resume or, when the
// upload failed, the original filename the applicant supplied.
type JobApplication struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Position   string    `json:"position"`
	Experience string    `json:"experience"`
	Message    string    `json:"message,omitempty"`
	ResumePath string    `json:"resume_path,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}
