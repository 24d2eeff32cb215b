package models

import (
	"time"

	"github.com/google/uuid"
)

// Submission status values for contact submissions and job applications.
const (
	SubmissionStatusUnread = "unread"
	SubmissionStatusRead   = "read"
)

// ContactSubmission is one contact form submission.
type ContactSubmission struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
