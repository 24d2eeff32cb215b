package models

import (
	"time"

	"github.com/google/uuid"
)

// Well-known email configuration names looked up by the submission handlers.
// Specific names are tried first; the *_notification / form_confirmation names
// are the generic fallbacks.
const (
	ConfigContactForm             = "contact_form"
	ConfigContactFormConfirmation = "contact_form_confirmation"
	ConfigContactNotification     = "contact_notification"

	ConfigJobApplicationForm             = "job_application_form"
	ConfigJobApplicationFormConfirmation = "job_application_form_confirmation"
	ConfigCareersNotification            = "careers_notification"

	ConfigNewsletterConfirmation = "newsletter_confirmation"
	ConfigFormConfirmation       = "form_confirmation"
)

// EmailConfiguration is a named rule set describing how to route and template an
// outbound email. Address fields and the subject may contain {{key}} template
// variables resolved per submission. Only active configurations are visible to
// dispatch lookups; at most one active configuration per name is enforced by
// the store.
type EmailConfiguration struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	FromEmail       string    `json:"from_email"`
	ToEmails        []string  `json:"to_emails"`
	CcEmails        []string  `json:"cc_emails,omitempty"`
	BccEmails       []string  `json:"bcc_emails,omitempty"`
	SubjectTemplate string    `json:"subject_template,omitempty"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
