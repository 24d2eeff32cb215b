package models

import (
	"time"

	"github.com/google/uuid"
)

// Newsletter subscriber status values.
const (
	SubscriberStatusActive       = "active"
	SubscriberStatusUnsubscribed = "unsubscribed"
)

// NewsletterSubscriber is one newsletter signup. Email is unique at the storage
// layer; re-subscribing reactivates the existing row.
type NewsletterSubscriber struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
