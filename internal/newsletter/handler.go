package newsletter

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/driveformv/mvt-warehousing-sub000/internal/mailer"
	"github.com/driveformv/mvt-warehousing-sub000/internal/models"
	"github.com/driveformv/mvt-warehousing-sub000/pkg/database"
	"github.com/driveformv/mvt-warehousing-sub000/pkg/metrics"
	"github.com/driveformv/mvt-warehousing-sub000/pkg/response"
)

// Store is the persistence surface the handler needs.
type Store interface {
	Subscribe(ctx context.Context, email string) (created bool, err error)
	Unsubscribe(ctx context.Context, email string) error
	List(ctx context.Context) ([]models.NewsletterSubscriber, error)
}

// Notifier sends one email through the notification dispatcher.
type Notifier interface {
	Dispatch(ctx context.Context, req mailer.DispatchRequest) error
}

// Handler handles newsletter HTTP endpoints.
type Handler struct {
	store     Store
	notifier  Notifier
	fromEmail string
	logger    *zap.Logger
}

// NewHandler creates a newsletter handler.
func NewHandler(store Store, notifier Notifier, fromEmail string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, notifier: notifier, fromEmail: fromEmail, logger: logger}
}

// SubscribeRequest is the body for POST /newsletter.
type SubscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Subscribe handles POST /newsletter. Idempotent for an already-active email:
// no duplicate record is created and no welcome email is sent.
func (h *Handler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "a valid email is required")
		return
	}

	created, err := h.store.Subscribe(c.Request.Context(), req.Email)
	if err != nil {
		h.logger.Error("newsletter subscribe failed", zap.String("email", req.Email), zap.Error(err))
		if database.IsUnavailable(err) {
			response.ServiceUnavailable(c, "storage temporarily unavailable")
			return
		}
		response.Internal(c, "failed to subscribe")
		return
	}
	if !created {
		response.OKMessage(c, "You are already subscribed to our newsletter.")
		return
	}
	metrics.SubmissionsTotal.WithLabelValues("newsletter").Inc()

	_ = h.notifier.Dispatch(c.Request.Context(), mailer.DispatchRequest{
		ConfigName:   models.ConfigNewsletterConfirmation,
		FallbackName: models.ConfigFormConfirmation,
		Defaults: mailer.Defaults{
			FromEmail: h.fromEmail,
			ToEmails:  []string{req.Email},
			Subject:   "Welcome to the MVT Warehousing newsletter",
		},
		Variables: map[string]string{"email": req.Email},
		HTMLBody: fmt.Sprintf(
			`<p>Thanks for subscribing, %s!</p><p>You will receive updates on logistics and warehousing news from our team.</p>`,
			html.EscapeString(req.Email),
		),
	})

	response.OKMessage(c, "Thank you for subscribing to our newsletter.")
}

// Unsubscribe handles DELETE /newsletter?email=<e>. Marks the subscriber
// unsubscribed; the record is never deleted.
func (h *Handler) Unsubscribe(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		response.BadRequest(c, "email query parameter is required")
		return
	}
	if err := h.store.Unsubscribe(c.Request.Context(), email); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "subscriber not found")
			return
		}
		h.logger.Error("newsletter unsubscribe failed", zap.String("email", email), zap.Error(err))
		response.Internal(c, "failed to unsubscribe")
		return
	}
	response.OKMessage(c, "You have been unsubscribed.")
}

// List handles GET /newsletter (admin). Newest first.
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list subscribers failed", zap.Error(err))
		response.Internal(c, "failed to load subscribers")
		return
	}
	if list == nil {
		list = []models.NewsletterSubscriber{}
	}
	response.OK(c, list)
}
