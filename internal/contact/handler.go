package contact

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/driveformv/mvt-warehousing-sub000/internal/mailer"
	"github.com/driveformv/mvt-warehousing-sub000/internal/models"
	"github.com/driveformv/mvt-warehousing-sub000/pkg/database"
	"github.com/driveformv/mvt-warehousing-sub000/pkg/metrics"
	"github.com/driveformv/mvt-warehousing-sub000/pkg/response"
)

// Store is the persistence surface the handler needs.
type Store interface {
	Create(ctx context.Context, s *models.ContactSubmission) error
	List(ctx context.Context) ([]models.ContactSubmission, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

// Notifier sends one email through the notification dispatcher.
type Notifier interface {
	Dispatch(ctx context.Context, req mailer.DispatchRequest) error
}

// Handler handles contact form HTTP endpoints.
type Handler struct {
	store         Store
	notifier      Notifier
	fromEmail     string
	operatorEmail string
	logger        *zap.Logger
}

// NewHandler creates a contact handler. fromEmail and operatorEmail are the
// hardcoded dispatch defaults used when no email configuration exists.
func NewHandler(store Store, notifier Notifier, fromEmail, operatorEmail string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, notifier: notifier, fromEmail: fromEmail, operatorEmail: operatorEmail, logger: logger}
}

// SubmitRequest is the body for POST /contact.
type SubmitRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Subject string `json:"subject"`
}

// Submit handles POST /contact. The submission is persisted first; both
// notification emails are best-effort and never fail the request once the
// record exists.
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "name, a valid email and message are required")
		return
	}

	sub := &models.ContactSubmission{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := h.store.Create(c.Request.Context(), sub); err != nil {
		h.logger.Error("create contact submission failed", zap.String("email", req.Email), zap.Error(err))
		if database.IsUnavailable(err) {
			response.ServiceUnavailable(c, "storage temporarily unavailable")
			return
		}
		response.Internal(c, "failed to save your message")
		return
	}
	metrics.SubmissionsTotal.WithLabelValues("contact").Inc()

	h.notify(c.Request.Context(), sub)

	response.OKMessage(c, "Thank you for contacting us. We will get back to you shortly.")
}

// notify sends the operator notification and the submitter confirmation.
// Dispatch errors are already logged by the dispatcher; they are absorbed here
// because the persisted submission is the source of truth.
func (h *Handler) notify(ctx context.Context, sub *models.ContactSubmission) {
	vars := map[string]string{
		"name":    sub.Name,
		"email":   sub.Email,
		"phone":   sub.Phone,
		"company": sub.Company,
		"subject": sub.Subject,
		"message": sub.Message,
	}

	_ = h.notifier.Dispatch(ctx, mailer.DispatchRequest{
		ConfigName:   models.ConfigContactForm,
		FallbackName: models.ConfigContactNotification,
		Defaults: mailer.Defaults{
			FromEmail: h.fromEmail,
			ToEmails:  []string{h.operatorEmail},
			Subject:   "New contact form submission from {{name}}",
		},
		Variables: vars,
		HTMLBody:  operatorBody(sub),
	})

	_ = h.notifier.Dispatch(ctx, mailer.DispatchRequest{
		ConfigName:   models.ConfigContactFormConfirmation,
		FallbackName: models.ConfigFormConfirmation,
		Defaults: mailer.Defaults{
			FromEmail: h.fromEmail,
			ToEmails:  []string{sub.Email},
			Subject:   "We received your message",
		},
		Variables: vars,
		HTMLBody:  confirmationBody(sub),
	})
}

func operatorBody(sub *models.ContactSubmission) string {
	return fmt.Sprintf(
		`<h2>New contact form submission</h2>
<p><strong>Name:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Phone:</strong> %s</p>
<p><strong>Company:</strong> %s</p>
<p><strong>Subject:</strong> %s</p>
<p><strong>Message:</strong></p>
<p>%s</p>`,
		html.EscapeString(sub.Name),
		html.EscapeString(sub.Email),
		html.EscapeString(sub.Phone),
		html.EscapeString(sub.Company),
		html.EscapeString(sub.Subject),
		html.EscapeString(sub.Message),
	)
}

func confirmationBody(sub *models.ContactSubmission) string {
	return fmt.Sprintf(
		`<p>Hi %s,</p>
<p>Thank you for reaching out. We received your message and a member of our team will respond shortly.</p>
<p>— MVT Warehousing</p>`,
		html.EscapeString(sub.Name),
	)
}

// List handles GET /contact (admin). Returns all submissions, newest first.
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list contact submissions failed", zap.Error(err))
		response.Internal(c, "failed to load submissions")
		return
	}
	if list == nil {
		list = []models.ContactSubmission{}
	}
	response.OK(c, list)
}

// StatusRequest is the body for PUT /contact?id=<id>.
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PUT /contact?id=<id> (admin). Marks a submission read or unread.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Query("id"))
	if err != nil {
		response.BadRequest(c, "invalid or missing id")
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "status is required")
		return
	}
	if req.Status != models.SubmissionStatusUnread && req.Status != models.SubmissionStatusRead {
		response.BadRequest(c, "status must be unread or read")
		return
	}
	if err := h.store.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "submission not found")
			return
		}
		h.logger.Error("update contact status failed", zap.String("id", id.String()), zap.Error(err))
		response.Internal(c, "failed to update status")
		return
	}
	response.OKMessage(c, "status updated")
}
