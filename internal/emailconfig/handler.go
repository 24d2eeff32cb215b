package emailconfig

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/driveformv/mvt-warehousing-sub000/config"
	"github.com/driveformv/mvt-warehousing-sub000/internal/mailer"
	"github.com/driveformv/mvt-warehousing-sub000/internal/models"
	"github.com/driveformv/mvt-warehousing-sub000/pkg/response"
)

// Store is the configuration persistence surface the handler needs.
type Store interface {
	List(ctx context.Context) ([]models.EmailConfiguration, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.EmailConfiguration, error)
	Create(ctx context.Context, c *models.EmailConfiguration) error
	Update(ctx context.Context, c *models.EmailConfiguration) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Notifier sends one email through the notification dispatcher.
type Notifier interface {
	Dispatch(ctx context.Context, req mailer.DispatchRequest) error
}

// Handler handles admin email configuration endpoints.
type Handler struct {
	store       Store
	notifier    Notifier
	defaultFrom string
	logger      *zap.Logger
}

// NewHandler creates an email configurations handler.
func NewHandler(store Store, notifier Notifier, defaultFrom string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, notifier: notifier, defaultFrom: defaultFrom, logger: logger}
}

// ConfigRequest is the body for POST /admin/email-configs. Recipient fields
// accept comma-separated free text; they are normalized before storage.
type ConfigRequest struct {
	Name            string `json:"name" binding:"required"`
	FromEmail       string `json:"from_email" binding:"required"`
	ToEmails        string `json:"to_emails" binding:"required"`
	CcEmails        string `json:"cc_emails"`
	BccEmails       string `json:"bcc_emails"`
	SubjectTemplate string `json:"subject_template"`
	Active          *bool  `json:"active"`
}

// UpdateRequest is the body for PUT /admin/email-configs/:id. All fields are
// optional; absent fields keep their stored value.
type UpdateRequest struct {
	Name            *string `json:"name"`
	FromEmail       *string `json:"from_email"`
	ToEmails        *string `json:"to_emails"`
	CcEmails        *string `json:"cc_emails"`
	BccEmails       *string `json:"bcc_emails"`
	SubjectTemplate *string `json:"subject_template"`
	Active          *bool   `json:"active"`
}

// List handles GET /admin/email-configs. Returns all configurations,
// including inactive ones, ordered by name.
func (h *Handler) List(c *gin.Context) {
	configs, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list email configs failed", zap.Error(err))
		response.Internal(c, "failed to load email configurations")
		return
	}
	if configs == nil {
		configs = []models.EmailConfiguration{}
	}
	response.OK(c, configs)
}

// Create handles POST /admin/email-configs.
func (h *Handler) Create(c *gin.Context) {
	var req ConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "name, from_email and to_emails are required")
		return
	}
	to := config.SplitTrim(req.ToEmails, ",")
	if len(to) == 0 {
		response.BadRequest(c, "to_emails must contain at least one address")
		return
	}
	cfg := &models.EmailConfiguration{
		Name:            req.Name,
		FromEmail:       req.FromEmail,
		ToEmails:        to,
		CcEmails:        config.SplitTrim(req.CcEmails, ","),
		BccEmails:       config.SplitTrim(req.BccEmails, ","),
		SubjectTemplate: req.SubjectTemplate,
		Active:          true,
	}
	if req.Active != nil {
		cfg.Active = *req.Active
	}
	if err := h.store.Create(c.Request.Context(), cfg); err != nil {
		if errors.Is(err, ErrNameTaken) {
			response.Conflict(c, err.Error())
			return
		}
		h.logger.Error("create email config failed", zap.String("name", req.Name), zap.Error(err))
		response.Internal(c, "failed to create email configuration")
		return
	}
	response.Created(c, cfg)
}

// Update handles PUT /admin/email-configs/:id. Merges the provided fields
// into the stored configuration.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid configuration id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	cfg, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "email configuration not found")
			return
		}
		h.logger.Error("load email config failed", zap.String("id", id.String()), zap.Error(err))
		response.Internal(c, "failed to load email configuration")
		return
	}

	if req.Name != nil {
		cfg.Name = *req.Name
	}
	if req.FromEmail != nil {
		cfg.FromEmail = *req.FromEmail
	}
	if req.ToEmails != nil {
		cfg.ToEmails = config.SplitTrim(*req.ToEmails, ",")
	}
	if req.CcEmails != nil {
		cfg.CcEmails = config.SplitTrim(*req.CcEmails, ",")
	}
	if req.BccEmails != nil {
		cfg.BccEmails = config.SplitTrim(*req.BccEmails, ",")
	}
	if req.SubjectTemplate != nil {
		cfg.SubjectTemplate = *req.SubjectTemplate
	}
	if req.Active != nil {
		cfg.Active = *req.Active
	}
	if cfg.Name == "" || cfg.FromEmail == "" || len(cfg.ToEmails) == 0 {
		response.BadRequest(c, "name, from_email and to_emails must not be empty")
		return
	}

	if err := h.store.Update(c.Request.Context(), cfg); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(c, "email configuration not found")
		case errors.Is(err, ErrNameTaken):
			response.Conflict(c, err.Error())
		default:
			h.logger.Error("update email config failed", zap.String("id", id.String()), zap.Error(err))
			response.Internal(c, "failed to update email configuration")
		}
		return
	}
	response.OK(c, cfg)
}

// Delete handles DELETE /admin/email-configs/:id. Removal is permanent.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid configuration id")
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "email configuration not found")
			return
		}
		h.logger.Error("delete email config failed", zap.String("id", id.String()), zap.Error(err))
		response.Internal(c, "failed to delete email configuration")
		return
	}
	response.NoContent(c)
}

// SendTest handles GET /test-email?to=<addr>&config=<name>. Sends a synthetic
// test email through the dispatcher using the named (or default) configuration
// and reports the transport result synchronously.
func (h *Handler) SendTest(c *gin.Context) {
	to := c.Query("to")
	if to == "" {
		response.BadRequest(c, "to query parameter is required")
		return
	}
	configName := c.Query("config")
	if configName == "" {
		configName = models.ConfigContactNotification
	}

	now := time.Now().UTC().Format(time.RFC3339)
	body := fmt.Sprintf(
		"<p>This is a test email sent at %s.</p><p>Requested recipient: %s</p>",
		now, html.EscapeString(to),
	)

	err := h.notifier.Dispatch(c.Request.Context(), mailer.DispatchRequest{
		ConfigName: configName,
		Defaults: mailer.Defaults{
			FromEmail: h.defaultFrom,
			ToEmails:  []string{to},
			Subject:   "Test email",
		},
		Variables: map[string]string{
			"email":     to,
			"timestamp": now,
		},
		HTMLBody: body,
	})
	if err != nil {
		response.Internal(c, "test email failed: "+err.Error())
		return
	}
	response.OKMessage(c, "test email sent to "+to)
}
