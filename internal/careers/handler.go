package careers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"mime/multipart"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/driveformv/mvt-warehousing-sub000/internal/mailer"
	"github.com/driveformv/mvt-warehousing-sub000/internal/models"
	"github.com/driveformv/mvt-warehousing-sub000/pkg/database"
	"github.com/driveformv/mvt-warehousing-sub000/pkg/metrics"
	"github.com/driveformv/mvt-warehousing-sub000/pkg/response"
	"github.com/driveformv/mvt-warehousing-sub000/pkg/storage"
)

var emailRx = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Store is the persistence surface the handler needs.
type Store interface {
	Create(ctx context.Context, a *models.JobApplication) error
	List(ctx context.Context) ([]models.JobApplication, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

// Notifier sends one email through the notification dispatcher.
type Notifier interface {
	Dispatch(ctx context.Context, req mailer.DispatchRequest) error
}

// Uploader stores a resume file and returns its object key.
type Uploader interface {
	UploadResume(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// Handler handles careers HTTP endpoints.
type Handler struct {
	store         Store
	notifier      Notifier
	uploader      Uploader // nil when S3 is not configured
	fromEmail     string
	operatorEmail string
	logger        *zap.Logger
}

// NewHandler creates a careers handler.
func NewHandler(store Store, notifier Notifier, uploader Uploader, fromEmail, operatorEmail string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, notifier: notifier, uploader: uploader, fromEmail: fromEmail, operatorEmail: operatorEmail, logger: logger}
}

// Apply handles POST /careers/apply (multipart form). The resume upload is
// best-effort: on failure the original filename is stored as the resume
// reference and the application proceeds.
func (h *Handler) Apply(c *gin.Context) {
	app := &models.JobApplication{
		Name:       c.PostForm("name"),
		Email:      c.PostForm("email"),
		Phone:      c.PostForm("phone"),
		Position:   c.PostForm("position"),
		Experience: c.PostForm("experience"),
		Message:    c.PostForm("message"),
	}
	if app.Name == "" || app.Email == "" || app.Phone == "" || app.Position == "" || app.Experience == "" {
		response.BadRequest(c, "name, email, phone, position and experience are required")
		return
	}
	if !emailRx.MatchString(app.Email) {
		response.BadRequest(c, "invalid email address")
		return
	}

	if fh, err := c.FormFile("resume"); err == nil && fh != nil {
		app.ResumePath = h.storeResume(c.Request.Context(), fh)
	}

	if err := h.store.Create(c.Request.Context(), app); err != nil {
		h.logger.Error("create job application failed", zap.String("email", app.Email), zap.Error(err))
		if database.IsUnavailable(err) {
			response.ServiceUnavailable(c, "storage temporarily unavailable")
			return
		}
		response.Internal(c, "failed to save your application")
		return
	}
	metrics.SubmissionsTotal.WithLabelValues("careers").Inc()

	h.notify(c.Request.Context(), app)

	response.OKMessage(c, "Thank you for applying. Our recruiting team will review your application.")
}

// storeResume uploads the resume to S3 and returns the object key, or the
// original filename when the upload cannot be performed.
func (h *Handler) storeResume(ctx context.Context, fh *multipart.FileHeader) string {
	filename := fh.Filename
	if h.uploader == nil {
		return filename
	}
	if fh.Size > storage.MaxResumeSize {
		h.logger.Warn("resume too large, storing filename only", zap.String("filename", filename), zap.Int64("size", fh.Size))
		return filename
	}
	contentType := fh.Header.Get("Content-Type")
	if !storage.ValidateResumeFileType(contentType, filename) {
		h.logger.Warn("resume type not allowed, storing filename only", zap.String("filename", filename), zap.String("content_type", contentType))
		return filename
	}
	f, err := fh.Open()
	if err != nil {
		h.logger.Warn("open resume failed, storing filename only", zap.String("filename", filename), zap.Error(err))
		return filename
	}
	defer f.Close()

	key := storage.ResumeKey(uuid.New().String(), filename)
	stored, err := h.uploader.UploadResume(ctx, key, storage.ContentTypeForFilename(filename), f)
	if err != nil {
		h.logger.Warn("resume upload failed, storing filename only", zap.String("filename", filename), zap.Error(err))
		return filename
	}
	return stored
}

// notify sends the recruiter notification and the applicant confirmation.
// Failures are absorbed; the persisted application is the source of truth.
func (h *Handler) notify(ctx context.Context, app *models.JobApplication) {
	vars := map[string]string{
		"name":       app.Name,
		"email":      app.Email,
		"phone":      app.Phone,
		"position":   app.Position,
		"experience": app.Experience,
		"message":    app.Message,
		"resume":     app.ResumePath,
	}

	_ = h.notifier.Dispatch(ctx, mailer.DispatchRequest{
		ConfigName:   models.ConfigJobApplicationForm,
		FallbackName: models.ConfigCareersNotification,
		Defaults: mailer.Defaults{
			FromEmail: h.fromEmail,
			ToEmails:  []string{h.operatorEmail},
			Subject:   "New job application for {{position}}",
		},
		Variables: vars,
		HTMLBody:  recruiterBody(app),
	})

	_ = h.notifier.Dispatch(ctx, mailer.DispatchRequest{
		ConfigName:   models.ConfigJobApplicationFormConfirmation,
		FallbackName: models.ConfigFormConfirmation,
		Defaults: mailer.Defaults{
			FromEmail: h.fromEmail,
			ToEmails:  []string{app.Email},
			Subject:   "We received your application",
		},
		Variables: vars,
		HTMLBody:  applicantBody(app),
	})
}

func recruiterBody(app *models.JobApplication) string {
	return fmt.Sprintf(
		`<h2>New job application</h2>
<p><strong>Name:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Phone:</strong> %s</p>
<p><strong>Position:</strong> %s</p>
<p><strong>Experience:</strong> %s</p>
<p><strong>Resume:</strong> %s</p>
<p><strong>Message:</strong></p>
<p>%s</p>`,
		html.EscapeString(app.Name),
		html.EscapeString(app.Email),
		html.EscapeString(app.Phone),
		html.EscapeString(app.Position),
		html.EscapeString(app.Experience),
		html.EscapeString(app.ResumePath),
		html.EscapeString(app.Message),
	)
}

func applicantBody(app *models.JobApplication) string {
	return fmt.Sprintf(
		`<p>Hi %s,</p>
<p>Thank you for applying for the %s position. Our recruiting team will review your application and contact you if there is a fit.</p>
<p>— MVT Warehousing</p>`,
		html.EscapeString(app.Name),
		html.EscapeString(app.Position),
	)
}

// List handles GET /careers/applications (admin). Newest first.
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list job applications failed", zap.Error(err))
		response.Internal(c, "failed to load applications")
		return
	}
	if list == nil {
		list = []models.JobApplication{}
	}
	response.OK(c, list)
}

// StatusRequest is the body for PUT /careers/applications?id=<id>.
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PUT /careers/applications?id=<id> (admin).
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
			response.NotFound(c, "application not found")
			return
		}
		h.logger.Error("update application status failed", zap.String("id", id.String()), zap.Error(err))
		response.Internal(c, "failed to update status")
		return
	}
	response.OKMessage(c, "status updated")
}
