package careers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driveformv/mvt-warehousing-sub000/internal/mailer"
	"github.com/driveformv/mvt-warehousing-sub000/internal/models"
)

type fakeStore struct {
	created []*models.JobApplication
}

func (f *fakeStore) Create(_ context.Context, a *models.JobApplication) error {
	a.ID = uuid.New()
	a.Status = models.SubmissionStatusUnread
	a.CreatedAt = time.Now()
	f.created = append(f.created, a)
	return nil
}

func (f *fakeStore) List(_ context.Context) ([]models.JobApplication, error) {
	var out []models.JobApplication
	for _, a := range f.created {
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	for _, a := range f.created {
		if a.ID == id {
			a.Status = status
			return nil
		}
	}
	return ErrNotFound
}

type fakeNotifier struct {
	calls []mailer.DispatchRequest
}

func (f *fakeNotifier) Dispatch(_ context.Context, req mailer.DispatchRequest) error {
	f.calls = append(f.calls, req)
	return nil
}

type fakeUploader struct {
	uploaded []string
	err      error
}

func (f *fakeUploader) UploadResume(_ context.Context, key, _ string, _ io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploaded = append(f.uploaded, key)
	return key, nil
}

func newTestRouter(store *fakeStore, notifier *fakeNotifier, uploader Uploader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(store, notifier, uploader, "noreply@example.com", "recruiting@example.com", nil)
	r := gin.New()
	r.POST("/careers/apply", h.Apply)
	return r
}

func applyForm(t *testing.T, r *gin.Engine, fields map[string]string, resumeName string, resumeContent []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if resumeName != "" {
		fw, err := mw.CreateFormFile("resume", resumeName)
		require.NoError(t, err)
		_, err = fw.Write(resumeContent)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/careers/apply", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validFields() map[string]string {
	return map[string]string{
		"name":       "Luis Mendoza",
		"email":      "luis@example.com",
		"phone":      "+1 915 555 0101",
		"position":   "Forklift Operator",
		"experience": "5 years",
	}
}

func TestApplyWithoutResume(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	r := newTestRouter(store, notifier, nil)

	w := applyForm(t, r, validFields(), "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, store.created, 1)
	assert.Equal(t, models.SubmissionStatusUnread, store.created[0].Status)
	assert.Empty(t, store.created[0].ResumePath)
	require.Len(t, notifier.calls, 2)
	assert.Equal(t, models.ConfigJobApplicationForm, notifier.calls[0].ConfigName)
	assert.Equal(t, models.ConfigJobApplicationFormConfirmation, notifier.calls[1].ConfigName)
	assert.Equal(t, "Forklift Operator", notifier.calls[0].Variables["position"])
}

func TestApplyUploadsResume(t *testing.T) {
	store := &fakeStore{}
	uploader := &fakeUploader{}
	r := newTestRouter(store, &fakeNotifier{}, uploader)

	w := applyForm(t, r, validFields(), "resume.pdf", []byte("%PDF-1.4 fake"))

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, store.created, 1)
	require.Len(t, uploader.uploaded, 1)
	assert.Equal(t, uploader.uploaded[0], store.created[0].ResumePath)
	assert.Contains(t, store.created[0].ResumePath, "resumes/")
	assert.Contains(t, store.created[0].ResumePath, "resume.pdf")
}

func TestApplyUploadFailureIsNonFatal(t *testing.T) {
	store := &fakeStore{}
	uploader := &fakeUploader{err: errors.New("s3 unreachable")}
	notifier := &fakeNotifier{}
	r := newTestRouter(store, notifier, uploader)

	w := applyForm(t, r, validFields(), "resume.pdf", []byte("%PDF-1.4 fake"))

	// Upload failure falls back to the original filename and the application
	// is still persisted and acknowledged.
	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, store.created, 1)
	assert.Equal(t, "resume.pdf", store.created[0].ResumePath)
	assert.Len(t, notifier.calls, 2)
}

func TestApplyDisallowedResumeTypeFallsBackToFilename(t *testing.T) {
	store := &fakeStore{}
	uploader := &fakeUploader{}
	r := newTestRouter(store, &fakeNotifier{}, uploader)

	w := applyForm(t, r, validFields(), "resume.exe", []byte("MZ"))

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, store.created, 1)
	assert.Equal(t, "resume.exe", store.created[0].ResumePath)
	assert.Empty(t, uploader.uploaded)
}

func TestApplyRejectsMalformedEmail(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	r := newTestRouter(store, notifier, nil)

	fields := validFields()
	fields["email"] = "not-an-email"
	w := applyForm(t, r, fields, "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.created)
	assert.Empty(t, notifier.calls)
}

func TestApplyRejectsMissingFields(t *testing.T) {
	store := &fakeStore{}
	r := newTestRouter(store, &fakeNotifier{}, nil)

	w := applyForm(t, r, map[string]string{"name": "Luis"}, "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.created)
}
