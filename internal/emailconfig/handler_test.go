package emailconfig

import (
	"bytes"
	"context"
	"encoding/json"
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
	"github.com/driveformv/mvt-warehousing-sub000/pkg/response"
)

type fakeStore struct {
	configs map[uuid.UUID]*models.EmailConfiguration
}

func newFakeStore() *fakeStore {
	return &fakeStore{configs: map[uuid.UUID]*models.EmailConfiguration{}}
}

func (f *fakeStore) activeByName(name string) *models.EmailConfiguration {
	for _, c := range f.configs {
		if c.Name == name && c.Active {
			return c
		}
	}
	return nil
}

func (f *fakeStore) List(_ context.Context) ([]models.EmailConfiguration, error) {
	var out []models.EmailConfiguration
	for _, c := range f.configs {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*models.EmailConfiguration, error) {
	c, ok := f.configs[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeStore) Create(_ context.Context, c *models.EmailConfiguration) error {
	if c.Active && f.activeByName(c.Name) != nil {
		return ErrNameTaken
	}
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.configs[c.ID] = c
	return nil
}

func (f *fakeStore) Update(_ context.Context, c *models.EmailConfiguration) error {
	if _, ok := f.configs[c.ID]; !ok {
		return ErrNotFound
	}
	if c.Active {
		if existing := f.activeByName(c.Name); existing != nil && existing.ID != c.ID {
			return ErrNameTaken
		}
	}
	c.UpdatedAt = time.Now()
	f.configs[c.ID] = c
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.configs[id]; !ok {
		return ErrNotFound
	}
	delete(f.configs, id)
	return nil
}

type fakeNotifier struct {
	calls []mailer.DispatchRequest
	err   error
}

func (f *fakeNotifier) Dispatch(_ context.Context, req mailer.DispatchRequest) error {
	f.calls = append(f.calls, req)
	return f.err
}

func newTestRouter(store Store, notifier Notifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(store, notifier, "noreply@example.com", nil)
	r := gin.New()
	r.GET("/admin/email-configs", h.List)
	r.POST("/admin/email-configs", h.Create)
	r.PUT("/admin/email-configs/:id", h.Update)
	r.DELETE("/admin/email-configs/:id", h.Delete)
	r.GET("/test-email", h.SendTest)
	return r
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateNormalizesRecipients(t *testing.T) {
	store := newFakeStore()
	r := newTestRouter(store, &fakeNotifier{})

	w := doJSON(r, http.MethodPost, "/admin/email-configs", gin.H{
		"name":             "contact_form",
		"from_email":       "noreply@example.com",
		"to_emails":        " ops@example.com, , sales@example.com ,",
		"cc_emails":        "manager@example.com",
		"subject_template": "Message from {{name}}",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, store.configs, 1)
	for _, cfg := range store.configs {
		assert.Equal(t, []string{"ops@example.com", "sales@example.com"}, cfg.ToEmails)
		assert.Equal(t, []string{"manager@example.com"}, cfg.CcEmails)
		assert.Empty(t, cfg.BccEmails)
		assert.True(t, cfg.Active)
	}
}

func TestCreateRequiresRecipients(t *testing.T) {
	store := newFakeStore()
	r := newTestRouter(store, &fakeNotifier{})

	w := doJSON(r, http.MethodPost, "/admin/email-configs", gin.H{
		"name":       "contact_form",
		"from_email": "noreply@example.com",
		"to_emails":  " , ,",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.configs)
}

func TestCreateRejectsDuplicateActiveName(t *testing.T) {
	store := newFakeStore()
	r := newTestRouter(store, &fakeNotifier{})

	first := doJSON(r, http.MethodPost, "/admin/email-configs", gin.H{
		"name": "contact_form", "from_email": "a@b.com", "to_emails": "ops@example.com",
	})
	require.Equal(t, http.StatusCreated, first.Code)

	second := doJSON(r, http.MethodPost, "/admin/email-configs", gin.H{
		"name": "contact_form", "from_email": "a@b.com", "to_emails": "other@example.com",
	})
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Len(t, store.configs, 1)
}

func TestUpdateMergesPartialFields(t *testing.T) {
	store := newFakeStore()
	r := newTestRouter(store, &fakeNotifier{})

	created := doJSON(r, http.MethodPost, "/admin/email-configs", gin.H{
		"name":             "contact_form",
		"from_email":       "a@b.com",
		"to_emails":        "ops@example.com",
		"subject_template": "original subject",
	})
	require.Equal(t, http.StatusCreated, created.Code)

	var body response.Body
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &body))
	raw, _ := json.Marshal(body.Data)
	var cfg models.EmailConfiguration
	require.NoError(t, json.Unmarshal(raw, &cfg))

	w := doJSON(r, http.MethodPut, "/admin/email-configs/"+cfg.ID.String(), gin.H{
		"to_emails": "new@example.com",
		"active":    false,
	})
	require.Equal(t, http.StatusOK, w.Code)

	stored := store.configs[cfg.ID]
	assert.Equal(t, "contact_form", stored.Name)
	assert.Equal(t, "a@b.com", stored.FromEmail)
	assert.Equal(t, []string{"new@example.com"}, stored.ToEmails)
	assert.Equal(t, "original subject", stored.SubjectTemplate)
	assert.False(t, stored.Active)
}

func TestUpdateUnknownID(t *testing.T) {
	r := newTestRouter(newFakeStore(), &fakeNotifier{})

	w := doJSON(r, http.MethodPut, "/admin/email-configs/"+uuid.New().String(), gin.H{
		"active": false,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteUnknownID(t *testing.T) {
	r := newTestRouter(newFakeStore(), &fakeNotifier{})

	w := doJSON(r, http.MethodDelete, "/admin/email-configs/"+uuid.New().String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSendTest(t *testing.T) {
	notifier := &fakeNotifier{}
	r := newTestRouter(newFakeStore(), notifier)

	req := httptest.NewRequest(http.MethodGet, "/test-email?to=op@example.com&config=contact_form", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, notifier.calls, 1)
	call := notifier.calls[0]
	assert.Equal(t, "contact_form", call.ConfigName)
	assert.Equal(t, []string{"op@example.com"}, call.Defaults.ToEmails)
	assert.Equal(t, "op@example.com", call.Variables["email"])
	assert.NotEmpty(t, call.Variables["timestamp"])
}

func TestSendTestRequiresRecipient(t *testing.T) {
	notifier := &fakeNotifier{}
	r := newTestRouter(newFakeStore(), notifier)

	req := httptest.NewRequest(http.MethodGet, "/test-email", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, notifier.calls)
}

func TestSendTestReportsTransportFailure(t *testing.T) {
	notifier := &fakeNotifier{err: assert.AnError}
	r := newTestRouter(newFakeStore(), notifier)

	req := httptest.NewRequest(http.MethodGet, "/test-email?to=op@example.com", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
