package mailer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/driveformv/mvt-warehousing-sub000/internal/models"
)

var errConfigMissing = errors.New("not found")

type fakeStore struct {
	configs map[string]*models.EmailConfiguration
}

func (f *fakeStore) GetActiveByName(_ context.Context, name string) (*models.EmailConfiguration, error) {
	cfg, ok := f.configs[name]
	if !ok {
		return nil, errConfigMissing
	}
	return cfg, nil
}

type fakeTransport struct {
	sent []*Message
	err  error
}

func (f *fakeTransport) Send(_ context.Context, msg *Message) error {
	f.sent = append(f.sent, msg)
	return f.err
}

func newTestDispatcher(store ConfigStore, transport Transport) *Dispatcher {
	return NewDispatcher(store, transport, time.Second, zap.NewNop())
}

func TestDispatchUsesNamedConfig(t *testing.T) {
	store := &fakeStore{configs: map[string]*models.EmailConfiguration{
		"contact_form": {
			Name:            "contact_form",
			FromEmail:       "noreply@example.com",
			ToEmails:        []string{"ops@example.com", "{{email}}"},
			CcEmails:        []string{"sales@example.com"},
			SubjectTemplate: "Message from {{name}}",
			Active:          true,
		},
	}}
	transport := &fakeTransport{}
	d := newTestDispatcher(store, transport)

	err := d.Dispatch(context.Background(), DispatchRequest{
		ConfigName: "contact_form",
		Defaults:   Defaults{FromEmail: "fallback@example.com", ToEmails: []string{"x@example.com"}, Subject: "default"},
		Variables:  map[string]string{"name": "Ana", "email": "ana@example.com"},
		HTMLBody:   "<p>hi</p>",
	})
	require.NoError(t, err)
	require.Len(t, transport.sent, 1)

	msg := transport.sent[0]
	assert.Equal(t, "noreply@example.com", msg.From)
	assert.Equal(t, []string{"ops@example.com", "ana@example.com"}, msg.To)
	assert.Equal(t, []string{"sales@example.com"}, msg.Cc)
	assert.Empty(t, msg.Bcc)
	assert.Equal(t, "Message from Ana", msg.Subject)
	assert.Equal(t, "<p>hi</p>", msg.HTMLBody)
}

func TestDispatchFallsBackToSecondConfig(t *testing.T) {
	store := &fakeStore{configs: map[string]*models.EmailConfiguration{
		"contact_notification": {
			Name:            "contact_notification",
			FromEmail:       "fallback-config@example.com",
			ToEmails:        []string{"ops@example.com"},
			SubjectTemplate: "Generic notification",
			Active:          true,
		},
	}}
	transport := &fakeTransport{}
	d := newTestDispatcher(store, transport)

	err := d.Dispatch(context.Background(), DispatchRequest{
		ConfigName:   "contact_form",
		FallbackName: "contact_notification",
		Defaults:     Defaults{FromEmail: "hardcoded@example.com", ToEmails: []string{"hardcoded@example.com"}, Subject: "hardcoded"},
		Variables:    map[string]string{},
		HTMLBody:     "<p>hi</p>",
	})
	require.NoError(t, err)
	require.Len(t, transport.sent, 1)

	// The fallback configuration wins over the hardcoded defaults.
	msg := transport.sent[0]
	assert.Equal(t, "fallback-config@example.com", msg.From)
	assert.Equal(t, []string{"ops@example.com"}, msg.To)
	assert.Equal(t, "Generic notification", msg.Subject)
}

func TestDispatchUsesDefaultsWhenNoConfigExists(t *testing.T) {
	store := &fakeStore{configs: map[string]*models.EmailConfiguration{}}
	transport := &fakeTransport{}
	d := newTestDispatcher(store, transport)

	err := d.Dispatch(context.Background(), DispatchRequest{
		ConfigName:   "contact_form",
		FallbackName: "contact_notification",
		Defaults: Defaults{
			FromEmail: "noreply@example.com",
			ToEmails:  []string{"{{email}}"},
			Subject:   "We received your message",
		},
		Variables: map[string]string{"email": "ana@example.com"},
		HTMLBody:  "<p>hi</p>",
	})
	require.NoError(t, err)
	require.Len(t, transport.sent, 1)

	msg := transport.sent[0]
	assert.Equal(t, "noreply@example.com", msg.From)
	assert.Equal(t, []string{"ana@example.com"}, msg.To)
	assert.Equal(t, "We received your message", msg.Subject)
}

func TestDispatchDefaultSubjectWhenConfigSubjectEmpty(t *testing.T) {
	store := &fakeStore{configs: map[string]*models.EmailConfiguration{
		"contact_form": {
			Name:      "contact_form",
			FromEmail: "noreply@example.com",
			ToEmails:  []string{"ops@example.com"},
			Active:    true,
		},
	}}
	transport := &fakeTransport{}
	d := newTestDispatcher(store, transport)

	err := d.Dispatch(context.Background(), DispatchRequest{
		ConfigName: "contact_form",
		Defaults:   Defaults{Subject: "caller default subject"},
		HTMLBody:   "<p>hi</p>",
	})
	require.NoError(t, err)
	require.Len(t, transport.sent, 1)
	assert.Equal(t, "caller default subject", transport.sent[0].Subject)
}

func TestDispatchPropagatesTransportError(t *testing.T) {
	store := &fakeStore{configs: map[string]*models.EmailConfiguration{}}
	transport := &fakeTransport{err: errors.New("smtp down")}
	d := newTestDispatcher(store, transport)

	err := d.Dispatch(context.Background(), DispatchRequest{
		ConfigName: "contact_form",
		Defaults:   Defaults{FromEmail: "a@b.com", ToEmails: []string{"b@c.com"}, Subject: "s"},
		HTMLBody:   "<p>hi</p>",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")
	// Exactly one transport attempt; no internal retry.
	assert.Len(t, transport.sent, 1)
}

func TestDispatchFailsWithoutRecipients(t *testing.T) {
	store := &fakeStore{configs: map[string]*models.EmailConfiguration{}}
	transport := &fakeTransport{}
	d := newTestDispatcher(store, transport)

	err := d.Dispatch(context.Background(), DispatchRequest{
		ConfigName: "contact_form",
		Defaults:   Defaults{FromEmail: "a@b.com"},
		HTMLBody:   "<p>hi</p>",
	})
	assert.ErrorIs(t, err, ErrNoRecipients)
	assert.Empty(t, transport.sent)
}
