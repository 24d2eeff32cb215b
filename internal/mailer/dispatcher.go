// Package mailer implements the form-submission notification pipeline:
// template rendering, email configuration resolution, and outbound dispatch.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/driveformv/mvt-warehousing-sub000/internal/models"
	"github.com/driveformv/mvt-warehousing-sub000/pkg/metrics"
)

// ErrNoRecipients is returned when resolution produces an empty To list.
var ErrNoRecipients = errors.New("no recipients resolved")

// ConfigStore resolves active email configurations by name. A nil result with
// a nil error is never returned; absence is reported via an error the store
// defines (lookup failure signals "use fallback", never aborts dispatch).
type ConfigStore interface {
	GetActiveByName(ctx context.Context, name string) (*models.EmailConfiguration, error)
}

// Defaults are the caller-supplied minimal envelope used when neither the
// named configuration nor the fallback configuration exists.
type Defaults struct {
	FromEmail string
	ToEmails  []string
	Subject   string
}

// DispatchRequest describes one outbound email.
type DispatchRequest struct {
	ConfigName   string
	FallbackName string
	Defaults     Defaults
	Variables    map[string]string
	HTMLBody     string
	Attachments  []Attachment
}

// Dispatcher resolves a named configuration (or fallbacks) and sends exactly
// one email per call. It is stateless per invocation and performs no retries;
// errors are logged and returned so the caller decides whether they are fatal.
type Dispatcher struct {
	store       ConfigStore
	transport   Transport
	logger      *zap.Logger
	sendTimeout time.Duration
}

// NewDispatcher creates a dispatcher. sendTimeout bounds each transport call;
// zero applies a 10s default.
func NewDispatcher(store ConfigStore, transport Transport, sendTimeout time.Duration, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}
	return &Dispatcher{store: store, transport: transport, logger: logger, sendTimeout: sendTimeout}
}

// Dispatch resolves the envelope and sends one email. Resolution order:
// active config named req.ConfigName, then active config named
// req.FallbackName, then req.Defaults. Templated fields are rendered with
// req.Variables before sending.
func (d *Dispatcher) Dispatch(ctx context.Context, req DispatchRequest) error {
	cfg := d.lookup(ctx, req.ConfigName)
	if cfg == nil && req.FallbackName != "" {
		cfg = d.lookup(ctx, req.FallbackName)
	}

	msg := &Message{
		HTMLBody:    req.HTMLBody,
		Attachments: req.Attachments,
	}
	if cfg != nil {
		msg.From = Render(cfg.FromEmail, req.Variables)
		msg.To = RenderAll(cfg.ToEmails, req.Variables)
		msg.Cc = RenderAll(cfg.CcEmails, req.Variables)
		msg.Bcc = RenderAll(cfg.BccEmails, req.Variables)
		if cfg.SubjectTemplate != "" {
			msg.Subject = Render(cfg.SubjectTemplate, req.Variables)
		} else {
			msg.Subject = Render(req.Defaults.Subject, req.Variables)
		}
	} else {
		msg.From = Render(req.Defaults.FromEmail, req.Variables)
		msg.To = RenderAll(req.Defaults.ToEmails, req.Variables)
		msg.Subject = Render(req.Defaults.Subject, req.Variables)
	}

	if len(msg.To) == 0 {
		d.logger.Error("email dispatch skipped", zap.String("config", req.ConfigName), zap.Error(ErrNoRecipients))
		metrics.EmailFailures.Inc()
		return ErrNoRecipients
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	if err := d.transport.Send(sendCtx, msg); err != nil {
		d.logger.Error("email dispatch failed",
			zap.String("config", req.ConfigName),
			zap.Strings("to", msg.To),
			zap.Error(err),
		)
		metrics.EmailFailures.Inc()
		return fmt.Errorf("dispatch %q: %w", req.ConfigName, err)
	}

	d.logger.Info("email dispatched",
		zap.String("config", req.ConfigName),
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	metrics.EmailsSent.Inc()
	return nil
}

// lookup returns the active configuration or nil. Store errors (including
// not-found) select the next fallback rather than failing the dispatch.
func (d *Dispatcher) lookup(ctx context.Context, name string) *models.EmailConfiguration {
	if name == "" || d.store == nil {
		return nil
	}
	cfg, err := d.store.GetActiveByName(ctx, name)
	if err != nil || cfg == nil {
		return nil
	}
	return cfg
}
