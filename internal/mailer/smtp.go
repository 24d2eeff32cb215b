package mailer

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"
)

// Attachment is a binary file attached to an outbound message.
type Attachment struct {
	Filename string
	Content  []byte
}

// Message is a fully resolved outbound email envelope.
type Message struct {
	From        string
	To          []string
	Cc          []string
	Bcc         []string
	Subject     string
	HTMLBody    string
	Attachments []Attachment
}

// Transport sends one resolved message. Implementations must honor ctx
// cancellation by returning promptly with ctx.Err().
type Transport interface {
	Send(ctx context.Context, msg *Message) error
}

// SMTPTransport sends mail through an SMTP relay via gomail.
type SMTPTransport struct {
	dialer *gomail.Dialer
}

// NewSMTPTransport creates an SMTP transport.
func NewSMTPTransport(host string, port int, user, password string) *SMTPTransport {
	return &SMTPTransport{dialer: gomail.NewDialer(host, port, user, password)}
}

// Send delivers the message. gomail has no context support, so the dial+send
// runs in a goroutine and ctx cancellation abandons the wait.
func (t *SMTPTransport) Send(ctx context.Context, msg *Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To...)
	if len(msg.Cc) > 0 {
		m.SetHeader("Cc", msg.Cc...)
	}
	if len(msg.Bcc) > 0 {
		m.SetHeader("Bcc", msg.Bcc...)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)
	for _, att := range msg.Attachments {
		content := att.Content
		m.Attach(att.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := io.Copy(w, bytes.NewReader(content))
			return err
		}))
	}

	done := make(chan error, 1)
	go func() {
		done <- t.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
