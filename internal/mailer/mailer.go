// Package mailer sends transactional email. Delivery is best-effort and
// explicitly invoked by the owning operation (registration, password reset) —
// there are no save-hook side effects anywhere in this codebase.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Mailer delivers a single plain-text message.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer writes messages to the structured log instead of delivering
// them. Used in development and whenever SMTP is not configured.
type LogMailer struct {
	Log *slog.Logger
}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.Log.InfoContext(ctx, "mail (not delivered: no SMTP configured)",
		"to", to,
		"subject", subject,
		"body", body,
	)
	return nil
}

// SMTPMailer delivers mail through a plain SMTP relay.
type SMTPMailer struct {
	Addr string // host:port of the relay
	From string
	Auth smtp.Auth // nil for unauthenticated relays
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	// net/smtp has no context support; the dial respects no deadline beyond
	// the OS default. Accepted: mail is best-effort and never on a hot path.
	msg := strings.Join([]string{
		"From: " + m.From,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(m.Addr, m.Auth, m.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("mailer.SMTPMailer.Send: %w", err)
	}
	return nil
}
