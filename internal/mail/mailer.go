// Package mail sends transactional email over SMTP. When no SMTP host is
// configured the mailer is disabled and every send fails fast, so callers
// can surface a clear error instead of timing out.
package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"
)

// ErrDisabled is returned when email is attempted without SMTP configured.
var ErrDisabled = errors.New("email is not configured")

// Options configures the SMTP client.
type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends password-reset links and summary reports.
type Mailer struct {
	client *gomail.Client
	from   string
	logger *slog.Logger
}

// New creates a mailer. An empty host yields a disabled mailer.
func New(opts Options, logger *slog.Logger) (*Mailer, error) {
	if opts.Host == "" {
		return &Mailer{logger: logger}, nil
	}

	client, err := gomail.NewClient(opts.Host,
		gomail.WithPort(opts.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(opts.Username),
		gomail.WithPassword(opts.Password),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return &Mailer{client: client, from: opts.From, logger: logger}, nil
}

// Enabled reports whether SMTP is configured.
func (m *Mailer) Enabled() bool {
	return m.client != nil
}

// SendPasswordReset emails a reset link.
func (m *Mailer) SendPasswordReset(ctx context.Context, to, link string) error {
	if !m.Enabled() {
		return ErrDisabled
	}

	msg, err := m.newMessage(to, "Reset your password")
	if err != nil {
		return err
	}
	html := fmt.Sprintf(
		"<html><body><h3>Password Reset</h3><p>Click the link below to reset your password. The link expires shortly.</p><p><a href=%q>Reset password</a></p></body></html>",
		link,
	)
	msg.SetBodyString(gomail.TypeTextHTML, html)

	return m.send(ctx, msg, to)
}

// SendSummaryReport emails a spreadsheet attachment.
func (m *Mailer) SendSummaryReport(ctx context.Context, to, subject, html string, attachment []byte, filename string) error {
	if !m.Enabled() {
		return ErrDisabled
	}

	msg, err := m.newMessage(to, subject)
	if err != nil {
		return err
	}
	msg.SetBodyString(gomail.TypeTextHTML, html)
	if err := msg.AttachReader(filename, bytes.NewReader(attachment)); err != nil {
		return fmt.Errorf("failed to attach report: %w", err)
	}

	return m.send(ctx, msg, to)
}

func (m *Mailer) newMessage(to, subject string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	return msg, nil
}

func (m *Mailer) send(ctx context.Context, msg *gomail.Msg, to string) error {
	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	m.logger.Debug("Email sent", "to", to)
	return nil
}
