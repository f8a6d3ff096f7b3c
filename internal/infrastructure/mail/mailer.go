// Package mail sends pipeline notifications over SMTP.
package mail

import (
	"context"
	"fmt"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/formloop/formloop-services/api/internal/forms/application"
)

// Mailer implements the application Mailer port on top of an SMTP
// client. One Send call dials and delivers one message.
type Mailer struct {
	client      *gomail.Client
	defaultFrom string
}

// Config carries the SMTP transport settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// New constructs a Mailer. Host and From are required.
func New(cfg Config) (*Mailer, error) {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		return nil, fmt.Errorf("mail: SMTP host is required")
	}
	from := strings.TrimSpace(cfg.From)
	if from == "" {
		return nil, fmt.Errorf("mail: default sender address is required")
	}

	opts := []gomail.Option{
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Port > 0 {
		opts = append(opts, gomail.WithPort(cfg.Port))
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}
	if cfg.Timeout > 0 {
		opts = append(opts, gomail.WithTimeout(cfg.Timeout))
	}

	client, err := gomail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mail: create SMTP client: %w", err)
	}

	return &Mailer{client: client, defaultFrom: from}, nil
}

// Send delivers one email. The message's FromEmail overrides the
// configured default sender when set.
func (m *Mailer) Send(ctx context.Context, email application.Email) error {
	msg := gomail.NewMsg()

	fromEmail := strings.TrimSpace(email.FromEmail)
	if fromEmail == "" {
		fromEmail = m.defaultFrom
	}
	if email.FromName != "" {
		if err := msg.FromFormat(email.FromName, fromEmail); err != nil {
			return fmt.Errorf("mail: set sender: %w", err)
		}
	} else if err := msg.From(fromEmail); err != nil {
		return fmt.Errorf("mail: set sender: %w", err)
	}

	if err := msg.To(email.To); err != nil {
		return fmt.Errorf("mail: set recipient: %w", err)
	}
	if email.ReplyTo != "" {
		if err := msg.ReplyTo(email.ReplyTo); err != nil {
			return fmt.Errorf("mail: set reply-to: %w", err)
		}
	}

	msg.Subject(email.Subject)
	msg.SetBodyString(gomail.TypeTextHTML, email.HTMLBody)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail: send to %s: %w", email.To, err)
	}
	return nil
}
