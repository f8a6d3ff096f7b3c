package application

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/formloop/formloop-services/api/internal/forms/domain"
)

// Default template paths used when a form's override path does not
// resolve to an existing template.
const (
	DefaultAdminTemplate      = "email/default"
	DefaultRegistrantTemplate = "email/registrant"
)

// fromNameSuffix is appended to the site name on every notification.
const fromNameSuffix = " | Submission Notification"

// NotificationService renders and sends the admin and registrant
// notifications for a saved entry.
type NotificationService interface {
	NotifyAdmin(ctx context.Context, entry *domain.Entry, form *domain.Form) bool
	NotifyRegistrant(ctx context.Context, entry *domain.Entry, form *domain.Form, submitterEmail string) bool
}

// NewNotificationService wires the dispatcher to its renderer, mail
// transport, and failure audit.
func NewNotificationService(logger *log.Logger, renderer TemplateRenderer, mailer Mailer, audit NotificationAudit, siteName string) NotificationService {
	return &notificationService{
		logger:   logger,
		renderer: renderer,
		mailer:   mailer,
		audit:    audit,
		siteName: siteName,
	}
}

type notificationService struct {
	logger   *log.Logger
	renderer TemplateRenderer
	mailer   Mailer
	audit    NotificationAudit
	siteName string
}

// NotifyAdmin fans one rendered message out to every address in the
// form's admin recipient list. Reply-to is pinned to the first recipient
// for every message. The result is failure if any single send fails,
// but every recipient is still attempted.
func (s *notificationService) NotifyAdmin(ctx context.Context, entry *domain.Entry, form *domain.Form) bool {
	recipients := SplitRecipients(form.AdminEmails)
	if len(recipients) == 0 {
		return false
	}

	body, err := s.render(form.AdminTemplate, DefaultAdminTemplate, entry, form)
	if err != nil {
		s.logger.Printf("admin notification render failed form=%s entry=%s err=%v", form.Handle, entry.ID, err)
		s.recordFailure(ctx, "admin", entry, form, recipients, err)
		return false
	}

	replyTo := recipients[0]
	failed := false
	var sendErr error
	for _, recipient := range recipients {
		email := Email{
			FromName: s.siteName + fromNameSuffix,
			ReplyTo:  replyTo,
			To:       recipient,
			Subject:  form.Subject,
			HTMLBody: body,
		}
		if err := s.send(ctx, email); err != nil {
			s.logger.Printf("admin notification send failed form=%s entry=%s to=%s err=%v", form.Handle, entry.ID, recipient, err)
			failed = true
			sendErr = err
		}
	}
	if failed {
		s.recordFailure(ctx, "admin", entry, form, recipients, sendErr)
		return false
	}
	return true
}

// NotifyRegistrant sends a single message to the address the submitter
// provided. The sender and reply-to are both pinned to the first admin
// recipient; the registrant address is never used as a sender.
func (s *notificationService) NotifyRegistrant(ctx context.Context, entry *domain.Entry, form *domain.Form, submitterEmail string) bool {
	submitterEmail = strings.TrimSpace(submitterEmail)
	if submitterEmail == "" {
		return false
	}

	body, err := s.render(form.RegistrantTemplate, DefaultRegistrantTemplate, entry, form)
	if err != nil {
		s.logger.Printf("registrant notification render failed form=%s entry=%s err=%v", form.Handle, entry.ID, err)
		s.recordFailure(ctx, "registrant", entry, form, []string{submitterEmail}, err)
		return false
	}

	email := Email{
		FromName: s.siteName + fromNameSuffix,
		To:       submitterEmail,
		Subject:  form.Subject,
		HTMLBody: body,
	}
	if recipients := SplitRecipients(form.AdminEmails); len(recipients) > 0 {
		email.FromEmail = recipients[0]
		email.ReplyTo = recipients[0]
	}

	if err := s.send(ctx, email); err != nil {
		s.logger.Printf("registrant notification send failed form=%s entry=%s to=%s err=%v", form.Handle, entry.ID, submitterEmail, err)
		s.recordFailure(ctx, "registrant", entry, form, []string{submitterEmail}, err)
		return false
	}
	return true
}

func (s *notificationService) send(ctx context.Context, email Email) error {
	if s.mailer == nil {
		return errors.New("mail transport not configured")
	}
	return s.mailer.Send(ctx, email)
}

// render resolves the template path, preferring the form's override when
// it exists, and renders it with the sanitized payload, the form, and
// the entry.
func (s *notificationService) render(override, fallback string, entry *domain.Entry, form *domain.Form) (string, error) {
	path := fallback
	if override != "" && s.renderer.Exists(override) {
		path = override
	}

	data := make(map[string]any, len(entry.Data))
	for handle, values := range entry.Data {
		if len(values) == 1 {
			data[handle] = values[0]
			continue
		}
		data[handle] = append([]string(nil), values...)
	}

	vars := map[string]any{
		"data": data,
		"form": map[string]any{
			"handle": form.Handle,
			"name":   form.Name,
		},
		"entry": map[string]any{
			"id":        entry.ID,
			"title":     entry.Title,
			"receiptId": entry.ReceiptID,
			"createdAt": entry.CreatedAt,
		},
	}
	return s.renderer.Render(path, vars)
}

func (s *notificationService) recordFailure(ctx context.Context, target string, entry *domain.Entry, form *domain.Form, recipients []string, cause error) {
	if s.audit == nil || cause == nil {
		return
	}
	failure := NotificationFailure{
		Target:     target,
		EntryID:    entry.ID,
		FormID:     form.ID,
		FormHandle: form.Handle,
		Recipients: append([]string(nil), recipients...),
		Err:        cause.Error(),
		OccurredAt: time.Now().UTC(),
	}
	if err := s.audit.Record(ctx, failure); err != nil {
		s.logger.Printf("notification failure audit write failed entry=%s err=%v", entry.ID, err)
	}
}
