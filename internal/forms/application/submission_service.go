package application

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/formloop/formloop-services/api/internal/forms/domain"
)

// Default submitter-facing messages when the form configures none.
const (
	DefaultSuccessMessage = "Thank you, we have received your submission and we'll be in touch shortly."
	DefaultErrorMessage   = "We're sorry, but something has gone wrong."
)

// SubmitCommand captures one raw submission.
type SubmitCommand struct {
	Payload      domain.Payload
	CaptchaToken string
}

// SubmitResult reports a completed submission. Notification outcomes are
// informational: a saved entry stays saved even when every send fails.
type SubmitResult struct {
	EntryID            string
	ReceiptID          string
	Message            string
	AdminNotified      bool
	RegistrantNotified bool
	Faked              bool
}

// SubmissionService sequences the pipeline: anti-spam gate, field
// validation, pre-save hook, transactional persistence, notification
// dispatch.
type SubmissionService interface {
	ResolveForm(ctx context.Context, handle string) (*domain.Form, error)
	Submit(ctx context.Context, form *domain.Form, cmd SubmitCommand) (*SubmitResult, error)
}

// Config wires the orchestrator's collaborators. Captcha and Hook may be
// nil: an absent captcha provider makes gated forms fail with
// ErrCaptchaUnavailable, an absent hook always proceeds.
type Config struct {
	Logger        *log.Logger
	Forms         FormRepository
	Entries       EntryRepository
	Captcha       CaptchaVerifier
	Notifications NotificationService
	Hook          SubmissionHook
}

// NewSubmissionService builds the orchestrator with explicit
// dependencies.
func NewSubmissionService(cfg Config) SubmissionService {
	return &submissionService{
		logger:        cfg.Logger,
		forms:         cfg.Forms,
		entries:       cfg.Entries,
		captcha:       cfg.Captcha,
		notifications: cfg.Notifications,
		hook:          cfg.Hook,
	}
}

type submissionService struct {
	logger        *log.Logger
	forms         FormRepository
	entries       EntryRepository
	captcha       CaptchaVerifier
	notifications NotificationService
	hook          SubmissionHook
}

// ResolveForm loads the form definition for a submitted handle.
func (s *submissionService) ResolveForm(ctx context.Context, handle string) (*domain.Form, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, ErrFormNotFound
	}
	form, err := s.forms.FindByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrFormNotFound
	}
	return form, nil
}

// Submit runs one submission start to finish. Any failure before the
// persister short-circuits without invoking later stages; notification
// failures after a successful save never alter the outcome.
func (s *submissionService) Submit(ctx context.Context, form *domain.Form, cmd SubmitCommand) (*SubmitResult, error) {
	switch s.verifyCaptcha(ctx, form, cmd.CaptchaToken) {
	case CaptchaUnavailable:
		return nil, ErrCaptchaUnavailable
	case CaptchaFailed:
		return nil, ErrCaptchaRejected
	}

	if errs := domain.Validate(form, cmd.Payload); len(errs) > 0 {
		return nil, &ValidationFailedError{Errors: errs}
	}

	entry := &domain.Entry{
		FormID:    form.ID,
		Title:     form.Name,
		Data:      cmd.Payload.StripControlKeys(),
		ReceiptID: uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}

	result := &SubmitResult{
		ReceiptID: entry.ReceiptID,
		Message:   successMessage(form),
	}

	if s.hook != nil {
		decision := s.hook.BeforeSave(ctx, entry, form)
		switch decision.Action {
		case HookReject:
			return nil, &HookRejectedError{Reason: decision.Reason}
		case HookFakeSuccess:
			result.Faked = true
			return result, nil
		}
	}

	entryID, err := s.entries.Save(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("save entry for form %q: %w", form.Handle, err)
	}
	entry.ID = entryID
	result.EntryID = entryID

	s.dispatchNotifications(ctx, entry, form, result)
	return result, nil
}

// verifyCaptcha resolves the anti-spam gate. Provider availability is
// checked before the token: a gated form with no provider reports
// CaptchaUnavailable without attempting verification.
func (s *submissionService) verifyCaptcha(ctx context.Context, form *domain.Form, token string) CaptchaOutcome {
	if !form.UseCaptcha {
		return CaptchaNotRequired
	}
	if s.captcha == nil || !s.captcha.Available() {
		return CaptchaUnavailable
	}
	ok, err := s.captcha.Verify(ctx, token)
	if err != nil {
		s.logger.Printf("captcha verification errored form=%s err=%v", form.Handle, err)
		return CaptchaFailed
	}
	if !ok {
		return CaptchaFailed
	}
	return CaptchaVerified
}

func (s *submissionService) dispatchNotifications(ctx context.Context, entry *domain.Entry, form *domain.Form, result *SubmitResult) {
	if s.notifications == nil {
		return
	}

	if form.NotifyAdmin && strings.TrimSpace(form.AdminEmails) != "" {
		result.AdminNotified = s.notifications.NotifyAdmin(ctx, entry, form)
	}

	if form.NotifyRegistrant && form.RegistrantEmailField != "" {
		submitterEmail := entry.Data.Get(form.RegistrantEmailField)
		if strings.TrimSpace(submitterEmail) != "" {
			result.RegistrantNotified = s.notifications.NotifyRegistrant(ctx, entry, form, submitterEmail)
		}
	}
}

func successMessage(form *domain.Form) string {
	if form.SuccessMessage != "" {
		return form.SuccessMessage
	}
	return DefaultSuccessMessage
}

// ErrorMessage resolves the submitter-facing error text for a form.
func ErrorMessage(form *domain.Form) string {
	if form != nil && form.ErrorMessage != "" {
		return form.ErrorMessage
	}
	return DefaultErrorMessage
}
