package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/formloop/formloop-services/api/internal/forms/domain"
)

// FormRepository abstracts read access to form definitions.
type FormRepository interface {
	FindByHandle(ctx context.Context, handle string) (*domain.Form, error)
	FindByID(ctx context.Context, id string) (*domain.Form, error)
}

// EntryRepository persists and reads submission entries. Save must write
// the generic element record and the form payload record as one atomic
// unit, reusing an ambient transaction from ctx when one is present.
type EntryRepository interface {
	Save(ctx context.Context, entry *domain.Entry) (string, error)
	FindByID(ctx context.Context, id string) (*domain.Entry, error)
	Find(ctx context.Context, filter EntryFilter, paging Paging) ([]domain.Entry, error)
}

// EntryFilter expresses search criteria for entries.
type EntryFilter struct {
	FormID string
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
}

// CaptchaVerifier is the outbound port to the anti-spam provider. A nil
// verifier means the provider is not installed.
type CaptchaVerifier interface {
	Available() bool
	Verify(ctx context.Context, token string) (bool, error)
}

// Email carries one outbound message for the mail transport.
type Email struct {
	FromName  string
	FromEmail string
	ReplyTo   string
	To        string
	Subject   string
	HTMLBody  string
}

// Mailer is the outbound port to the mail transport. One call sends one
// email; failures are reported per call.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// TemplateRenderer is the outbound port to the template engine. Exists
// probes a path without rendering it, so callers can fall back to a
// default template.
type TemplateRenderer interface {
	Exists(path string) bool
	Render(path string, vars map[string]any) (string, error)
}

// HookAction is the decision a pre-save hook hands back to the pipeline.
type HookAction int

const (
	// HookProceed lets the submission continue to the persister.
	HookProceed HookAction = iota
	// HookReject aborts the submission with the hook's reason.
	HookReject
	// HookFakeSuccess reports the normal success response without
	// persisting anything.
	HookFakeSuccess
)

// HookDecision pairs a HookAction with an optional rejection reason.
type HookDecision struct {
	Action HookAction
	Reason string
}

// SubmissionHook is consulted after validation and before persistence.
type SubmissionHook interface {
	BeforeSave(ctx context.Context, entry *domain.Entry, form *domain.Form) HookDecision
}

// NotificationFailure records one failed notification target for
// operator follow-up.
type NotificationFailure struct {
	Target     string
	EntryID    string
	FormID     string
	FormHandle string
	Recipients []string
	Err        string
	OccurredAt time.Time
}

// NotificationAudit stores notification failures. Best effort: errors
// are logged and never surfaced to the submitter.
type NotificationAudit interface {
	Record(ctx context.Context, failure NotificationFailure) error
}

// CaptchaOutcome classifies the anti-spam gate's result.
type CaptchaOutcome int

const (
	CaptchaVerified CaptchaOutcome = iota
	CaptchaNotRequired
	CaptchaUnavailable
	CaptchaFailed
)

// Sentinel errors of the submission pipeline.
var (
	ErrFormNotFound       = errors.New("form not found")
	ErrEntryNotFound      = errors.New("entry not found")
	ErrEntryInvalid       = errors.New("entry failed record validation")
	ErrCaptchaUnavailable = errors.New("captcha provider unavailable")
	ErrCaptchaRejected    = errors.New("captcha verification failed")
)

// ValidationFailedError carries the collected field violations.
type ValidationFailedError struct {
	Errors []domain.ValidationError
}

func (e *ValidationFailedError) Error() string {
	messages := make([]string, 0, len(e.Errors))
	for _, verr := range e.Errors {
		messages = append(messages, verr.Message)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HookRejectedError reports a submission rejected by a pre-save hook.
type HookRejectedError struct {
	Reason string
}

func (e *HookRejectedError) Error() string {
	if e.Reason == "" {
		return "submission rejected by pre-save hook"
	}
	return "submission rejected: " + e.Reason
}

// SplitRecipients splits a comma-separated recipient list, dropping
// empty segments.
func SplitRecipients(raw string) []string {
	parts := strings.Split(raw, ",")
	recipients := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			recipients = append(recipients, part)
		}
	}
	return recipients
}
