package domain

import "time"

// Entry is one persisted submission. It is created exactly once by the
// persister and never mutated by the pipeline afterwards.
type Entry struct {
	ID        string
	FormID    string
	Title     string
	Data      Payload
	ReceiptID string
	CreatedAt time.Time

	errs []string
}

// Validate checks the entry's record-level constraints, which are
// independent of the per-field rules applied during submission.
func (e *Entry) Validate() []string {
	var errs []string
	if e.FormID == "" {
		errs = append(errs, "formId cannot be blank")
	}
	if e.Title == "" {
		errs = append(errs, "title cannot be blank")
	}
	if len(e.Data) == 0 {
		errs = append(errs, "data cannot be blank")
	}
	return errs
}

// AddErrors aggregates record-level errors onto the entry.
func (e *Entry) AddErrors(errs ...string) {
	e.errs = append(e.errs, errs...)
}

// HasErrors reports whether record-level errors were aggregated.
func (e *Entry) HasErrors() bool {
	return len(e.errs) > 0
}

// Errors returns the aggregated record-level errors.
func (e *Entry) Errors() []string {
	return append([]string(nil), e.errs...)
}
