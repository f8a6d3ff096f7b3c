package domain

import "time"

// Form represents an admin-authored form definition. The submission
// pipeline treats it as read-only: forms are created and edited by the
// CMS admin surface, never here.
type Form struct {
	ID                   string
	Handle               string
	Name                 string
	Fields               []LayoutField
	UseCaptcha           bool
	NotifyAdmin          bool
	NotifyRegistrant     bool
	AdminEmails          string
	RegistrantEmailField string
	Subject              string
	AdminTemplate        string
	RegistrantTemplate   string
	SuccessMessage       string
	ErrorMessage         string
	RedirectOnSuccess    bool
	RedirectURL          string
	AjaxSubmit           bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// LayoutField is one entry of a form's ordered field layout. Required on
// the layout entry forces requiredness regardless of the field's own
// default.
type LayoutField struct {
	Field    Field
	Required bool
}

// Field describes a single form field.
type Field struct {
	Handle   string
	Name     string
	Kind     FieldKind
	Required bool
}

// EffectiveRequired resolves the field's requiredness, letting the layout
// entry override the field default.
func (l LayoutField) EffectiveRequired() bool {
	if l.Required {
		return true
	}
	return l.Field.Required
}
