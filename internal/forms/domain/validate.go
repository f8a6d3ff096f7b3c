package domain

import (
	"fmt"
	"net/mail"
	"strings"
)

// FieldKind identifies the closed set of field kinds the validator knows
// about. Kinds outside the set validate permissively.
type FieldKind string

const (
	FieldText   FieldKind = "text"
	FieldNumber FieldKind = "number"
	FieldEmail  FieldKind = "email"
)

// ValidationError reports one failed field rule.
type ValidationError struct {
	FieldHandle string
	Message     string
}

// fieldRule validates a single submitted value. A nil result means the
// value passes.
type fieldRule func(field Field, value string, required bool) *ValidationError

var fieldRules = map[FieldKind]fieldRule{
	FieldText:   validateText,
	FieldNumber: validateNumber,
	FieldEmail:  validateEmail,
}

// Validate runs the per-field rules of the form's layout against the
// submitted payload. It collects every violation rather than failing
// fast; the result order matches the layout order. Pure: no side effects.
func Validate(form *Form, payload Payload) []ValidationError {
	var errs []ValidationError
	for _, layoutField := range form.Fields {
		rule, ok := fieldRules[layoutField.Field.Kind]
		if !ok {
			continue
		}
		value := payload.Get(layoutField.Field.Handle)
		if err := rule(layoutField.Field, value, layoutField.EffectiveRequired()); err != nil {
			errs = append(errs, *err)
		}
	}
	return errs
}

func validateText(field Field, value string, required bool) *ValidationError {
	if !required || value != "" {
		return nil
	}
	return &ValidationError{
		FieldHandle: field.Handle,
		Message:     fmt.Sprintf("%s cannot be blank.", field.Name),
	}
}

func validateNumber(field Field, value string, required bool) *ValidationError {
	if !required || isDigits(value) {
		return nil
	}
	return &ValidationError{
		FieldHandle: field.Handle,
		Message:     fmt.Sprintf("%s cannot be blank and needs to contain only numbers.", field.Name),
	}
}

// validateEmail applies regardless of the required flag: an email field
// that is present in the layout must always carry a parseable address.
func validateEmail(field Field, value string, _ bool) *ValidationError {
	if isEmail(value) {
		return nil
	}
	return &ValidationError{
		FieldHandle: field.Handle,
		Message:     fmt.Sprintf("%s needs to contain a valid email.", field.Name),
	}
}

// isDigits reports whether value is non-empty and composed entirely of
// ASCII digits. An empty string contains no digits and fails.
func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isEmail(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return false
	}
	addr, err := mail.ParseAddress(trimmed)
	return err == nil && addr.Address == trimmed
}
