package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func layoutForm(fields ...LayoutField) *Form {
	return &Form{
		ID:     "507f1f77bcf86cd799439011",
		Handle: "contact",
		Name:   "Contact Us",
		Fields: fields,
	}
}

func TestValidateRequiredTextField(t *testing.T) {
	form := layoutForm(LayoutField{
		Field:    Field{Handle: "fullName", Name: "Full Name", Kind: FieldText},
		Required: true,
	})

	errs := Validate(form, Payload{"fullName": {""}})
	require.Len(t, errs, 1)
	assert.Equal(t, "fullName", errs[0].FieldHandle)
	assert.Equal(t, "Full Name cannot be blank.", errs[0].Message)

	errs = Validate(form, Payload{"fullName": {"Jo"}})
	assert.Empty(t, errs)
}

func TestValidateOptionalTextFieldAllowsBlank(t *testing.T) {
	form := layoutForm(LayoutField{
		Field: Field{Handle: "note", Name: "Note", Kind: FieldText},
	})

	assert.Empty(t, Validate(form, Payload{}))
}

func TestValidateNumberField(t *testing.T) {
	form := layoutForm(LayoutField{
		Field:    Field{Handle: "phone", Name: "Phone", Kind: FieldNumber},
		Required: true,
	})

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "digits pass", value: "12345", wantErr: false},
		{name: "letters fail", value: "12a45", wantErr: true},
		{name: "empty fails", value: "", wantErr: true},
		{name: "spaces fail", value: "12 45", wantErr: true},
		{name: "negative sign fails", value: "-12", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := Validate(form, Payload{"phone": {tc.value}})
			if tc.wantErr {
				require.Len(t, errs, 1)
				assert.Equal(t, "Phone cannot be blank and needs to contain only numbers.", errs[0].Message)
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}

func TestValidateOptionalNumberFieldAllowsAnything(t *testing.T) {
	form := layoutForm(LayoutField{
		Field: Field{Handle: "phone", Name: "Phone", Kind: FieldNumber},
	})

	assert.Empty(t, Validate(form, Payload{"phone": {"not a number"}}))
}

func TestValidateEmailFieldIgnoresRequiredFlag(t *testing.T) {
	optional := layoutForm(LayoutField{
		Field: Field{Handle: "email", Name: "Email", Kind: FieldEmail},
	})
	required := layoutForm(LayoutField{
		Field:    Field{Handle: "email", Name: "Email", Kind: FieldEmail},
		Required: true,
	})

	for _, form := range []*Form{optional, required} {
		errs := Validate(form, Payload{"email": {"a@b.com"}})
		assert.Empty(t, errs)

		errs = Validate(form, Payload{"email": {"not-an-email"}})
		require.Len(t, errs, 1)
		assert.Equal(t, "Email needs to contain a valid email.", errs[0].Message)

		errs = Validate(form, Payload{"email": {""}})
		require.Len(t, errs, 1)
	}
}

func TestValidateUnknownKindIsPermissive(t *testing.T) {
	form := layoutForm(LayoutField{
		Field:    Field{Handle: "upload", Name: "Upload", Kind: FieldKind("file")},
		Required: true,
	})

	assert.Empty(t, Validate(form, Payload{}))
}

func TestValidateLayoutRequiredOverridesFieldDefault(t *testing.T) {
	form := layoutForm(LayoutField{
		Field:    Field{Handle: "city", Name: "City", Kind: FieldText, Required: false},
		Required: true,
	})

	errs := Validate(form, Payload{"city": {""}})
	require.Len(t, errs, 1)
}

func TestValidateCollectsErrorsInLayoutOrder(t *testing.T) {
	form := layoutForm(
		LayoutField{Field: Field{Handle: "fullName", Name: "Full Name", Kind: FieldText}, Required: true},
		LayoutField{Field: Field{Handle: "email", Name: "Email", Kind: FieldEmail}},
		LayoutField{Field: Field{Handle: "phone", Name: "Phone", Kind: FieldNumber}, Required: true},
	)

	errs := Validate(form, Payload{
		"fullName": {""},
		"email":    {"nope"},
		"phone":    {"x1"},
	})
	require.Len(t, errs, 3)
	assert.Equal(t, "fullName", errs[0].FieldHandle)
	assert.Equal(t, "email", errs[1].FieldHandle)
	assert.Equal(t, "phone", errs[2].FieldHandle)
}
