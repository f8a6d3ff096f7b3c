package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ElementKindFormEntry marks generic element records owned by the form
// pipeline.
const ElementKindFormEntry = "formEntry"

// FieldDocument stores one field definition embedded in a form.
type FieldDocument struct {
	Handle   string `bson:"handle"`
	Name     string `bson:"name"`
	Kind     string `bson:"kind"`
	Required bool   `bson:"required,omitempty"`
}

// LayoutFieldDocument is one ordered layout entry of a form.
type LayoutFieldDocument struct {
	Field    FieldDocument `bson:"field"`
	Required bool          `bson:"required,omitempty"`
}

// FormDocument is the MongoDB schema of a form definition.
type FormDocument struct {
	ID                   primitive.ObjectID    `bson:"_id"`
	Handle               string                `bson:"handle"`
	Name                 string                `bson:"name"`
	Fields               []LayoutFieldDocument `bson:"fields,omitempty"`
	UseCaptcha           bool                  `bson:"useCaptcha,omitempty"`
	NotifyAdmin          bool                  `bson:"notifyAdmin,omitempty"`
	NotifyRegistrant     bool                  `bson:"notifyRegistrant,omitempty"`
	AdminEmails          string                `bson:"adminEmails,omitempty"`
	RegistrantEmailField string                `bson:"registrantEmailField,omitempty"`
	Subject              string                `bson:"subject,omitempty"`
	AdminTemplate        string                `bson:"adminTemplate,omitempty"`
	RegistrantTemplate   string                `bson:"registrantTemplate,omitempty"`
	SuccessMessage       string                `bson:"successMessage,omitempty"`
	ErrorMessage         string                `bson:"errorMessage,omitempty"`
	RedirectOnSuccess    bool                  `bson:"redirectOnSuccess,omitempty"`
	RedirectURL          string                `bson:"redirectUrl,omitempty"`
	AjaxSubmit           bool                  `bson:"ajaxSubmit,omitempty"`
	CreatedAt            time.Time             `bson:"createdAt"`
	UpdatedAt            time.Time             `bson:"updatedAt"`
}

// ElementDocument is the generic record written for every persisted
// entry. The kind marker distinguishes form entries from other element
// kinds sharing the collection.
type ElementDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Kind      string             `bson:"kind"`
	FormID    primitive.ObjectID `bson:"formId"`
	Title     string             `bson:"title"`
	ReceiptID string             `bson:"receiptId"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// EntryDocument is the form-specific payload record. It shares its _id
// with the element record it belongs to.
type EntryDocument struct {
	ID        primitive.ObjectID  `bson:"_id"`
	FormID    primitive.ObjectID  `bson:"formId"`
	Data      map[string][]string `bson:"data"`
	CreatedAt time.Time           `bson:"createdAt"`
}

// NotificationFailureDocument records one failed notification dispatch.
type NotificationFailureDocument struct {
	ID         primitive.ObjectID `bson:"_id"`
	Target     string             `bson:"target"`
	EntryID    string             `bson:"entryId"`
	FormID     string             `bson:"formId"`
	FormHandle string             `bson:"formHandle"`
	Recipients []string           `bson:"recipients,omitempty"`
	Error      string             `bson:"error"`
	Status     string             `bson:"status"`
	OccurredAt time.Time          `bson:"occurredAt"`
	CreatedAt  time.Time          `bson:"createdAt"`
}
