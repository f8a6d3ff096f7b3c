package mongo

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/formloop/formloop-services/api/internal/forms/application"
	"github.com/formloop/formloop-services/api/internal/forms/domain"
)

// FormRepository reads form definitions from MongoDB. The pipeline never
// writes forms; they are owned by the admin surface.
type FormRepository struct {
	forms *mongo.Collection
}

// NewFormRepository binds the repository to the forms collection.
func NewFormRepository(db *mongo.Database, formCollection string) *FormRepository {
	return &FormRepository{forms: db.Collection(formCollection)}
}

// FindByHandle resolves a form by its unique handle slug.
func (r *FormRepository) FindByHandle(ctx context.Context, handle string) (*domain.Form, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, application.ErrFormNotFound
	}

	var doc FormDocument
	err := r.forms.FindOne(ctx, bson.M{"handle": handle}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, application.ErrFormNotFound
	}
	if err != nil {
		return nil, err
	}

	form := mapFormDocument(doc)
	return &form, nil
}

// FindByID resolves a form by its identity.
func (r *FormRepository) FindByID(ctx context.Context, id string) (*domain.Form, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, application.ErrFormNotFound
	}

	var doc FormDocument
	err = r.forms.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, application.ErrFormNotFound
	}
	if err != nil {
		return nil, err
	}

	form := mapFormDocument(doc)
	return &form, nil
}

func mapFormDocument(doc FormDocument) domain.Form {
	fields := make([]domain.LayoutField, 0, len(doc.Fields))
	for _, layoutField := range doc.Fields {
		fields = append(fields, domain.LayoutField{
			Field: domain.Field{
				Handle:   layoutField.Field.Handle,
				Name:     layoutField.Field.Name,
				Kind:     domain.FieldKind(layoutField.Field.Kind),
				Required: layoutField.Field.Required,
			},
			Required: layoutField.Required,
		})
	}

	return domain.Form{
		ID:                   doc.ID.Hex(),
		Handle:               doc.Handle,
		Name:                 doc.Name,
		Fields:               fields,
		UseCaptcha:           doc.UseCaptcha,
		NotifyAdmin:          doc.NotifyAdmin,
		NotifyRegistrant:     doc.NotifyRegistrant,
		AdminEmails:          doc.AdminEmails,
		RegistrantEmailField: doc.RegistrantEmailField,
		Subject:              doc.Subject,
		AdminTemplate:        doc.AdminTemplate,
		RegistrantTemplate:   doc.RegistrantTemplate,
		SuccessMessage:       doc.SuccessMessage,
		ErrorMessage:         doc.ErrorMessage,
		RedirectOnSuccess:    doc.RedirectOnSuccess,
		RedirectURL:          doc.RedirectURL,
		AjaxSubmit:           doc.AjaxSubmit,
		CreatedAt:            doc.CreatedAt,
		UpdatedAt:            doc.UpdatedAt,
	}
}
