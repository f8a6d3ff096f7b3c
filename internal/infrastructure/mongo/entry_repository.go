package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/formloop/formloop-services/api/internal/forms/application"
	"github.com/formloop/formloop-services/api/internal/forms/domain"
)

const defaultEntryPageSize = 50

// EntryRepository persists submission entries as a generic element
// record plus a form-payload record, written atomically.
type EntryRepository struct {
	client   *mongo.Client
	elements *mongo.Collection
	entries  *mongo.Collection
}

// NewEntryRepository binds the repository to the element and entry
// collections.
func NewEntryRepository(db *mongo.Database, elementCollection, entryCollection string) *EntryRepository {
	return &EntryRepository{
		client:   db.Client(),
		elements: db.Collection(elementCollection),
		entries:  db.Collection(entryCollection),
	}
}

// Save validates the draft entry's record-level constraints, then writes
// the element record and the payload record in one transaction. When the
// surrounding context already carries a session, that ambient transaction
// is reused instead of opening a nested one. Equivalent payloads always
// produce distinct entries; there is no deduplication.
func (r *EntryRepository) Save(ctx context.Context, entry *domain.Entry) (string, error) {
	if errs := entry.Validate(); len(errs) > 0 {
		entry.AddErrors(errs...)
		return "", recordError(entry)
	}

	formID, err := primitive.ObjectIDFromHex(strings.TrimSpace(entry.FormID))
	if err != nil {
		entry.AddErrors("formId is not a valid identity")
		return "", recordError(entry)
	}

	entryID := primitive.NewObjectID()
	elementDoc := ElementDocument{
		ID:        entryID,
		Kind:      ElementKindFormEntry,
		FormID:    formID,
		Title:     entry.Title,
		ReceiptID: entry.ReceiptID,
		CreatedAt: entry.CreatedAt,
	}
	entryDoc := EntryDocument{
		ID:        entryID,
		FormID:    formID,
		Data:      entry.Data,
		CreatedAt: entry.CreatedAt,
	}

	writes := func(ctx context.Context) error {
		if _, err := r.elements.InsertOne(ctx, elementDoc); err != nil {
			return err
		}
		if _, err := r.entries.InsertOne(ctx, entryDoc); err != nil {
			return err
		}
		return nil
	}

	if ambient := mongo.SessionFromContext(ctx); ambient != nil {
		if err := writes(ctx); err != nil {
			return "", err
		}
		return entryID.Hex(), nil
	}

	session, err := r.client.StartSession()
	if err != nil {
		return "", err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, writes(sessCtx)
	})
	if err != nil {
		return "", err
	}
	return entryID.Hex(), nil
}

// FindByID fetches one entry by identity, joining the element record
// (matched on the form-entry kind marker) with its payload record.
func (r *EntryRepository) FindByID(ctx context.Context, id string) (*domain.Entry, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, application.ErrEntryNotFound
	}

	var elementDoc ElementDocument
	err = r.elements.FindOne(ctx, bson.M{"_id": objectID, "kind": ElementKindFormEntry}).Decode(&elementDoc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, application.ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}

	var entryDoc EntryDocument
	err = r.entries.FindOne(ctx, bson.M{"_id": objectID}).Decode(&entryDoc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, application.ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}

	entry := mapEntryDocuments(elementDoc, entryDoc)
	return &entry, nil
}

// Find lists entries, newest first, optionally scoped to one form.
func (r *EntryRepository) Find(ctx context.Context, filter application.EntryFilter, paging application.Paging) ([]domain.Entry, error) {
	mongoFilter := bson.M{"kind": ElementKindFormEntry}
	if filter.FormID != "" {
		formID, err := primitive.ObjectIDFromHex(strings.TrimSpace(filter.FormID))
		if err != nil {
			return nil, application.ErrFormNotFound
		}
		mongoFilter["formId"] = formID
	}

	limit := paging.Limit
	if limit <= 0 {
		limit = defaultEntryPageSize
	}
	skip := 0
	if paging.Page > 1 {
		skip = (paging.Page - 1) * limit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(skip))

	cursor, err := r.elements.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	elementDocs := make([]ElementDocument, 0)
	ids := make([]primitive.ObjectID, 0)
	for cursor.Next(ctx) {
		var doc ElementDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		elementDocs = append(elementDocs, doc)
		ids = append(ids, doc.ID)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	if len(elementDocs) == 0 {
		return []domain.Entry{}, nil
	}

	payloadCursor, err := r.entries.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer payloadCursor.Close(ctx)

	payloads := make(map[primitive.ObjectID]EntryDocument, len(ids))
	for payloadCursor.Next(ctx) {
		var doc EntryDocument
		if err := payloadCursor.Decode(&doc); err != nil {
			return nil, err
		}
		payloads[doc.ID] = doc
	}
	if err := payloadCursor.Err(); err != nil {
		return nil, err
	}

	entries := make([]domain.Entry, 0, len(elementDocs))
	for _, elementDoc := range elementDocs {
		payload, ok := payloads[elementDoc.ID]
		if !ok {
			continue
		}
		entries = append(entries, mapEntryDocuments(elementDoc, payload))
	}
	return entries, nil
}

// recordError wraps ErrEntryInvalid with the errors aggregated onto the
// rejected draft.
func recordError(entry *domain.Entry) error {
	if !entry.HasErrors() {
		return application.ErrEntryInvalid
	}
	return fmt.Errorf("%w: %s", application.ErrEntryInvalid, strings.Join(entry.Errors(), "; "))
}

func mapEntryDocuments(elementDoc ElementDocument, entryDoc EntryDocument) domain.Entry {
	data := make(domain.Payload, len(entryDoc.Data))
	for handle, values := range entryDoc.Data {
		data[handle] = append([]string(nil), values...)
	}
	return domain.Entry{
		ID:        elementDoc.ID.Hex(),
		FormID:    elementDoc.FormID.Hex(),
		Title:     elementDoc.Title,
		Data:      data,
		ReceiptID: elementDoc.ReceiptID,
		CreatedAt: elementDoc.CreatedAt,
	}
}
