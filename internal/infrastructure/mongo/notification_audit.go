package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/formloop/formloop-services/api/internal/forms/application"
)

// NotificationAudit stores failed notification dispatches for operator
// follow-up.
type NotificationAudit struct {
	failures *mongo.Collection
}

// NewNotificationAudit binds the audit to its collection.
func NewNotificationAudit(db *mongo.Database, failureCollection string) *NotificationAudit {
	return &NotificationAudit{failures: db.Collection(failureCollection)}
}

// Record inserts one failure document.
func (a *NotificationAudit) Record(ctx context.Context, failure application.NotificationFailure) error {
	occurredAt := failure.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	doc := NotificationFailureDocument{
		ID:         primitive.NewObjectID(),
		Target:     failure.Target,
		EntryID:    failure.EntryID,
		FormID:     failure.FormID,
		FormHandle: failure.FormHandle,
		Recipients: failure.Recipients,
		Error:      failure.Err,
		Status:     "pending",
		OccurredAt: occurredAt,
		CreatedAt:  time.Now().UTC(),
	}
	_, err := a.failures.InsertOne(ctx, doc)
	return err
}
