package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/formloop/formloop-services/api/internal/forms/application"
	"github.com/formloop/formloop-services/api/internal/forms/domain"
)

func draftEntry() *domain.Entry {
	return &domain.Entry{
		FormID:    "507f1f77bcf86cd799439011",
		Title:     "Contact Us",
		Data:      domain.Payload{"fullName": {"Jo"}},
		ReceiptID: "receipt-1",
		CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func newMockEntryRepository(mt *mtest.T) *EntryRepository {
	return NewEntryRepository(mt.Client.Database("formloop"), "elements", "form_entries")
}

func TestSaveRejectsInvalidRecord(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("blank title", func(mt *mtest.T) {
		repo := newMockEntryRepository(mt)

		entry := draftEntry()
		entry.Title = ""
		_, err := repo.Save(context.Background(), entry)
		require.ErrorIs(mt, err, application.ErrEntryInvalid)
		assert.ErrorContains(mt, err, "title cannot be blank")
		assert.True(mt, entry.HasErrors())
	})

	mt.Run("malformed form identity", func(mt *mtest.T) {
		repo := newMockEntryRepository(mt)

		entry := draftEntry()
		entry.FormID = "not-hex"
		_, err := repo.Save(context.Background(), entry)
		require.ErrorIs(mt, err, application.ErrEntryInvalid)
		assert.ErrorContains(mt, err, "formId is not a valid identity")
		assert.Equal(mt, []string{"formId is not a valid identity"}, entry.Errors())
	})
}

func TestSaveCommitsBothRecords(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("commit", func(mt *mtest.T) {
		repo := newMockEntryRepository(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(), // insert element record
			mtest.CreateSuccessResponse(), // insert payload record
			mtest.CreateSuccessResponse(), // commitTransaction
		)

		id, err := repo.Save(context.Background(), draftEntry())
		require.NoError(mt, err)

		_, err = primitive.ObjectIDFromHex(id)
		assert.NoError(mt, err)
	})
}

func TestSaveAbortsWhenPayloadWriteFails(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("payload write failure", func(mt *mtest.T) {
		repo := newMockEntryRepository(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(), // insert element record
			mtest.CreateWriteErrorsResponse(mtest.WriteError{
				Index:   0,
				Code:    11000,
				Message: "duplicate key",
			}), // insert payload record fails
			mtest.CreateSuccessResponse(), // abortTransaction
		)

		entry := draftEntry()
		_, err := repo.Save(context.Background(), entry)
		require.Error(mt, err)
		assert.True(mt, mongo.IsDuplicateKeyError(err))

		// The aborted element record is not observable afterwards.
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "formloop.elements", mtest.FirstBatch))
		_, err = repo.FindByID(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, application.ErrEntryNotFound)
	})
}

func TestSaveReusesAmbientSession(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("ambient transaction stays with its owner", func(mt *mtest.T) {
		repo := newMockEntryRepository(mt)

		session, err := mt.Client.StartSession()
		require.NoError(mt, err)
		defer session.EndSession(context.Background())
		require.NoError(mt, session.StartTransaction())

		sessCtx := mongo.NewSessionContext(context.Background(), session)

		mt.AddMockResponses(
			mtest.CreateSuccessResponse(), // insert element record
			mtest.CreateWriteErrorsResponse(mtest.WriteError{
				Index:   0,
				Code:    121,
				Message: "document failed validation",
			}), // insert payload record fails
		)

		_, err = repo.Save(sessCtx, draftEntry())
		require.Error(mt, err)

		// The repository must not have committed or aborted the caller's
		// transaction: the owner can still abort it.
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		assert.NoError(mt, session.AbortTransaction(context.Background()))
	})

	mt.Run("ambient session commit owned by caller", func(mt *mtest.T) {
		repo := newMockEntryRepository(mt)

		session, err := mt.Client.StartSession()
		require.NoError(mt, err)
		defer session.EndSession(context.Background())
		require.NoError(mt, session.StartTransaction())

		sessCtx := mongo.NewSessionContext(context.Background(), session)

		mt.AddMockResponses(
			mtest.CreateSuccessResponse(), // insert element record
			mtest.CreateSuccessResponse(), // insert payload record
		)

		id, err := repo.Save(sessCtx, draftEntry())
		require.NoError(mt, err)
		assert.NotEmpty(mt, id)

		mt.AddMockResponses(mtest.CreateSuccessResponse())
		assert.NoError(mt, session.CommitTransaction(context.Background()))
	})
}
