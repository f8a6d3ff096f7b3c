// Command seed inserts sample form definitions for local development.
package main

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/formloop/formloop-services/api/internal/config"
	mongodoc "github.com/formloop/formloop-services/api/internal/infrastructure/mongo"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatalf("MongoDB connection failed: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Printf("error during MongoDB disconnect: %v", err)
		}
	}()

	forms := client.Database(cfg.MongoDatabase).Collection(cfg.FormCollection)
	now := time.Now().UTC()

	seeds := []mongodoc.FormDocument{
		{
			ID:     primitive.NewObjectID(),
			Handle: "contact",
			Name:   "Contact Us",
			Fields: []mongodoc.LayoutFieldDocument{
				{Field: mongodoc.FieldDocument{Handle: "fullName", Name: "Full Name", Kind: "text"}, Required: true},
				{Field: mongodoc.FieldDocument{Handle: "email", Name: "Email", Kind: "email"}},
				{Field: mongodoc.FieldDocument{Handle: "phone", Name: "Phone", Kind: "number"}},
				{Field: mongodoc.FieldDocument{Handle: "message", Name: "Message", Kind: "text"}, Required: true},
			},
			NotifyAdmin:          true,
			NotifyRegistrant:     true,
			AdminEmails:          "admin@example.com",
			RegistrantEmailField: "email",
			Subject:              "New contact form submission",
			AjaxSubmit:           true,
			CreatedAt:            now,
			UpdatedAt:            now,
		},
		{
			ID:     primitive.NewObjectID(),
			Handle: "newsletter",
			Name:   "Newsletter Signup",
			Fields: []mongodoc.LayoutFieldDocument{
				{Field: mongodoc.FieldDocument{Handle: "email", Name: "Email", Kind: "email"}},
			},
			UseCaptcha:        true,
			NotifyAdmin:       true,
			AdminEmails:       "admin@example.com,editor@example.com",
			Subject:           "New newsletter signup",
			RedirectOnSuccess: true,
			RedirectURL:       "/thanks",
			CreatedAt:         now,
			UpdatedAt:         now,
		},
	}

	for _, seed := range seeds {
		count, err := forms.CountDocuments(ctx, bson.M{"handle": seed.Handle})
		if err != nil {
			log.Fatalf("form lookup failed handle=%s: %v", seed.Handle, err)
		}
		if count > 0 {
			log.Printf("form %q already present, skipping", seed.Handle)
			continue
		}
		if _, err := forms.InsertOne(ctx, seed); err != nil {
			log.Fatalf("form insert failed handle=%s: %v", seed.Handle, err)
		}
		log.Printf("seeded form %q", seed.Handle)
	}
}
