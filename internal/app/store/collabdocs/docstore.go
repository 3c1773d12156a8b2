// internal/app/store/collabdocs/docstore.go
package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/collabware/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Store holds the latest encoded snapshot of every collab object, one
// document per (workspace_id, object_id). Writers replace the snapshot
// and bump its version; readers either take the collection's default
// read path or, when the caller requires the latest committed state,
// a primary read with majority read concern.
type Store struct {
	c      *mongo.Collection
	latest *mongo.Collection
}

var ErrNotFound = errors.New("collab document not found")

func New(db *mongo.Database) *Store {
	return &Store{
		c: db.Collection("collab_documents"),
		latest: db.Collection("collab_documents",
			options.Collection().
				SetReadPreference(readpref.Primary()).
				SetReadConcern(readconcern.Majority())),
	}
}

// storedDocument is the collection schema: EncodedDocument plus the
// owning workspace.
type storedDocument struct {
	WorkspaceID string `bson:"workspace_id"`
	models.EncodedDocument `bson:",inline"`
}

// GetEncodedDocument fetches the encoded payload of one collab object.
// The origin identifies the requester; it is recorded by callers for
// logging and auditing, the store itself does not gate reads. When
// requireLatest is set the read goes to the primary with majority read
// concern so a just-committed snapshot is never missed.
func (s *Store) GetEncodedDocument(ctx context.Context, origin models.Origin, workspaceID, objectID string, collabType models.CollabType, requireLatest bool) (models.EncodedDocument, error) {
	coll := s.c
	if requireLatest {
		coll = s.latest
	}

	var doc storedDocument
	err := coll.FindOne(ctx, bson.M{
		"workspace_id": workspaceID,
		"object_id":    objectID,
		"collab_type":  collabType,
	}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.EncodedDocument{}, ErrNotFound
		}
		return models.EncodedDocument{}, err
	}
	return doc.EncodedDocument, nil
}

// SaveSnapshot replaces the stored snapshot for (workspaceID, doc.ObjectID)
// and increments its version. Used by the ingest path and test fixtures;
// the materializer never writes.
func (s *Store) SaveSnapshot(ctx context.Context, workspaceID string, doc models.EncodedDocument) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateOne(ctx,
		bson.M{
			"workspace_id": workspaceID,
			"object_id":    doc.ObjectID,
			"collab_type":  doc.CollabType,
		},
		bson.M{
			"$set": bson.M{
				"state_vector": doc.StateVector,
				"doc_state":    doc.DocState,
				"updated_at":   now,
			},
			"$inc": bson.M{"version": int64(1)},
		},
		options.Update().SetUpsert(true),
	)
	return err
}
