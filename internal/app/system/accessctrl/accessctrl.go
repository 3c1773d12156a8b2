// internal/app/system/accessctrl/accessctrl.go
package accessctrl

// Terminology: Identifiers
//   - UID / uid: the numeric account id of a user
//   - ObjectID / object_id: the string id of a collab object

import (
	"context"
	"errors"
	"time"

	"github.com/collabware/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the access-control policy backend consumed by the member
// access manager. Policy entries are derived from membership rows; the
// manager keeps the two in lockstep across mutation and deletion. The
// policy evaluator reads this collection; its decision logic lives
// outside this module and only the update/remove contract is owned here.
type Store struct {
	c *mongo.Collection
}

var ErrNoPolicy = errors.New("no access policy for user and object")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("access_policies")}
}

// SetAccessLevel writes the policy entry for (uid, objectID), creating
// it if absent.
func (s *Store) SetAccessLevel(ctx context.Context, uid int64, objectID string, level models.AccessLevel) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateOne(ctx,
		bson.M{"uid": uid, "object_id": objectID},
		bson.M{
			"$set":         bson.M{"access_level": level, "updated_at": now},
			"$setOnInsert": bson.M{"created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// RemoveAccess deletes the policy entry for (uid, objectID). Removing an
// absent entry is not an error, matching delete idempotency upstream.
func (s *Store) RemoveAccess(ctx context.Context, uid int64, objectID string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"uid": uid, "object_id": objectID})
	return err
}

// AccessLevel reads back the stored policy entry. Used by the policy
// evaluator and by tests asserting the lockstep invariant.
func (s *Store) AccessLevel(ctx context.Context, uid int64, objectID string) (models.AccessLevel, error) {
	var row struct {
		AccessLevel models.AccessLevel `bson:"access_level"`
	}
	err := s.c.FindOne(ctx, bson.M{"uid": uid, "object_id": objectID}).Decode(&row)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, ErrNoPolicy
		}
		return 0, err
	}
	return row.AccessLevel, nil
}
