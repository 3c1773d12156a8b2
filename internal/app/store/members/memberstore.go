// internal/app/store/members/memberstore.go
package memberstore

// Terminology: Identifiers
//   - UID / uid: the numeric account id of a user
//   - ObjectID / object_id: the string id of a collab object

import (
	"context"
	"errors"
	"time"

	"github.com/collabware/collabhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists collab membership rows in the collab_members
// collection. Uniqueness of (uid, object_id) is enforced by the index
// reconciled at startup; Insert maps the duplicate-key write error to
// ErrDuplicateMember so concurrent creates for one key resolve to
// exactly one winner.
type Store struct {
	c *mongo.Collection
}

var (
	ErrNotFound        = errors.New("collab member not found")
	ErrDuplicateMember = errors.New("collab member already exists")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("collab_members")}
}

// Exists reports whether a membership row exists for (uid, objectID).
func (s *Store) Exists(ctx context.Context, uid int64, objectID string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"uid": uid, "object_id": objectID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Insert creates a membership row. Returns ErrDuplicateMember when a row
// for (uid, objectID) already exists.
func (s *Store) Insert(ctx context.Context, uid int64, objectID string, level models.AccessLevel) error {
	now := time.Now().UTC()
	_, err := s.c.InsertOne(ctx, models.CollabMember{
		UID:         uid,
		ObjectID:    objectID,
		AccessLevel: level,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateMember
		}
		return err
	}
	return nil
}

// Upsert creates the membership row or updates its access level in place.
func (s *Store) Upsert(ctx context.Context, uid int64, objectID string, level models.AccessLevel) error {
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

// Delete removes the membership row for (uid, objectID). Deleting an
// absent row is not an error.
func (s *Store) Delete(ctx context.Context, uid int64, objectID string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"uid": uid, "object_id": objectID})
	return err
}

// Get retrieves the membership row for (uid, objectID).
func (s *Store) Get(ctx context.Context, uid int64, objectID string) (models.CollabMember, error) {
	var m models.CollabMember
	err := s.c.FindOne(ctx, bson.M{"uid": uid, "object_id": objectID}).Decode(&m)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.CollabMember{}, ErrNotFound
		}
		return models.CollabMember{}, err
	}
	return m, nil
}

// ListByObject returns all membership rows for one collab object.
// Results are sorted by uid for stable output, but callers must not
// depend on the order.
func (s *Store) ListByObject(ctx context.Context, objectID string) ([]models.CollabMember, error) {
	cur, err := s.c.Find(ctx, bson.M{"object_id": objectID}, options.Find().SetSort(bson.D{{Key: "uid", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var members []models.CollabMember
	if err := cur.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}
