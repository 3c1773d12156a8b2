// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// Event categories.
const (
	CategoryMember  = "member"
	CategoryPublish = "publish"
)

// Event is one audit record of a membership or publish mutation.
type Event struct {
	Category      string            `bson:"category"`
	EventType     string            `bson:"event_type"`
	UID           int64             `bson:"uid,omitempty"`
	ObjectID      string            `bson:"object_id,omitempty"`
	Success       bool              `bson:"success"`
	FailureReason string            `bson:"failure_reason,omitempty"`
	Details       map[string]string `bson:"details,omitempty"`
	CreatedAt     time.Time         `bson:"created_at"`
}

// Store persists audit events to the audit_events collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// Log inserts one audit event. CreatedAt is stamped here if unset.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}
