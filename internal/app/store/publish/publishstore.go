// internal/app/store/publish/publishstore.go
package publishstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store maps public namespaces to workspaces and records which view ids
// of a workspace are published. Two collections: publish_namespaces
// (unique namespace -> workspace_id) and published_views (one row per
// published view id).
type Store struct {
	namespaces *mongo.Collection
	views      *mongo.Collection
}

var ErrNamespaceNotFound = errors.New("publish namespace not found")

func New(db *mongo.Database) *Store {
	return &Store{
		namespaces: db.Collection("publish_namespaces"),
		views:      db.Collection("published_views"),
	}
}

// WorkspaceForNamespace resolves a public namespace to the workspace it
// aliases. Exactly one workspace maps to a namespace.
func (s *Store) WorkspaceForNamespace(ctx context.Context, namespace string) (uuid.UUID, error) {
	var row struct {
		WorkspaceID string `bson:"workspace_id"`
	}
	err := s.namespaces.FindOne(ctx, bson.M{"namespace": namespace}).Decode(&row)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return uuid.Nil, ErrNamespaceNotFound
		}
		return uuid.Nil, err
	}
	id, err := uuid.Parse(row.WorkspaceID)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// PublishedViewIDs returns the set of view ids published for the
// workspace. An empty set is a valid result, not an error.
func (s *Store) PublishedViewIDs(ctx context.Context, workspaceID uuid.UUID) (map[string]struct{}, error) {
	cur, err := s.views.Find(ctx, bson.M{"workspace_id": workspaceID.String()})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	ids := make(map[string]struct{})
	for cur.Next(ctx) {
		var row struct {
			ViewID string `bson:"view_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids[row.ViewID] = struct{}{}
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// SetNamespace binds a namespace to a workspace, replacing any previous
// binding for that namespace.
func (s *Store) SetNamespace(ctx context.Context, namespace string, workspaceID uuid.UUID) error {
	_, err := s.namespaces.UpdateOne(ctx,
		bson.M{"namespace": namespace},
		bson.M{"$set": bson.M{
			"workspace_id": workspaceID.String(),
			"updated_at":   time.Now().UTC(),
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

// PublishView marks one view id as published for the workspace.
func (s *Store) PublishView(ctx context.Context, workspaceID uuid.UUID, viewID string) error {
	_, err := s.views.UpdateOne(ctx,
		bson.M{"workspace_id": workspaceID.String(), "view_id": viewID},
		bson.M{"$set": bson.M{"published_at": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	return err
}

// UnpublishView removes one view id from the workspace's published set.
func (s *Store) UnpublishView(ctx context.Context, workspaceID uuid.UUID, viewID string) error {
	_, err := s.views.DeleteOne(ctx, bson.M{"workspace_id": workspaceID.String(), "view_id": viewID})
	return err
}
