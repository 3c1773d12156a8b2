// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"

	"github.com/collabware/collabhub/internal/app/collab/codec"
	docstore "github.com/collabware/collabhub/internal/app/store/collabdocs"
	memberstore "github.com/collabware/collabhub/internal/app/store/members"
	publishstore "github.com/collabware/collabhub/internal/app/store/publish"
	"github.com/collabware/collabhub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateMember inserts a membership row directly through the store.
func (f *Fixtures) CreateMember(ctx context.Context, uid int64, objectID string, level models.AccessLevel) {
	f.t.Helper()
	if err := memberstore.New(f.db).Insert(ctx, uid, objectID, level); err != nil {
		f.t.Fatalf("failed to create test member: %v", err)
	}
}

// SeedFolderDocument encodes root and stores it as the latest folder
// snapshot for the workspace. Returns the encoded document for direct
// decoder tests.
func (f *Fixtures) SeedFolderDocument(ctx context.Context, workspaceID string, root *models.FolderNode) models.EncodedDocument {
	f.t.Helper()

	c, err := codec.New()
	if err != nil {
		f.t.Fatalf("failed to build codec: %v", err)
	}
	state, err := c.EncodeFolder(&models.Folder{WorkspaceID: workspaceID, Root: root}, true)
	if err != nil {
		f.t.Fatalf("failed to encode folder: %v", err)
	}

	doc := models.EncodedDocument{
		ObjectID:   workspaceID,
		CollabType: models.CollabTypeFolder,
		DocState:   state,
	}
	if err := docstore.New(f.db).SaveSnapshot(ctx, workspaceID, doc); err != nil {
		f.t.Fatalf("failed to store folder snapshot: %v", err)
	}
	return doc
}

// PublishViews binds a namespace to the workspace and marks viewIDs as
// published.
func (f *Fixtures) PublishViews(ctx context.Context, namespace string, workspaceID uuid.UUID, viewIDs ...string) {
	f.t.Helper()

	pubs := publishstore.New(f.db)
	if err := pubs.SetNamespace(ctx, namespace, workspaceID); err != nil {
		f.t.Fatalf("failed to set namespace: %v", err)
	}
	for _, id := range viewIDs {
		if err := pubs.PublishView(ctx, workspaceID, id); err != nil {
			f.t.Fatalf("failed to publish view %s: %v", id, err)
		}
	}
}
