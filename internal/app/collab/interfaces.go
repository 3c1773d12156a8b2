// internal/app/collab/interfaces.go
package collab

import (
	"context"

	"github.com/collabware/collabhub/internal/domain/models"
	"github.com/google/uuid"
)

// The stores and the decoder are modeled as capability interfaces so
// deterministic in-memory doubles can stand in for them in tests. The
// mongo-backed implementations live under internal/app/store and
// internal/app/system; bootstrap wires them in.

// MemberStore is the relational membership record store. Implementations
// must report a duplicate insert with memberstore.ErrDuplicateMember and
// an absent read with memberstore.ErrNotFound. All mutation methods must
// honor a transaction session carried in ctx.
type MemberStore interface {
	Exists(ctx context.Context, uid int64, objectID string) (bool, error)
	Insert(ctx context.Context, uid int64, objectID string, level models.AccessLevel) error
	Upsert(ctx context.Context, uid int64, objectID string, level models.AccessLevel) error
	Delete(ctx context.Context, uid int64, objectID string) error
	Get(ctx context.Context, uid int64, objectID string) (models.CollabMember, error)
	ListByObject(ctx context.Context, objectID string) ([]models.CollabMember, error)
}

// PolicyStore is the external access-control policy backend. The member
// access manager keeps its entries in lockstep with membership rows.
type PolicyStore interface {
	SetAccessLevel(ctx context.Context, uid int64, objectID string, level models.AccessLevel) error
	RemoveAccess(ctx context.Context, uid int64, objectID string) error
}

// DocumentStore fetches encoded collab documents. Implementations must
// report an absent document with docstore.ErrNotFound.
type DocumentStore interface {
	GetEncodedDocument(ctx context.Context, origin models.Origin, workspaceID, objectID string, collabType models.CollabType, requireLatest bool) (models.EncodedDocument, error)
}

// Decoder materializes an encoded folder document into a tree. The
// decoder guarantees the result is acyclic; callers still bound their
// own traversal depth. Updates are applied over the base state in order.
type Decoder interface {
	DecodeFolder(uid int64, origin models.Origin, doc models.EncodedDocument, workspaceID string, updates [][]byte) (*models.Folder, error)
}

// PublishStore resolves publish namespaces and published view id sets.
// Implementations must report an unmapped namespace with
// publishstore.ErrNamespaceNotFound.
type PublishStore interface {
	WorkspaceForNamespace(ctx context.Context, namespace string) (uuid.UUID, error)
	PublishedViewIDs(ctx context.Context, workspaceID uuid.UUID) (map[string]struct{}, error)
}
