// internal/app/collab/folder.go
package collab

import (
	"context"
	"errors"

	docstore "github.com/collabware/collabhub/internal/app/store/collabdocs"
	"github.com/collabware/collabhub/internal/domain/models"
	"go.uber.org/zap"
)

// DepthLimit is the hard ceiling on folder traversal depth. It is the
// only defense here against a pathologically deep document; the
// decoder's acyclicity guarantee is not re-verified.
const DepthLimit = 10

// Materializer turns the latest encoded folder document of a workspace
// into a bounded view tree. It holds no state between calls and never
// caches; every read re-fetches from the document store.
type Materializer struct {
	docs DocumentStore
	dec  Decoder
	log  *zap.Logger
}

func NewMaterializer(docs DocumentStore, dec Decoder, logger *zap.Logger) *Materializer {
	if logger == nil {
		logger = zap.L()
	}
	return &Materializer{docs: docs, dec: dec, log: logger}
}

// LatestFolder fetches and decodes the workspace's folder document. The
// root folder object id equals the workspace id. The fetch carries the
// requesting user's origin; decoding itself runs under the server
// origin, since the materialized tree is not origin-dependent.
func (m *Materializer) LatestFolder(ctx context.Context, uid int64, workspaceID string) (*models.Folder, error) {
	if workspaceID == "" {
		return nil, newError(KindInvalidInput, "workspace id must not be empty")
	}

	doc, err := m.docs.GetEncodedDocument(ctx, models.UserOrigin(uid), workspaceID, workspaceID, models.CollabTypeFolder, true)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, newError(KindNotFound, "folder document for workspace %s not found", workspaceID)
		}
		return nil, coerce(err, "fetch folder document")
	}

	folder, err := m.dec.DecodeFolder(uid, models.ServerOrigin(), doc, workspaceID, nil)
	if err != nil {
		return nil, wrapError(KindMaterializationFailure, err, "decode folder document for workspace %s", workspaceID)
	}
	return folder, nil
}

// WorkspaceStructure materializes the workspace folder and truncates it
// to the requested depth. Depths over DepthLimit are rejected before any
// fetch; depth 0 yields only the root node.
func (m *Materializer) WorkspaceStructure(ctx context.Context, uid int64, workspaceID string, depth int) (*models.FolderView, error) {
	if depth < 0 {
		return nil, newError(KindInvalidInput, "depth must not be negative, got %d", depth)
	}
	if depth > DepthLimit {
		return nil, newError(KindDepthLimitExceeded, "depth %d is too large (limit: %d)", depth, DepthLimit)
	}

	folder, err := m.LatestFolder(ctx, uid, workspaceID)
	if err != nil {
		return nil, err
	}
	return truncateFolder(folder.Root, depth), nil
}

// truncateFolder projects the tree down to maxDepth levels below the
// root. An explicit worklist replaces recursion so a decoder bug or a
// hostile document cannot drive the stack, whatever its shape.
func truncateFolder(root *models.FolderNode, maxDepth int) *models.FolderView {
	if root == nil {
		return nil
	}
	if maxDepth > DepthLimit {
		maxDepth = DepthLimit
	}

	out := &models.FolderView{ID: root.ID, Name: root.Name, Kind: root.Kind}

	type frame struct {
		src   *models.FolderNode
		dst   *models.FolderView
		depth int
	}
	work := []frame{{src: root, dst: out}}
	for len(work) > 0 {
		f := work[len(work)-1]
		work = work[:len(work)-1]

		if f.depth >= maxDepth {
			// Children past the ceiling are omitted entirely, not
			// included as empty stubs.
			continue
		}
		for _, child := range f.src.Children {
			cv := &models.FolderView{ID: child.ID, Name: child.Name, Kind: child.Kind}
			f.dst.Children = append(f.dst.Children, cv)
			work = append(work, frame{src: child, dst: cv, depth: f.depth + 1})
		}
	}
	return out
}
