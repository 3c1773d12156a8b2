// internal/app/collab/publish.go
package collab

import (
	"context"
	"errors"

	docstore "github.com/collabware/collabhub/internal/app/store/collabdocs"
	publishstore "github.com/collabware/collabhub/internal/app/store/publish"
	"github.com/collabware/collabhub/internal/domain/models"
	"go.uber.org/zap"
)

// PublishResolver resolves a public namespace to the published subset of
// a workspace's folder tree. Reads run under the server origin: published
// content is public by definition, so no per-user access check applies.
type PublishResolver struct {
	docs DocumentStore
	dec  Decoder
	pubs PublishStore
	log  *zap.Logger
}

func NewPublishResolver(docs DocumentStore, dec Decoder, pubs PublishStore, logger *zap.Logger) *PublishResolver {
	if logger == nil {
		logger = zap.L()
	}
	return &PublishResolver{docs: docs, dec: dec, pubs: pubs, log: logger}
}

// PublishedView materializes the published outline for a namespace.
// Any step failing aborts the whole resolution; no partial view is
// returned. An empty published set yields a root-only view, never the
// full tree.
func (r *PublishResolver) PublishedView(ctx context.Context, namespace string) (*models.PublishedView, error) {
	if namespace == "" {
		return nil, newError(KindInvalidInput, "publish namespace must not be empty")
	}

	workspaceID, err := r.pubs.WorkspaceForNamespace(ctx, namespace)
	if err != nil {
		if errors.Is(err, publishstore.ErrNamespaceNotFound) {
			return nil, newError(KindNamespaceNotFound, "no workspace mapped to namespace %s", namespace)
		}
		return nil, coerce(err, "resolve publish namespace")
	}
	ws := workspaceID.String()

	doc, err := r.docs.GetEncodedDocument(ctx, models.ServerOrigin(), ws, ws, models.CollabTypeFolder, true)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, newError(KindNotFound, "folder document for workspace %s not found", ws)
		}
		return nil, coerce(err, "fetch folder document")
	}

	folder, err := r.dec.DecodeFolder(0, models.ServerOrigin(), doc, ws, nil)
	if err != nil {
		return nil, wrapError(KindMaterializationFailure, err, "decode folder document for workspace %s", ws)
	}

	publishedIDs, err := r.pubs.PublishedViewIDs(ctx, workspaceID)
	if err != nil {
		return nil, coerce(err, "select published view ids")
	}

	r.log.Debug("resolved published view",
		zap.String("namespace", namespace),
		zap.String("workspace_id", ws),
		zap.Int("published_ids", len(publishedIDs)),
	)
	return publishedOutline(folder.Root, publishedIDs), nil
}

// publishedOutline keeps a node iff it is the root, its id is published,
// or a published node lies somewhere below it. Structural relationships
// among retained nodes are preserved: a published descendant stays
// reachable under its nearest retained ancestor. Depth-tagged recursion
// with the shared traversal ceiling bounds the walk.
func publishedOutline(root *models.FolderNode, published map[string]struct{}) *models.PublishedView {
	if root == nil {
		return nil
	}
	out := &models.PublishedView{ID: root.ID, Name: root.Name, Kind: root.Kind}
	for _, child := range root.Children {
		if hasPublished(child, published, 1) {
			out.Children = append(out.Children, projectPublished(child, published, 1))
		}
	}
	return out
}

func projectPublished(node *models.FolderNode, published map[string]struct{}, depth int) *models.PublishedView {
	out := &models.PublishedView{ID: node.ID, Name: node.Name, Kind: node.Kind}
	if depth >= DepthLimit {
		return out
	}
	for _, child := range node.Children {
		if hasPublished(child, published, depth+1) {
			out.Children = append(out.Children, projectPublished(child, published, depth+1))
		}
	}
	return out
}

func hasPublished(node *models.FolderNode, published map[string]struct{}, depth int) bool {
	if depth > DepthLimit {
		return false
	}
	if _, ok := published[node.ID]; ok {
		return true
	}
	for _, child := range node.Children {
		if hasPublished(child, published, depth+1) {
			return true
		}
	}
	return false
}
