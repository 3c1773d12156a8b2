package collab

import (
	"context"
	"testing"

	"github.com/collabware/collabhub/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func publishHarness(t *testing.T, root *models.FolderNode, publishedIDs ...string) *PublishResolver {
	t.Helper()

	workspaceID := uuid.MustParse("2b6f0cc9-04e6-4a96-9a38-9d1c9e2e1a11")
	ws := workspaceID.String()

	ids := make(map[string]struct{}, len(publishedIDs))
	for _, id := range publishedIDs {
		ids[id] = struct{}{}
	}

	docs := &fakeDocStore{docs: map[string]models.EncodedDocument{
		ws: {ObjectID: ws, CollabType: models.CollabTypeFolder},
	}}
	dec := &fakeDecoder{folder: &models.Folder{WorkspaceID: ws, Root: root}}
	pubs := &fakePublishStore{
		namespaces: map[string]uuid.UUID{"acme": workspaceID},
		published:  map[string]map[string]struct{}{ws: ids},
	}
	return NewPublishResolver(docs, dec, pubs, zap.NewNop())
}

func TestPublishedViewKeepsAncestorsOfPublished(t *testing.T) {
	// root -> [A, B -> [C]], only C published. A is pruned, B survives
	// as the path to C.
	root := node("root", models.ViewKindSpace,
		node("A", models.ViewKindDocument),
		node("B", models.ViewKindSpace,
			node("C", models.ViewKindDocument)),
	)
	r := publishHarness(t, root, "C")

	view, err := r.PublishedView(context.Background(), "acme")
	if err != nil {
		t.Fatalf("PublishedView: %v", err)
	}
	if view.ID != "root" || len(view.Children) != 1 {
		t.Fatalf("view = %+v, want root with single child B", view)
	}
	b := view.Children[0]
	if b.ID != "B" || len(b.Children) != 1 || b.Children[0].ID != "C" {
		t.Fatalf("retained subtree wrong: %+v", b)
	}
}

func TestPublishedViewPrunesUnpublishedChildren(t *testing.T) {
	// B published, its child C not. C carries no published descendant, so
	// it is pruned even under a published parent.
	root := node("root", models.ViewKindSpace,
		node("B", models.ViewKindSpace,
			node("C", models.ViewKindDocument)),
	)
	r := publishHarness(t, root, "B")

	view, err := r.PublishedView(context.Background(), "acme")
	if err != nil {
		t.Fatalf("PublishedView: %v", err)
	}
	if len(view.Children) != 1 || view.Children[0].ID != "B" {
		t.Fatalf("view = %+v, want root -> B", view)
	}
	if len(view.Children[0].Children) != 0 {
		t.Fatalf("unpublished child survived: %+v", view.Children[0].Children)
	}
}

func TestPublishedViewEmptySetIsRootOnly(t *testing.T) {
	root := node("root", models.ViewKindSpace,
		node("A", models.ViewKindDocument),
		node("B", models.ViewKindGrid),
	)
	r := publishHarness(t, root)

	view, err := r.PublishedView(context.Background(), "acme")
	if err != nil {
		t.Fatalf("PublishedView: %v", err)
	}
	if view.ID != "root" || len(view.Children) != 0 {
		t.Fatalf("view = %+v, want bare root", view)
	}
}

func TestPublishedViewUnknownNamespace(t *testing.T) {
	r := publishHarness(t, node("root", models.ViewKindSpace))

	_, err := r.PublishedView(context.Background(), "nobody")
	if KindOf(err) != KindNamespaceNotFound {
		t.Fatalf("kind = %v, want namespace_not_found (err %v)", KindOf(err), err)
	}

	if _, err := r.PublishedView(context.Background(), ""); KindOf(err) != KindInvalidInput {
		t.Fatalf("empty namespace: kind = %v, want invalid_input", KindOf(err))
	}
}
