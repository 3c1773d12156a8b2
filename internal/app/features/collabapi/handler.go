// internal/app/features/collabapi/handler.go
package collabapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/collabware/collabhub/internal/app/collab"
	"github.com/collabware/collabhub/internal/domain/models"
	"go.uber.org/zap"
)

// MemberService is the membership surface the handler consumes. Satisfied
// by *collab.MemberAccess; handler tests substitute stubs.
type MemberService interface {
	Create(ctx context.Context, params collab.InsertMemberParams) error
	Upsert(ctx context.Context, params collab.UpdateMemberParams) error
	Get(ctx context.Context, identify collab.MemberIdentify) (models.CollabMember, error)
	Delete(ctx context.Context, identify collab.MemberIdentify) error
	List(ctx context.Context, objectID string) ([]models.CollabMember, error)
}

// FolderService is the materializer surface. Satisfied by
// *collab.Materializer.
type FolderService interface {
	WorkspaceStructure(ctx context.Context, uid int64, workspaceID string, depth int) (*models.FolderView, error)
}

// PublishService is the publish-resolution surface. Satisfied by
// *collab.PublishResolver.
type PublishService interface {
	PublishedView(ctx context.Context, namespace string) (*models.PublishedView, error)
}

// Handler is the feature-level handler for the collab API. It owns no
// business logic; it parses requests, delegates to the collab package,
// and maps error kinds to HTTP status codes.
type Handler struct {
	Members MemberService
	Folders FolderService
	Publish PublishService
	Log     *zap.Logger
}

func NewHandler(members MemberService, folders FolderService, publish PublishService, logger *zap.Logger) *Handler {
	return &Handler{
		Members: members,
		Folders: folders,
		Publish: publish,
		Log:     logger,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps a collab error kind to its HTTP status. Internal-class
// failures are logged here and reported without the underlying detail.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := collab.KindOf(err)

	var status int
	switch kind {
	case collab.KindInvalidInput, collab.KindDepthLimitExceeded:
		status = http.StatusBadRequest
	case collab.KindAlreadyExists:
		status = http.StatusConflict
	case collab.KindNotFound, collab.KindNamespaceNotFound:
		status = http.StatusNotFound
	default:
		status = http.StatusInternalServerError
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.Log.Error("collab api internal error",
			zap.String("path", r.URL.Path),
			zap.String("kind", kind.String()),
			zap.Error(err),
		)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Code: kind.String(), Message: msg})
}
