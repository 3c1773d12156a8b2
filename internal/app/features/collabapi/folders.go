// internal/app/features/collabapi/folders.go
package collabapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// HandleWorkspaceStructure handles
// GET /workspace/{workspace_id}/folder?uid=&depth=.
// depth defaults to 1 when absent; the hard ceiling is enforced by the
// materializer, not here.
func (h *Handler) HandleWorkspaceStructure(w http.ResponseWriter, r *http.Request) {
	uid, ok := uidParam(w, r)
	if !ok {
		return
	}

	depth := 1
	if raw := r.URL.Query().Get("depth"); raw != "" {
		var err error
		depth, err = strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Code: "invalid_input", Message: "depth query parameter must be an integer"})
			return
		}
	}

	view, err := h.Folders.WorkspaceStructure(r.Context(), uid, chi.URLParam(r, "workspace_id"), depth)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandlePublishedView handles GET /published/{namespace}.
func (h *Handler) HandlePublishedView(w http.ResponseWriter, r *http.Request) {
	view, err := h.Publish.PublishedView(r.Context(), chi.URLParam(r, "namespace"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
