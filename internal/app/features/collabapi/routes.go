// internal/app/features/collabapi/routes.go
package collabapi

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the collab API under the path where the caller mounts it.
// Typically: r.Mount("/api", collabapi.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Route("/workspace/{workspace_id}", func(wr chi.Router) {
		wr.Get("/folder", h.HandleWorkspaceStructure)

		wr.Route("/collab/{object_id}/member", func(mr chi.Router) {
			mr.Post("/", h.HandleCreateMember)
			mr.Put("/", h.HandleUpsertMember)
			mr.Get("/", h.HandleGetMember)
			mr.Delete("/", h.HandleDeleteMember)
			mr.Get("/list", h.HandleListMembers)
		})
	})

	r.Get("/published/{namespace}", h.HandlePublishedView)

	return r
}
