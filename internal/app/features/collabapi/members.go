// internal/app/features/collabapi/members.go
package collabapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/collabware/collabhub/internal/app/collab"
	"github.com/collabware/collabhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

type memberChangeRequest struct {
	UID         int64              `json:"uid"`
	AccessLevel models.AccessLevel `json:"access_level"`
}

type memberListResponse struct {
	Members []models.CollabMember `json:"members"`
}

// HandleCreateMember handles POST /workspace/{workspace_id}/collab/{object_id}/member.
func (h *Handler) HandleCreateMember(w http.ResponseWriter, r *http.Request) {
	var req memberChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "invalid_input", Message: "malformed request body"})
		return
	}

	err := h.Members.Create(r.Context(), collab.InsertMemberParams{
		UID:         req.UID,
		ObjectID:    chi.URLParam(r, "object_id"),
		AccessLevel: req.AccessLevel,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleUpsertMember handles PUT /workspace/{workspace_id}/collab/{object_id}/member.
func (h *Handler) HandleUpsertMember(w http.ResponseWriter, r *http.Request) {
	var req memberChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "invalid_input", Message: "malformed request body"})
		return
	}

	err := h.Members.Upsert(r.Context(), collab.UpdateMemberParams{
		UID:         req.UID,
		ObjectID:    chi.URLParam(r, "object_id"),
		AccessLevel: req.AccessLevel,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGetMember handles GET /workspace/{workspace_id}/collab/{object_id}/member?uid=.
func (h *Handler) HandleGetMember(w http.ResponseWriter, r *http.Request) {
	uid, ok := uidParam(w, r)
	if !ok {
		return
	}

	member, err := h.Members.Get(r.Context(), collab.MemberIdentify{
		UID:      uid,
		ObjectID: chi.URLParam(r, "object_id"),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

// HandleDeleteMember handles DELETE /workspace/{workspace_id}/collab/{object_id}/member?uid=.
func (h *Handler) HandleDeleteMember(w http.ResponseWriter, r *http.Request) {
	uid, ok := uidParam(w, r)
	if !ok {
		return
	}

	err := h.Members.Delete(r.Context(), collab.MemberIdentify{
		UID:      uid,
		ObjectID: chi.URLParam(r, "object_id"),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListMembers handles GET /workspace/{workspace_id}/collab/{object_id}/member/list.
func (h *Handler) HandleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.Members.List(r.Context(), chi.URLParam(r, "object_id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if members == nil {
		members = []models.CollabMember{}
	}
	writeJSON(w, http.StatusOK, memberListResponse{Members: members})
}

func uidParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	uid, err := strconv.ParseInt(r.URL.Query().Get("uid"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "invalid_input", Message: "uid query parameter must be an integer"})
		return 0, false
	}
	return uid, true
}
