package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/kanbanlab/goban/internal/api/dto"
	"github.com/kanbanlab/goban/internal/api/middleware"
	"github.com/kanbanlab/goban/internal/database/models"
	"github.com/kanbanlab/goban/internal/kanban"
	"github.com/kanbanlab/goban/internal/perms"
)

type PermissionHandler struct {
	perms *perms.Service
}

func NewPermissionHandler(permsService *perms.Service) *PermissionHandler {
	return &PermissionHandler{perms: permsService}
}

// ReplaceGrantsRequest carries the PUT body. An empty list is a valid
// replacement that revokes everything; a missing list is not.
type ReplaceGrantsRequest struct {
	Permissions []string `json:"permissions"`
}

func (r ReplaceGrantsRequest) Validate() error {
	if r.Permissions == nil {
		return dto.ErrInvalidBody
	}
	return nil
}

// PermissionResponse represents a catalog entry in API responses
type PermissionResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PermissionListResponse wraps a set of catalog entries.
type PermissionListResponse struct {
	Permissions []PermissionResponse `json:"permissions"`
}

func permissionsToResponse(entries []models.Permission) PermissionListResponse {
	out := make([]PermissionResponse, len(entries))
	for i, p := range entries {
		out[i] = PermissionResponse{
			ID:          p.ID,
			Name:        string(p.Name),
			Description: p.Description,
		}
	}
	return PermissionListResponse{Permissions: out}
}

// Catalog handles GET /permissions
func (h *PermissionHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, permissionsToResponse(h.perms.Catalog()))
}

// ListGrants handles GET /boards/{boardId}/permissions/{userId}
//
// Users may always read their own grant set; reading anyone else's needs
// PERMISSION_VIEW.
func (h *PermissionHandler) ListGrants(w http.ResponseWriter, r *http.Request) {
	requesterID := middleware.GetUserID(r.Context())

	boardID, ok := pathID(r, "boardId")
	if !ok {
		respondError(w, kanban.InvalidData("Invalid board ID"))
		return
	}
	subjectID, ok := pathID(r, "userId")
	if !ok {
		respondError(w, kanban.InvalidData("Invalid user ID"))
		return
	}

	if err := h.perms.CheckPair(r.Context(), boardID, subjectID); err != nil {
		respondError(w, err)
		return
	}

	if requesterID != subjectID {
		allowed, err := h.perms.Authorize(r.Context(), boardID, requesterID, models.CapabilityPermissionView)
		if err != nil {
			respondError(w, err)
			return
		}
		if !allowed {
			respondError(w, kanban.Forbidden("No permission to list the permissions"))
			return
		}
	}

	held, err := h.perms.ListGrants(r.Context(), boardID, subjectID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, permissionsToResponse(held))
}

// ReplaceGrants handles PUT /boards/{boardId}/permissions/{userId}
func (h *PermissionHandler) ReplaceGrants(w http.ResponseWriter, r *http.Request) {
	requesterID := middleware.GetUserID(r.Context())

	boardID, ok := pathID(r, "boardId")
	if !ok {
		respondError(w, kanban.InvalidData("Invalid board ID"))
		return
	}
	subjectID, ok := pathID(r, "userId")
	if !ok {
		respondError(w, kanban.InvalidData("Invalid user ID"))
		return
	}

	var req ReplaceGrantsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, dto.ErrInvalidBody)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}

	if err := h.perms.CheckPair(r.Context(), boardID, subjectID); err != nil {
		respondError(w, err)
		return
	}

	allowed, err := h.perms.Authorize(r.Context(), boardID, requesterID, models.CapabilityPermissionManage)
	if err != nil {
		respondError(w, err)
		return
	}
	if !allowed {
		respondError(w, kanban.Forbidden("No permission to assign the permissions"))
		return
	}

	if err := h.perms.ReplaceGrants(r.Context(), boardID, subjectID, req.Permissions); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClearGrants handles DELETE /boards/{boardId}/permissions/{userId}
func (h *PermissionHandler) ClearGrants(w http.ResponseWriter, r *http.Request) {
	requesterID := middleware.GetUserID(r.Context())

	boardID, ok := pathID(r, "boardId")
	if !ok {
		respondError(w, kanban.InvalidData("Invalid board ID"))
		return
	}
	subjectID, ok := pathID(r, "userId")
	if !ok {
		respondError(w, kanban.InvalidData("Invalid user ID"))
		return
	}

	if err := h.perms.CheckPair(r.Context(), boardID, subjectID); err != nil {
		respondError(w, err)
		return
	}

	allowed, err := h.perms.Authorize(r.Context(), boardID, requesterID, models.CapabilityPermissionManage)
	if err != nil {
		respondError(w, err)
		return
	}
	if !allowed {
		respondError(w, kanban.Forbidden("No permission to revoke the permissions"))
		return
	}

	if err := h.perms.ClearGrants(r.Context(), boardID, subjectID); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
