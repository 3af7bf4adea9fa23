package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kanbanlab/goban/internal/api/dto"
	"github.com/kanbanlab/goban/internal/api/middleware"
	"github.com/kanbanlab/goban/internal/database/models"
	"github.com/kanbanlab/goban/internal/kanban"
	"github.com/kanbanlab/goban/internal/perms"
	"github.com/kanbanlab/goban/internal/repository"
)

type ColumnHandler struct {
	columns repository.ColumnRepository
	boards  repository.BoardRepository
	perms   *perms.Service
}

func NewColumnHandler(columns repository.ColumnRepository, boards repository.BoardRepository, permsService *perms.Service) *ColumnHandler {
	return &ColumnHandler{columns: columns, boards: boards, perms: permsService}
}

// CreateColumnRequest represents the request to create a column
type CreateColumnRequest struct {
	Name string `json:"name"`
}

func (r CreateColumnRequest) Validate() error {
	if r.Name == "" {
		return dto.ErrInvalidBody
	}
	return nil
}

// UpdateColumnRequest carries the PATCH body; a column only renames.
type UpdateColumnRequest struct {
	Name *string `json:"name"`
}

func (r UpdateColumnRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return dto.ErrInvalidBody
	}
	return nil
}

// ColumnResponse is the column dump, tasks included.
type ColumnResponse struct {
	ID    uint           `json:"id"`
	Name  string         `json:"name"`
	Tasks []TaskResponse `json:"tasks"`
}

// ColumnListResponse wraps a board's columns.
type ColumnListResponse struct {
	Columns []ColumnResponse `json:"columns"`
}

func columnToResponse(column *models.Column) ColumnResponse {
	tasks := make([]TaskResponse, len(column.Tasks))
	for i := range column.Tasks {
		tasks[i] = taskToResponse(&column.Tasks[i])
	}
	return ColumnResponse{ID: column.ID, Name: column.Name, Tasks: tasks}
}

// canView reports whether the user may look inside the board, loading the
// board first so a missing board surfaces as NotFound rather than Forbidden.
func canView(r *http.Request, boards repository.BoardRepository, permsService *perms.Service, boardID, userID uint) (bool, error) {
	board, err := boards.FindByID(r.Context(), boardID)
	if err != nil {
		return false, err
	}
	return permsService.CanView(r.Context(), board, userID)
}

// List handles GET /boards/{boardId}/columns
func (h *ColumnHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	boardID, ok := pathID(r, "boardId")
	if !ok {
		respondError(w, kanban.InvalidData("Invalid board ID"))
		return
	}

	allowed, err := canView(r, h.boards, h.perms, boardID, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	if !allowed {
		respondError(w, kanban.Forbidden("No permission to list the columns"))
		return
	}

	columns, err := h.columns.ListByBoard(r.Context(), boardID)
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]ColumnResponse, len(columns))
	for i := range columns {
		out[i] = columnToResponse(&columns[i])
	}
	writeJSON(w, http.StatusOK, ColumnListResponse{Columns: out})
}

// Create handles POST /boards/{boardId}/columns
func (h *ColumnHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	boardID, ok := pathID(r, "boardId")
	if !ok {
		respondError(w, kanban.InvalidData("Invalid board ID"))
		return
	}

	var req CreateColumnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, dto.ErrInvalidBody)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}

	// The board is located before the permission check so a missing board
	// stays 404.
	if _, err := h.boards.FindByID(r.Context(), boardID); err != nil {
		respondError(w, err)
		return
	}

	allowed, err := h.perms.Authorize(r.Context(), boardID, userID, models.CapabilityColumnCreate)
	if err != nil {
		respondError(w, err)
		return
	}
	if !allowed {
		respondError(w, kanban.Forbidden("No permission to create the column"))
		return
	}

	column := models.Column{Name: req.Name}
	if err := h.columns.SaveToBoard(r.Context(), &column, boardID); err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/boards/%d/columns/%d", boardID, column.ID))
	writeJSON(w, http.StatusCreated, columnToResponse(&column))
}

// Get handles GET /boards/{boardId}/columns/{columnId}
func (h *ColumnHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	boardID, ok := pathID(r, "boardId")
	if !ok {
		respondError(w, kanban.InvalidData("Invalid board ID"))
		return
	}
	columnID, ok := pathID(r, "columnId")
	if !ok {
		respondError(w, kanban.InvalidData("Invalid column ID"))
		return
	}

	column, err := h.columns.FindByIDsWithTasks(r.Context(), boardID, columnID)
	if err != nil {
		respondError(w, err)
		return
	}

	allowed, err := canView(r, h.boards, h.perms, boardID, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	if !allowed {
		respondError(w, kanban.Forbidden("No permission to retrieve the column"))
		return
	}

	writeJSON(w, http.StatusOK, columnToResponse(column))
}

// Update handles PATCH /boards/{boardId}/columns/{columnId}
func (h *ColumnHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	boardID, ok := pathID(r, "boardId")
	if !ok {
		respondError(w, kanban.InvalidData("Invalid board ID"))
		return
	}
	columnID, ok := pathID(r, "columnId")
	if !ok {
		respondError(w, kanban.InvalidData("Invalid column ID"))
		return
	}

	var req UpdateColumnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, dto.ErrInvalidBody)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}

	column, err := h.columns.FindByIDs(r.Context(), boardID, columnID)
	if err != nil {
		respondError(w, err)
		return
	}

	allowed, err := h.perms.Authorize(r.Context(), boardID, userID, models.CapabilityColumnEdit)
	if err != nil {
		respondError(w, err)
		return
	}
	if !allowed {
		respondError(w, kanban.Forbidden("No permission to modify the column"))
		return
	}

	column.Merge(models.ColumnPatch{Name: req.Name})
	if err := h.columns.Update(r.Context(), column); err != nil {
		respondError(w, err)
		return
	}

	updated, err := h.columns.FindByIDsWithTasks(r.Context(), boardID, columnID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, columnToResponse(updated))
}

// Delete handles DELETE /boards/{boardId}/columns/{columnId}
func (h *ColumnHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	boardID, ok := pathID(r, "boardId")
	if !ok {
		respondError(w, kanban.InvalidData("Invalid board ID"))
		return
	}
	columnID, ok := pathID(r, "columnId")
	if !ok {
		respondError(w, kanban.InvalidData("Invalid column ID"))
		return
	}

	if _, err := h.columns.FindByIDs(r.Context(), boardID, columnID); err != nil {
		respondError(w, err)
		return
	}

	allowed, err := h.perms.Authorize(r.Context(), boardID, userID, models.CapabilityColumnDelete)
	if err != nil {
		respondError(w, err)
		return
	}
	if !allowed {
		respondError(w, kanban.Forbidden("No permission to delete the column"))
		return
	}

	if err := h.columns.Delete(r.Context(), boardID, columnID); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
