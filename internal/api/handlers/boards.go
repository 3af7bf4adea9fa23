package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/kanbanlab/goban/internal/api/dto"
	"github.com/kanbanlab/goban/internal/api/middleware"
	"github.com/kanbanlab/goban/internal/database/models"
	"github.com/kanbanlab/goban/internal/kanban"
	"github.com/kanbanlab/goban/internal/perms"
	"github.com/kanbanlab/goban/internal/repository"
)

type BoardHandler struct {
	boards repository.BoardRepository
	perms  *perms.Service
}

func NewBoardHandler(boards repository.BoardRepository, permsService *perms.Service) *BoardHandler {
	return &BoardHandler{boards: boards, perms: permsService}
}

// CreateBoardRequest represents the request to create a board
type CreateBoardRequest struct {
	Name       string `json:"name"`
	Visibility string `json:"visibility"`
}

func (r CreateBoardRequest) Validate() error {
	if r.Name == "" || r.Visibility == "" {
		return dto.ErrInvalidBody
	}
	if !models.Visibility(r.Visibility).Valid() {
		return dto.ErrInvalidBody
	}
	return nil
}

// UpdateBoardRequest carries the PATCH body; absent fields stay untouched.
type UpdateBoardRequest struct {
	Name       *string `json:"name"`
	Visibility *string `json:"visibility"`
}

func (r UpdateBoardRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return dto.ErrInvalidBody
	}
	if r.Visibility != nil && !models.Visibility(*r.Visibility).Valid() {
		return dto.ErrInvalidBody
	}
	return nil
}

func (r UpdateBoardRequest) patch() models.BoardPatch {
	p := models.BoardPatch{Name: r.Name}
	if r.Visibility != nil {
		v := models.Visibility(*r.Visibility)
		p.Visibility = &v
	}
	return p
}

// BoardResponse is the nested board dump every board endpoint returns.
type BoardResponse struct {
	ID         uint             `json:"id"`
	Name       string           `json:"name"`
	Visibility string           `json:"visibility"`
	Columns    []ColumnResponse `json:"columns"`
}

// BoardListResponse wraps a page of boards.
type BoardListResponse struct {
	Boards []BoardResponse `json:"boards"`
}

func boardToResponse(board *models.Board) BoardResponse {
	columns := make([]ColumnResponse, len(board.Columns))
	for i := range board.Columns {
		columns[i] = columnToResponse(&board.Columns[i])
	}
	return BoardResponse{
		ID:         board.ID,
		Name:       board.Name,
		Visibility: string(board.Visibility),
		Columns:    columns,
	}
}

// pathID parses the named URL parameter as an entity id.
func pathID(r *http.Request, name string) (uint, bool) {
	v, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(v), true
}

// Create handles POST /boards
func (h *BoardHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateBoardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, dto.ErrInvalidBody)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}

	board := models.Board{
		Name:       req.Name,
		Visibility: models.Visibility(req.Visibility),
	}
	if err := h.boards.Create(r.Context(), &board, userID); err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/boards/%d", board.ID))
	writeJSON(w, http.StatusCreated, boardToResponse(&board))
}

// List handles GET /boards
func (h *BoardHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	params, err := dto.ParseListParams(r.URL.Query())
	if err != nil {
		respondError(w, err)
		return
	}

	boards, err := h.boards.List(r.Context(), userID, params.Offset, params.Limit)
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]BoardResponse, len(boards))
	for i := range boards {
		out[i] = boardToResponse(&boards[i])
	}
	writeJSON(w, http.StatusOK, BoardListResponse{Boards: out})
}

// Get handles GET /boards/{boardId}
func (h *BoardHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	boardID, ok := pathID(r, "boardId")
	if !ok {
		respondError(w, kanban.InvalidData("Invalid board ID"))
		return
	}

	// Locate before authorizing: a missing board is 404 even for strangers.
	board, err := h.boards.FindByIDWithContents(r.Context(), boardID)
	if err != nil {
		respondError(w, err)
		return
	}

	allowed, err := h.perms.CanView(r.Context(), board, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	if !allowed {
		respondError(w, kanban.Forbidden("No permission to retrieve the board"))
		return
	}

	writeJSON(w, http.StatusOK, boardToResponse(board))
}

// Update handles PATCH /boards/{boardId}
func (h *BoardHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	boardID, ok := pathID(r, "boardId")
	if !ok {
		respondError(w, kanban.InvalidData("Invalid board ID"))
		return
	}

	var req UpdateBoardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, dto.ErrInvalidBody)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}

	board, err := h.boards.FindByID(r.Context(), boardID)
	if err != nil {
		respondError(w, err)
		return
	}

	allowed, err := h.perms.Authorize(r.Context(), boardID, userID, models.CapabilityBoardEdit)
	if err != nil {
		respondError(w, err)
		return
	}
	if !allowed {
		respondError(w, kanban.Forbidden("No permission to modify the board"))
		return
	}

	board.Merge(req.patch())
	if err := h.boards.Update(r.Context(), board); err != nil {
		respondError(w, err)
		return
	}

	updated, err := h.boards.FindByIDWithContents(r.Context(), boardID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, boardToResponse(updated))
}

// Delete handles DELETE /boards/{boardId}
func (h *BoardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	boardID, ok := pathID(r, "boardId")
	if !ok {
		respondError(w, kanban.InvalidData("Invalid board ID"))
		return
	}

	if _, err := h.boards.FindByID(r.Context(), boardID); err != nil {
		respondError(w, err)
		return
	}

	allowed, err := h.perms.Authorize(r.Context(), boardID, userID, models.CapabilityBoardDelete)
	if err != nil {
		respondError(w, err)
		return
	}
	if !allowed {
		respondError(w, kanban.Forbidden("No permission to delete the board"))
		return
	}

	if err := h.boards.Delete(r.Context(), boardID); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
