package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kanbanlab/goban/internal/api/dto"
	"github.com/kanbanlab/goban/internal/api/middleware"
	"github.com/kanbanlab/goban/internal/api/validation"
	"github.com/kanbanlab/goban/internal/database/models"
	"github.com/kanbanlab/goban/internal/kanban"
	"github.com/kanbanlab/goban/internal/perms"
	"github.com/kanbanlab/goban/internal/repository"
)

type TaskHandler struct {
	tasks   repository.TaskRepository
	columns repository.ColumnRepository
	boards  repository.BoardRepository
	perms   *perms.Service
}

func NewTaskHandler(tasks repository.TaskRepository, columns repository.ColumnRepository, boards repository.BoardRepository, permsService *perms.Service) *TaskHandler {
	return &TaskHandler{tasks: tasks, columns: columns, boards: boards, perms: permsService}
}

// CreateTaskRequest represents the request to create a task
type CreateTaskRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ColumnID    uint   `json:"column_id"`
	UserID      *uint  `json:"user_id"`
}

func (r CreateTaskRequest) Validate() error {
	if r.Name == "" || r.ColumnID == 0 {
		return dto.ErrInvalidBody
	}
	return nil
}

// UpdateTaskRequest carries the PATCH body; absent fields stay untouched.
// An assignee can be changed but not removed.
type UpdateTaskRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ColumnID    *uint   `json:"column_id"`
	UserID      *uint   `json:"user_id"`
}

func (r UpdateTaskRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return dto.ErrInvalidBody
	}
	if r.ColumnID != nil && *r.ColumnID == 0 {
		return dto.ErrInvalidBody
	}
	return nil
}

func (r UpdateTaskRequest) patch() models.TaskPatch {
	p := models.TaskPatch{
		Name:     r.Name,
		ColumnID: r.ColumnID,
		UserID:   r.UserID,
	}
	if r.Description != nil {
		clean := validation.SanitizeString(*r.Description)
		p.Description = &clean
	}
	return p
}

// TaskResponse represents a task in API responses
type TaskResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ColumnID    uint   `json:"column_id"`
	UserID      *uint  `json:"user_id,omitempty"`
}

// TaskListResponse wraps a board's tasks.
type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

func taskToResponse(task *models.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		ColumnID:    task.ColumnID,
		UserID:      task.UserID,
	}
}

// List handles GET /boards/{boardId}/tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
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
		respondError(w, kanban.Forbidden("No permission to list the tasks"))
		return
	}

	tasks, err := h.tasks.ListByBoard(r.Context(), boardID)
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]TaskResponse, len(tasks))
	for i := range tasks {
		out[i] = taskToResponse(&tasks[i])
	}
	writeJSON(w, http.StatusOK, TaskListResponse{Tasks: out})
}

// Create handles POST /boards/{boardId}/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	boardID, ok := pathID(r, "boardId")
	if !ok {
		respondError(w, kanban.InvalidData("Invalid board ID"))
		return
	}

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, dto.ErrInvalidBody)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}

	if _, err := h.boards.FindByID(r.Context(), boardID); err != nil {
		respondError(w, err)
		return
	}

	allowed, err := h.perms.Authorize(r.Context(), boardID, userID, models.CapabilityTaskCreate)
	if err != nil {
		respondError(w, err)
		return
	}
	if !allowed {
		respondError(w, kanban.Forbidden("No permission to create the task"))
		return
	}

	// The target column is resolved before the assignee so a missing column
	// stays NotFound rather than surfacing as an assignment conflict.
	if _, err := h.columns.FindByIDs(r.Context(), boardID, req.ColumnID); err != nil {
		respondError(w, err)
		return
	}

	if req.UserID != nil {
		if err := h.perms.CanBeAssigned(r.Context(), boardID, *req.UserID); err != nil {
			respondError(w, err)
			return
		}
	}

	task := models.Task{
		Name:        req.Name,
		Description: validation.SanitizeString(req.Description),
		ColumnID:    req.ColumnID,
		UserID:      req.UserID,
	}
	if err := h.tasks.SaveToBoard(r.Context(), &task, boardID); err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/boards/%d/tasks/%d", boardID, task.ID))
	writeJSON(w, http.StatusCreated, taskToResponse(&task))
}

// Get handles GET /boards/{boardId}/tasks/{taskId}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	boardID, ok := pathID(r, "boardId")
	if !ok {
		respondError(w, kanban.InvalidData("Invalid board ID"))
		return
	}
	taskID, ok := pathID(r, "taskId")
	if !ok {
		respondError(w, kanban.InvalidData("Invalid task ID"))
		return
	}

	task, err := h.tasks.FindByIDs(r.Context(), boardID, taskID)
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
		respondError(w, kanban.Forbidden("No permission to retrieve the task"))
		return
	}

	writeJSON(w, http.StatusOK, taskToResponse(task))
}

// Update handles PATCH /boards/{boardId}/tasks/{taskId}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	boardID, ok := pathID(r, "boardId")
	if !ok {
		respondError(w, kanban.InvalidData("Invalid board ID"))
		return
	}
	taskID, ok := pathID(r, "taskId")
	if !ok {
		respondError(w, kanban.InvalidData("Invalid task ID"))
		return
	}

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, dto.ErrInvalidBody)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}

	task, err := h.tasks.FindByIDs(r.Context(), boardID, taskID)
	if err != nil {
		respondError(w, err)
		return
	}

	allowed, err := h.perms.Authorize(r.Context(), boardID, userID, models.CapabilityTaskEdit)
	if err != nil {
		respondError(w, err)
		return
	}
	if !allowed {
		respondError(w, kanban.Forbidden("No permission to modify the task"))
		return
	}

	if req.UserID != nil {
		if err := h.perms.CanBeAssigned(r.Context(), boardID, *req.UserID); err != nil {
			respondError(w, err)
			return
		}
	}

	task.Merge(req.patch())
	if err := h.tasks.Update(r.Context(), task); err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, taskToResponse(task))
}

// Delete handles DELETE /boards/{boardId}/tasks/{taskId}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	boardID, ok := pathID(r, "boardId")
	if !ok {
		respondError(w, kanban.InvalidData("Invalid board ID"))
		return
	}
	taskID, ok := pathID(r, "taskId")
	if !ok {
		respondError(w, kanban.InvalidData("Invalid task ID"))
		return
	}

	if _, err := h.tasks.FindByIDs(r.Context(), boardID, taskID); err != nil {
		respondError(w, err)
		return
	}

	allowed, err := h.perms.Authorize(r.Context(), boardID, userID, models.CapabilityTaskDelete)
	if err != nil {
		respondError(w, err)
		return
	}
	if !allowed {
		respondError(w, kanban.Forbidden("No permission to delete the task"))
		return
	}

	if err := h.tasks.Delete(r.Context(), boardID, taskID); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
