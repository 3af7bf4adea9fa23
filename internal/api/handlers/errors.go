package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/kanbanlab/goban/internal/api/dto"
	"github.com/kanbanlab/goban/internal/kanban"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusOf(err error) int {
	switch kanban.KindOf(err) {
	case kanban.KindInvalidData:
		return http.StatusBadRequest
	case kanban.KindUnauthorized:
		return http.StatusUnauthorized
	case kanban.KindForbidden:
		return http.StatusForbidden
	case kanban.KindNotFound:
		return http.StatusNotFound
	case kanban.KindAlreadyExists, kanban.KindInconsistentData:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError is the one place domain errors become wire responses. Errors
// without a known kind are logged and masked as a plain 500.
func respondError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("internal error", "error", err)
		message = "Internal server error"
	}
	writeJSON(w, status, dto.ErrorResponse{Status: status, Message: message})
}
