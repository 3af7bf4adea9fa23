package dto

import (
	"net/url"
	"strconv"

	"github.com/kanbanlab/goban/internal/kanban"
)

// ErrInvalidBody is the uniform 400 returned for malformed or incomplete
// request bodies. Field-level detail is deliberately not exposed.
var ErrInvalidBody = kanban.InvalidData("Invalid request body")

// ErrorResponse is the error envelope every endpoint returns.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// ListParams carries offset/limit pagination for collection endpoints.
type ListParams struct {
	Offset int
	Limit  int
}

const (
	defaultLimit = 20
	maxLimit     = 1000
)

// ParseListParams reads offset and limit from the query string. Absent
// values fall back to offset 0 and limit 20.
func ParseListParams(q url.Values) (ListParams, error) {
	p := ListParams{Limit: defaultLimit}

	if raw := q.Get("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return p, kanban.InvalidData("Invalid pagination parameters")
		}
		p.Offset = v
	}

	if raw := q.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > maxLimit {
			return p, kanban.InvalidData("Invalid pagination parameters")
		}
		p.Limit = v
	}

	return p, nil
}
