// Package perms is the authorization component. It owns the capability
// catalog, the per-(board, user) grant sets, and the Authorize chokepoint
// every guarded endpoint consults.
package perms

import (
	"context"
	"strings"

	"github.com/kanbanlab/goban/internal/database/models"
	"github.com/kanbanlab/goban/internal/kanban"
	"github.com/kanbanlab/goban/internal/repository"
)

type Service struct {
	grants repository.GrantRepository
	boards repository.BoardRepository
	users  repository.UserRepository
}

func NewService(grants repository.GrantRepository, boards repository.BoardRepository, users repository.UserRepository) *Service {
	return &Service{grants: grants, boards: boards, users: users}
}

// Catalog returns every capability that can be granted.
func (s *Service) Catalog() []models.Permission {
	return models.Catalog()
}

// CheckPair validates that the board and the user exist, board first.
// Handlers call it to settle NotFound before any Forbidden outcome.
func (s *Service) CheckPair(ctx context.Context, boardID, userID uint) error {
	if _, err := s.boards.FindByID(ctx, boardID); err != nil {
		return err
	}

	ok, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return kanban.NotFoundf("User with id %d does not exist", userID)
	}
	return nil
}

// ListGrants returns the catalog entries the user holds on the board, in
// catalog order. A pair with no grants yields an empty set, not an error.
func (s *Service) ListGrants(ctx context.Context, boardID, userID uint) ([]models.Permission, error) {
	if err := s.CheckPair(ctx, boardID, userID); err != nil {
		return nil, err
	}

	held, err := s.grants.List(ctx, boardID, userID)
	if err != nil {
		return nil, err
	}

	out := make([]models.Permission, 0, len(held))
	for _, c := range held {
		if p, ok := models.PermissionByName(c); ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// ReplaceGrants swaps the user's grant set on the board for the named one.
// Unknown names fail the whole request before anything is written; an empty
// list is a valid replacement that revokes everything.
func (s *Service) ReplaceGrants(ctx context.Context, boardID, userID uint, names []string) error {
	if err := s.CheckPair(ctx, boardID, userID); err != nil {
		return err
	}

	caps := make([]models.Capability, 0, len(names))
	seen := make(map[models.Capability]bool, len(names))
	var unknown []string
	for _, n := range names {
		c := models.Capability(n)
		if _, ok := models.PermissionByName(c); !ok {
			unknown = append(unknown, n)
			continue
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		caps = append(caps, c)
	}
	if len(unknown) > 0 {
		return kanban.Inconsistentf("Permissions [%s] do not exist", strings.Join(unknown, ", "))
	}

	return s.grants.Replace(ctx, boardID, userID, caps)
}

// ClearGrants revokes every capability the user holds on the board.
func (s *Service) ClearGrants(ctx context.Context, boardID, userID uint) error {
	if err := s.CheckPair(ctx, boardID, userID); err != nil {
		return err
	}

	cleared, err := s.grants.Clear(ctx, boardID, userID)
	if err != nil {
		return err
	}
	if !cleared {
		return kanban.NotFoundf("User with id %d has no permissions assigned in board with id %d", userID, boardID)
	}
	return nil
}

// Authorize reports whether the user holds the capability on the board.
// Callers turn a false into Forbidden with a capability-specific message.
func (s *Service) Authorize(ctx context.Context, boardID, userID uint, capability models.Capability) (bool, error) {
	return s.grants.Has(ctx, boardID, userID, capability)
}

// CanView implements the visibility rule: public boards are readable by any
// authenticated user, private boards need BOARD_VIEW.
func (s *Service) CanView(ctx context.Context, board *models.Board, userID uint) (bool, error) {
	if board.Visibility == models.VisibilityPublic {
		return true, nil
	}
	return s.Authorize(ctx, board.ID, userID, models.CapabilityBoardView)
}

// CanBeAssigned checks that the user exists and holds TASK_ASSIGN on the
// board. Failures are InconsistentData: a bad assignee is a conflict in the
// request, not a missing resource.
func (s *Service) CanBeAssigned(ctx context.Context, boardID, userID uint) error {
	ok, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return kanban.Inconsistentf("User with id %d does not exist", userID)
	}

	assignable, err := s.Authorize(ctx, boardID, userID, models.CapabilityTaskAssign)
	if err != nil {
		return err
	}
	if !assignable {
		return kanban.Inconsistentf("User with id %d cannot be assigned to a task", userID)
	}
	return nil
}
