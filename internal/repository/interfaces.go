// Package repository is the data-access layer. One interface per entity;
// implementations are gorm-backed and return kanban errors, so callers never
// see raw database failures for domain outcomes.
package repository

import (
	"context"

	"github.com/kanbanlab/goban/internal/database/models"
)

type UserRepository interface {
	// Create persists a new user. Fails InvalidData when a required field is
	// missing and AlreadyExists when the name or email is taken.
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByName(ctx context.Context, name string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByID(ctx context.Context, id uint) (bool, error)
}

type BoardRepository interface {
	// Create persists the board and grants its creator the full capability
	// catalog, both in one transaction.
	Create(ctx context.Context, board *models.Board, creatorID uint) error
	FindByID(ctx context.Context, id uint) (*models.Board, error)
	// FindByIDWithContents loads the board together with its columns and
	// their tasks, both ordered by id.
	FindByIDWithContents(ctx context.Context, id uint) (*models.Board, error)
	// List returns public boards plus boards on which the user holds
	// BOARD_VIEW, ordered by id.
	List(ctx context.Context, userID uint, offset, limit int) ([]models.Board, error)
	Update(ctx context.Context, board *models.Board) error
	// Delete removes the board with its columns, tasks and grant rows in one
	// transaction.
	Delete(ctx context.Context, id uint) error
}

type ColumnRepository interface {
	// SaveToBoard persists the column into the board, enforcing per-board
	// name uniqueness.
	SaveToBoard(ctx context.Context, column *models.Column, boardID uint) error
	// FindByIDs locates a column by (board, column) and reports which of the
	// two is missing.
	FindByIDs(ctx context.Context, boardID, columnID uint) (*models.Column, error)
	FindByIDsWithTasks(ctx context.Context, boardID, columnID uint) (*models.Column, error)
	// ListByBoard returns the board's columns with their tasks, ordered by id.
	ListByBoard(ctx context.Context, boardID uint) ([]models.Column, error)
	Update(ctx context.Context, column *models.Column) error
	// Delete removes the column and its tasks in one transaction.
	Delete(ctx context.Context, boardID, columnID uint) error
}

type TaskRepository interface {
	// SaveToBoard persists the task into the board. Board and column
	// existence are checked before column-scoped name uniqueness.
	SaveToBoard(ctx context.Context, task *models.Task, boardID uint) error
	// FindByIDs locates a task by (board, task) and reports which of the two
	// is missing.
	FindByIDs(ctx context.Context, boardID, taskID uint) (*models.Task, error)
	// ListByBoard returns the board's tasks across all columns, ordered by id.
	ListByBoard(ctx context.Context, boardID uint) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, boardID, taskID uint) error
}

// GrantRepository stores which capabilities a user holds on a board.
type GrantRepository interface {
	// List returns the held capabilities in catalog order. No rows means an
	// empty set, not an error.
	List(ctx context.Context, boardID, userID uint) ([]models.Capability, error)
	// Replace swaps the grant set wholesale in one transaction. An empty set
	// revokes everything.
	Replace(ctx context.Context, boardID, userID uint, caps []models.Capability) error
	// Clear removes every grant for the pair and reports whether any existed.
	Clear(ctx context.Context, boardID, userID uint) (bool, error)
	Has(ctx context.Context, boardID, userID uint, capability models.Capability) (bool, error)
}
