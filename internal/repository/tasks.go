package repository

import (
	"context"
	"errors"

	"github.com/kanbanlab/goban/internal/database/models"
	"github.com/kanbanlab/goban/internal/kanban"
	"gorm.io/gorm"
)

type taskRepository struct {
	db *gorm.DB
}

var _ TaskRepository = (*taskRepository)(nil)

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) SaveToBoard(ctx context.Context, task *models.Task, boardID uint) error {
	if task.Name == "" || task.ColumnID == 0 {
		return kanban.ErrRequiredFields
	}

	if err := boardExists(ctx, r.db, boardID); err != nil {
		return err
	}

	// Column membership is checked before name uniqueness: a missing column
	// is NotFound even when the name would also collide.
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Column{}).
		Where("id = ? AND board_id = ?", task.ColumnID, boardID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return kanban.NotFoundf("Column with id %d does not exist in board with id %d", task.ColumnID, boardID)
	}

	if err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("column_id = ? AND name = ?", task.ColumnID, task.Name).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return kanban.AlreadyExistsf("Task with name %q already exists in column with id %d", task.Name, task.ColumnID)
	}

	task.BoardID = boardID
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) FindByIDs(ctx context.Context, boardID, taskID uint) (*models.Task, error) {
	if err := boardExists(ctx, r.db, boardID); err != nil {
		return nil, err
	}

	var task models.Task
	err := r.db.WithContext(ctx).
		Where("id = ? AND board_id = ?", taskID, boardID).
		First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, kanban.NotFoundf("Task with id %d does not exist in board with id %d", taskID, boardID)
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) ListByBoard(ctx context.Context, boardID uint) ([]models.Task, error) {
	if err := boardExists(ctx, r.db, boardID); err != nil {
		return nil, err
	}

	tasks := make([]models.Task, 0)
	err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("id").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	if task.Name == "" || task.ColumnID == 0 {
		return kanban.ErrRequiredFields
	}

	// A merged task may point at a different column; it must still belong to
	// the task's board.
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Column{}).
		Where("id = ? AND board_id = ?", task.ColumnID, task.BoardID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return kanban.Inconsistentf("Column with id %d does not exist in board with id %d", task.ColumnID, task.BoardID)
	}

	if err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("column_id = ? AND name = ? AND id <> ?", task.ColumnID, task.Name, task.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return kanban.AlreadyExistsf("Task with name %q already exists in column with id %d", task.Name, task.ColumnID)
	}

	return r.db.WithContext(ctx).Save(task).Error
}

func (r *taskRepository) Delete(ctx context.Context, boardID, taskID uint) error {
	task, err := r.FindByIDs(ctx, boardID, taskID)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(task).Error
}
