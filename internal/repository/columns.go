package repository

import (
	"context"
	"errors"

	"github.com/kanbanlab/goban/internal/database/models"
	"github.com/kanbanlab/goban/internal/kanban"
	"gorm.io/gorm"
)

type columnRepository struct {
	db *gorm.DB
}

var _ ColumnRepository = (*columnRepository)(nil)

func NewColumnRepository(db *gorm.DB) ColumnRepository {
	return &columnRepository{db: db}
}

func (r *columnRepository) SaveToBoard(ctx context.Context, column *models.Column, boardID uint) error {
	if column.Name == "" {
		return kanban.ErrRequiredFields
	}

	if err := boardExists(ctx, r.db, boardID); err != nil {
		return err
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Column{}).
		Where("board_id = ? AND name = ?", boardID, column.Name).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return kanban.AlreadyExistsf("Column with name %q already exists in board with id %d", column.Name, boardID)
	}

	column.BoardID = boardID
	return r.db.WithContext(ctx).Create(column).Error
}

func (r *columnRepository) FindByIDs(ctx context.Context, boardID, columnID uint) (*models.Column, error) {
	if err := boardExists(ctx, r.db, boardID); err != nil {
		return nil, err
	}

	var column models.Column
	err := r.db.WithContext(ctx).
		Where("id = ? AND board_id = ?", columnID, boardID).
		First(&column).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, kanban.NotFoundf("Column with id %d does not exist in board with id %d", columnID, boardID)
	}
	if err != nil {
		return nil, err
	}
	return &column, nil
}

func (r *columnRepository) FindByIDsWithTasks(ctx context.Context, boardID, columnID uint) (*models.Column, error) {
	if err := boardExists(ctx, r.db, boardID); err != nil {
		return nil, err
	}

	var column models.Column
	err := r.db.WithContext(ctx).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("tasks.id") }).
		Where("id = ? AND board_id = ?", columnID, boardID).
		First(&column).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, kanban.NotFoundf("Column with id %d does not exist in board with id %d", columnID, boardID)
	}
	if err != nil {
		return nil, err
	}
	return &column, nil
}

func (r *columnRepository) ListByBoard(ctx context.Context, boardID uint) ([]models.Column, error) {
	if err := boardExists(ctx, r.db, boardID); err != nil {
		return nil, err
	}

	columns := make([]models.Column, 0)
	err := r.db.WithContext(ctx).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("tasks.id") }).
		Where("board_id = ?", boardID).
		Order("id").
		Find(&columns).Error
	if err != nil {
		return nil, err
	}
	return columns, nil
}

func (r *columnRepository) Update(ctx context.Context, column *models.Column) error {
	if column.Name == "" {
		return kanban.ErrRequiredFields
	}

	// Renames get the same friendly conflict as inserts; the composite
	// unique index stays as a backstop.
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Column{}).
		Where("board_id = ? AND name = ? AND id <> ?", column.BoardID, column.Name, column.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return kanban.AlreadyExistsf("Column with name %q already exists in board with id %d", column.Name, column.BoardID)
	}

	return r.db.WithContext(ctx).Save(column).Error
}

func (r *columnRepository) Delete(ctx context.Context, boardID, columnID uint) error {
	column, err := r.FindByIDs(ctx, boardID, columnID)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("column_id = ?", column.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		return tx.Delete(column).Error
	})
}
