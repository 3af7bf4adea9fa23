package repository

import (
	"context"
	"errors"

	"github.com/kanbanlab/goban/internal/database/models"
	"github.com/kanbanlab/goban/internal/kanban"
	"gorm.io/gorm"
)

type boardRepository struct {
	db *gorm.DB
}

var _ BoardRepository = (*boardRepository)(nil)

func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &boardRepository{db: db}
}

// boardExists produces the canonical NotFound failure for a missing board.
// Shared by the column, task and grant paths so the message stays identical
// everywhere.
func boardExists(ctx context.Context, db *gorm.DB, boardID uint) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Board{}).
		Where("id = ?", boardID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return kanban.NotFoundf("Board with id %d does not exist", boardID)
	}
	return nil
}

func (r *boardRepository) Create(ctx context.Context, board *models.Board, creatorID uint) error {
	if board.Name == "" || !board.Visibility.Valid() {
		return kanban.ErrRequiredFields
	}

	// Creating a board and seeding its creator's grants is one transaction:
	// a board without an administrator must never be observable.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(board).Error; err != nil {
			return err
		}

		capabilities := models.Capabilities()
		grants := make([]models.UserBoardPermission, 0, len(capabilities))
		for _, c := range capabilities {
			grants = append(grants, models.UserBoardPermission{
				BoardID: board.ID,
				UserID:  creatorID,
				Name:    c,
			})
		}
		return tx.Create(&grants).Error
	})
}

func (r *boardRepository) FindByID(ctx context.Context, id uint) (*models.Board, error) {
	var board models.Board
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&board).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, kanban.NotFoundf("Board with id %d does not exist", id)
	}
	if err != nil {
		return nil, err
	}
	return &board, nil
}

func (r *boardRepository) FindByIDWithContents(ctx context.Context, id uint) (*models.Board, error) {
	var board models.Board
	err := r.db.WithContext(ctx).
		Preload("Columns", func(db *gorm.DB) *gorm.DB { return db.Order("columns.id") }).
		Preload("Columns.Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("tasks.id") }).
		Where("id = ?", id).
		First(&board).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, kanban.NotFoundf("Board with id %d does not exist", id)
	}
	if err != nil {
		return nil, err
	}
	return &board, nil
}

func (r *boardRepository) List(ctx context.Context, userID uint, offset, limit int) ([]models.Board, error) {
	viewable := r.db.Model(&models.UserBoardPermission{}).
		Select("board_id").
		Where("user_id = ? AND name = ?", userID, models.CapabilityBoardView)

	boards := make([]models.Board, 0)
	err := r.db.WithContext(ctx).
		Preload("Columns", func(db *gorm.DB) *gorm.DB { return db.Order("columns.id") }).
		Preload("Columns.Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("tasks.id") }).
		Where("visibility = ? OR id IN (?)", models.VisibilityPublic, viewable).
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&boards).Error
	if err != nil {
		return nil, err
	}
	return boards, nil
}

func (r *boardRepository) Update(ctx context.Context, board *models.Board) error {
	if board.Name == "" || !board.Visibility.Valid() {
		return kanban.ErrRequiredFields
	}
	return r.db.WithContext(ctx).Save(board).Error
}

func (r *boardRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var board models.Board
		if err := tx.Where("id = ?", id).First(&board).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return kanban.NotFoundf("Board with id %d does not exist", id)
			}
			return err
		}

		if err := tx.Where("board_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id = ?", id).Delete(&models.Column{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id = ?", id).Delete(&models.UserBoardPermission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&board).Error
	})
}
