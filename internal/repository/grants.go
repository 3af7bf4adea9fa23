package repository

import (
	"context"

	"github.com/kanbanlab/goban/internal/database/models"
	"gorm.io/gorm"
)

type grantRepository struct {
	db *gorm.DB
}

var _ GrantRepository = (*grantRepository)(nil)

func NewGrantRepository(db *gorm.DB) GrantRepository {
	return &grantRepository{db: db}
}

func (r *grantRepository) List(ctx context.Context, boardID, userID uint) ([]models.Capability, error) {
	var rows []models.UserBoardPermission
	if err := r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	held := make(map[models.Capability]bool, len(rows))
	for _, g := range rows {
		held[g.Name] = true
	}

	// Catalog order, not insertion order.
	out := make([]models.Capability, 0, len(rows))
	for _, c := range models.Capabilities() {
		if held[c] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *grantRepository) Replace(ctx context.Context, boardID, userID uint, caps []models.Capability) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("board_id = ? AND user_id = ?", boardID, userID).
			Delete(&models.UserBoardPermission{}).Error; err != nil {
			return err
		}

		if len(caps) == 0 {
			return nil
		}

		rows := make([]models.UserBoardPermission, 0, len(caps))
		for _, c := range caps {
			rows = append(rows, models.UserBoardPermission{
				BoardID: boardID,
				UserID:  userID,
				Name:    c,
			})
		}
		return tx.Create(&rows).Error
	})
}

func (r *grantRepository) Clear(ctx context.Context, boardID, userID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Delete(&models.UserBoardPermission{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *grantRepository) Has(ctx context.Context, boardID, userID uint, capability models.Capability) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserBoardPermission{}).
		Where("board_id = ? AND user_id = ? AND name = ?", boardID, userID, capability).
		Count(&count).Error
	return count > 0, err
}
