package models

import "time"

// Base model with autoincrement primary key and timestamps. Deletes are
// hard deletes: per-board name uniqueness must be reusable after a delete,
// and cascades run as explicit transactional statements.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
