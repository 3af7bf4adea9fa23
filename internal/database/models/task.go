package models

type Task struct {
	Base
	Name        string `gorm:"not null;uniqueIndex:idx_tasks_column_name" json:"name"`
	Description string `json:"description"`
	// BoardID is denormalized so a task can be located by (board, task)
	// without joining through its column.
	BoardID  uint  `gorm:"not null;index" json:"board_id"`
	ColumnID uint  `gorm:"not null;uniqueIndex:idx_tasks_column_name" json:"column_id"`
	UserID   *uint `gorm:"index" json:"user_id"`
}

func (Task) TableName() string {
	return "tasks"
}

// TaskPatch carries the mutable fields of a partial update. A nil field
// means leave unchanged.
type TaskPatch struct {
	Name        *string
	Description *string
	ColumnID    *uint
	UserID      *uint
}

// Merge copies the patch's non-nil fields onto the task. Neither the id nor
// the board id is ever copied.
func (t *Task) Merge(p TaskPatch) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.ColumnID != nil {
		t.ColumnID = *p.ColumnID
	}
	if p.UserID != nil {
		t.UserID = p.UserID
	}
}
