package models

type Column struct {
	Base
	Name    string `gorm:"not null;uniqueIndex:idx_columns_board_name" json:"name"`
	BoardID uint   `gorm:"not null;index;uniqueIndex:idx_columns_board_name" json:"board_id"`

	// Relationships
	Tasks []Task `gorm:"foreignKey:ColumnID" json:"tasks,omitempty"`
}

func (Column) TableName() string {
	return "columns"
}

// ColumnPatch carries the mutable fields of a partial update. A nil field
// means leave unchanged.
type ColumnPatch struct {
	Name *string
}

// Merge copies the patch's non-nil fields onto the column. Neither the id
// nor the board id is ever copied.
func (c *Column) Merge(p ColumnPatch) {
	if p.Name != nil {
		c.Name = *p.Name
	}
}
