package models

type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

func (v Visibility) Valid() bool {
	return v == VisibilityPrivate || v == VisibilityPublic
}

type Board struct {
	Base
	Name       string     `gorm:"not null" json:"name"`
	Visibility Visibility `gorm:"not null" json:"visibility"`

	// Relationships
	Columns []Column `gorm:"foreignKey:BoardID" json:"columns,omitempty"`
}

func (Board) TableName() string {
	return "boards"
}

// BoardPatch carries the mutable fields of a partial update. A nil field
// means leave unchanged.
type BoardPatch struct {
	Name       *string
	Visibility *Visibility
}

// Merge copies the patch's non-nil fields onto the board. The id is never
// copied.
func (b *Board) Merge(p BoardPatch) {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Visibility != nil {
		b.Visibility = *p.Visibility
	}
}
