package models

// Capability names one permission of the closed catalog. Grants reference
// capabilities by name; the catalog itself lives in code, not in the
// database.
type Capability string

const (
	CapabilityBoardView        Capability = "BOARD_VIEW"
	CapabilityBoardEdit        Capability = "BOARD_EDIT"
	CapabilityBoardDelete      Capability = "BOARD_DELETE"
	CapabilityColumnCreate     Capability = "COLUMN_CREATE"
	CapabilityColumnEdit       Capability = "COLUMN_EDIT"
	CapabilityColumnDelete     Capability = "COLUMN_DELETE"
	CapabilityTaskCreate       Capability = "TASK_CREATE"
	CapabilityTaskEdit         Capability = "TASK_EDIT"
	CapabilityTaskDelete       Capability = "TASK_DELETE"
	CapabilityTaskAssign       Capability = "TASK_ASSIGN"
	CapabilityPermissionView   Capability = "PERMISSION_VIEW"
	CapabilityPermissionManage Capability = "PERMISSION_MANAGE"
)

// Permission is one catalog entry. IDs are stable across releases.
type Permission struct {
	ID          uint       `json:"id"`
	Name        Capability `json:"name"`
	Description string     `json:"description"`
}

var catalog = []Permission{
	{ID: 1, Name: CapabilityBoardView, Description: "Allows for viewing the board, its columns and tasks."},
	{ID: 2, Name: CapabilityBoardEdit, Description: "Allows for changing the name and visibility of the board."},
	{ID: 3, Name: CapabilityBoardDelete, Description: "Allows for deleting the board."},
	{ID: 4, Name: CapabilityColumnCreate, Description: "Allows for creating columns."},
	{ID: 5, Name: CapabilityColumnEdit, Description: "Allows for renaming columns."},
	{ID: 6, Name: CapabilityColumnDelete, Description: "Allows for deleting columns."},
	{ID: 7, Name: CapabilityTaskCreate, Description: "Allows for creating tasks."},
	{ID: 8, Name: CapabilityTaskEdit, Description: "Allows for modifying tasks."},
	{ID: 9, Name: CapabilityTaskDelete, Description: "Allows for deleting tasks."},
	{ID: 10, Name: CapabilityTaskAssign, Description: "Allows the user to be assigned to tasks."},
	{ID: 11, Name: CapabilityPermissionView, Description: "Allows for listing permissions of users within the board."},
	{ID: 12, Name: CapabilityPermissionManage, Description: "Allows for granting and revoking permissions within the board."},
}

// Catalog returns the full capability catalog in stable order.
func Catalog() []Permission {
	out := make([]Permission, len(catalog))
	copy(out, catalog)
	return out
}

// Capabilities returns the catalog names in catalog order.
func Capabilities() []Capability {
	out := make([]Capability, len(catalog))
	for i, p := range catalog {
		out[i] = p.Name
	}
	return out
}

// PermissionByName looks a catalog entry up by capability name.
func PermissionByName(name Capability) (Permission, bool) {
	for _, p := range catalog {
		if p.Name == name {
			return p, true
		}
	}
	return Permission{}, false
}

// UserBoardPermission is one granted capability for a (board, user) pair.
type UserBoardPermission struct {
	Base
	BoardID uint       `gorm:"not null;uniqueIndex:idx_grants_board_user_name" json:"board_id"`
	UserID  uint       `gorm:"not null;index;uniqueIndex:idx_grants_board_user_name" json:"user_id"`
	Name    Capability `gorm:"not null;uniqueIndex:idx_grants_board_user_name" json:"name"`
}

func (UserBoardPermission) TableName() string {
	return "user_board_permissions"
}
