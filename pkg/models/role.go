package models

// Role identifies the newsroom position attached to an authenticated caller.
// Roles are claims decoded upstream; this package never authenticates.
type Role string

const (
	RoleEditor         Role = "editor"
	RoleLegal          Role = "legal"
	RoleManagingEditor Role = "managing-editor"
	RoleAdmin          Role = "admin"
	RoleFounder        Role = "founder"
)

// Actor is the resolved identity performing a workflow operation.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}
