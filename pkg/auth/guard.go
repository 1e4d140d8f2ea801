// Package auth maps a caller's role claim to the workflow operations it may
// perform. The guard is pure and stateless: authentication happens upstream,
// and every handler consults the same functions instead of re-deriving
// allowed-role lists at each call site.
package auth

import (
	"github.com/create-newspulse/newsdesk/pkg/models"
	"github.com/create-newspulse/newsdesk/pkg/workflow"
)

var viewRoles = map[models.Role]bool{
	models.RoleEditor:         true,
	models.RoleManagingEditor: true,
	models.RoleAdmin:          true,
	models.RoleFounder:        true,
}

var checklistRoles = map[models.Role]bool{
	models.RoleEditor:         true,
	models.RoleLegal:          true,
	models.RoleManagingEditor: true,
	models.RoleAdmin:          true,
	models.RoleFounder:        true,
}

var deleteRoles = map[models.Role]bool{
	models.RoleAdmin:   true,
	models.RoleFounder: true,
}

// CanView reports whether a role may read stories and their workflow state.
func CanView(role models.Role) bool {
	return viewRoles[role]
}

// CanEditChecklist reports whether a role may merge compliance flags.
// Legal may edit the checklist without being able to move a story.
func CanEditChecklist(role models.Role) bool {
	return checklistRoles[role]
}

// CanDelete reports whether a role may soft-delete a story.
func CanDelete(role models.Role) bool {
	return deleteRoles[role]
}

// CanTransition reports whether a role is in the action's required-role set
// from the transition table. Unknown actions are never permitted.
func CanTransition(role models.Role, action workflow.Action) bool {
	roles, ok := workflow.AllowedRoles(action)
	if !ok {
		return false
	}

	for _, allowed := range roles {
		if allowed == role {
			return true
		}
	}

	return false
}
