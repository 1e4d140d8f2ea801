package workflow

import "github.com/create-newspulse/newsdesk/pkg/models"

// Action is a named workflow transition requested by a caller.
type Action string

const (
	ActionToReview Action = "toReview"
	ActionToLegal  Action = "toLegal"
	ActionApprove  Action = "approve"
	ActionSchedule Action = "schedule"
	ActionPublish  Action = "publish"
)

// effect marks the side effect attached to a transition row.
type effect int

const (
	effectNone effect = iota
	effectAppendApproval
	effectSetSchedule
	effectClearSchedule
)

// rule is one row of the transition table: the statuses an action may fire
// from, the checklist flags it requires, the roles allowed to request it, the
// resulting status, and its side effect. The paired stage follows from the
// status via models.StageFor.
type rule struct {
	from      []models.StoryStatus
	checklist []models.ChecklistFlag
	roles     []models.Role
	to        models.StoryStatus
	effect    effect
}

var (
	// editorialRoles may drive a story through review, legal, approval and
	// scheduling.
	editorialRoles = []models.Role{
		models.RoleEditor,
		models.RoleManagingEditor,
		models.RoleAdmin,
		models.RoleFounder,
	}

	// publishRoles is strictly narrower: going live is reserved for the
	// elevated roles even though they share the broader set elsewhere.
	publishRoles = []models.Role{
		models.RoleFounder,
		models.RoleAdmin,
		models.RoleManagingEditor,
	}

	approvalFlags = []models.ChecklistFlag{
		models.FlagPTICompliance,
		models.FlagRightsCleared,
		models.FlagAttributionPresent,
	}

	publishFlags = []models.ChecklistFlag{
		models.FlagPTICompliance,
		models.FlagRightsCleared,
		models.FlagAttributionPresent,
		models.FlagDefamationScanOk,
	}
)

// transitions is the declarative table interpreted by the engine. Adding a
// stage (say, a fact-check gate) means adding one row here, not threading a
// new conditional through every handler.
var transitions = map[Action]rule{
	ActionToReview: {
		from:  []models.StoryStatus{models.StoryStatusDraft},
		roles: editorialRoles,
		to:    models.StoryStatusReview,
	},
	ActionToLegal: {
		from:  []models.StoryStatus{models.StoryStatusReview},
		roles: editorialRoles,
		to:    models.StoryStatusLegal,
	},
	ActionApprove: {
		from:      []models.StoryStatus{models.StoryStatusLegal},
		checklist: approvalFlags,
		roles:     editorialRoles,
		to:        models.StoryStatusApproved,
		effect:    effectAppendApproval,
	},
	ActionSchedule: {
		from:      []models.StoryStatus{models.StoryStatusApproved},
		checklist: approvalFlags,
		roles:     editorialRoles,
		to:        models.StoryStatusScheduled,
		effect:    effectSetSchedule,
	},
	ActionPublish: {
		from: []models.StoryStatus{
			models.StoryStatusApproved,
			models.StoryStatusScheduled,
		},
		checklist: publishFlags,
		roles:     publishRoles,
		to:        models.StoryStatusPublished,
		effect:    effectClearSchedule,
	},
}

// AllowedRoles returns the role set permitted to request an action, and
// whether the action exists at all.
func AllowedRoles(action Action) ([]models.Role, bool) {
	r, ok := transitions[action]
	if !ok {
		return nil, false
	}

	return r.roles, true
}

// RequiredFlags returns the checklist flags an action requires. An empty
// result means the action has no checklist predicate.
func RequiredFlags(action Action) []models.ChecklistFlag {
	return transitions[action].checklist
}

func roleAllowed(roles []models.Role, role models.Role) bool {
	for _, allowed := range roles {
		if allowed == role {
			return true
		}
	}

	return false
}

func statusAllowed(statuses []models.StoryStatus, status models.StoryStatus) bool {
	for _, allowed := range statuses {
		if allowed == status {
			return true
		}
	}

	return false
}
