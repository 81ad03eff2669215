// Package authority centralizes every role/position check of the
// approval workflow in a single decision function, replacing scattered
// per-screen boolean checks with one testable rule table.
package authority

import (
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/entity"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/workflow"
)

// Action is a workflow operation subject to authorization
type Action string

const (
	ActionSubmit            Action = "submit"
	ActionApprove           Action = "approve"
	ActionReject            Action = "reject"
	ActionRequestCorrection Action = "request_correction"
	ActionAcknowledgeReturn Action = "acknowledge_return"
	ActionComment           Action = "comment"
	ActionMarkPaid          Action = "mark_paid"
)

// stagePositions maps each review stage to the internal positions
// allowed to decide it
var stagePositions = map[workflow.State]map[entity.Position]bool{
	workflow.StateSupervisorReview: {
		entity.PositionSiteSupervisor: true,
	},
	workflow.StateManagerReview: {
		entity.PositionManager:        true,
		entity.PositionDepartmentHead: true,
	},
	workflow.StateFinalReview: {
		entity.PositionAccountant: true,
		entity.PositionAdmin:      true,
	},
	workflow.StateExecutiveReview: {
		entity.PositionDirector:  true,
		entity.PositionExecutive: true,
	},
}

// crossStagePositions may request corrections from any active review
// stage, not only their own. Corrections are a privileged action of the
// accounting side.
var crossStagePositions = map[entity.Position]bool{
	entity.PositionAccountant: true,
	entity.PositionAdmin:      true,
}

// CanAct reports whether the actor may perform the action on an invoice
// sitting at the given stage. It is a pure function: the caller is
// responsible for state validity (that the stage actually permits the
// action) and for record-level checks such as company ownership.
func CanAct(actor entity.Actor, stage workflow.State, action Action) bool {
	if actor.IsPartner() {
		switch action {
		case ActionSubmit, ActionAcknowledgeReturn, ActionComment:
			return true
		default:
			return false
		}
	}

	switch action {
	case ActionComment:
		return true

	case ActionApprove, ActionReject:
		return stagePositions[stage][actor.Position]

	case ActionRequestCorrection:
		if !stage.IsReview() {
			return false
		}
		return stagePositions[stage][actor.Position] || crossStagePositions[actor.Position]

	case ActionMarkPaid:
		return crossStagePositions[actor.Position]

	default:
		return false
	}
}
