package authority

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/entity"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/workflow"
)

func partner() entity.Actor {
	return entity.Actor{ID: "p1", CompanyID: "company-1", Role: entity.RolePartner}
}

func internal(position entity.Position) entity.Actor {
	return entity.Actor{ID: "u1", CompanyID: "hirano", Role: entity.RoleInternal, Position: position}
}

func TestCanAct_Partner(t *testing.T) {
	tests := []struct {
		action  Action
		allowed bool
	}{
		{ActionSubmit, true},
		{ActionAcknowledgeReturn, true},
		{ActionComment, true},
		{ActionApprove, false},
		{ActionReject, false},
		{ActionRequestCorrection, false},
		{ActionMarkPaid, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			got := CanAct(partner(), workflow.StateManagerReview, tt.action)
			assert.Equal(t, tt.allowed, got)
		})
	}
}

func TestCanAct_StageMatch(t *testing.T) {
	tests := []struct {
		name     string
		position entity.Position
		stage    workflow.State
		allowed  bool
	}{
		{"supervisor at own stage", entity.PositionSiteSupervisor, workflow.StateSupervisorReview, true},
		{"supervisor at manager stage", entity.PositionSiteSupervisor, workflow.StateManagerReview, false},
		{"manager at manager stage", entity.PositionManager, workflow.StateManagerReview, true},
		{"department head at manager stage", entity.PositionDepartmentHead, workflow.StateManagerReview, true},
		{"manager at final stage", entity.PositionManager, workflow.StateFinalReview, false},
		{"accountant at final stage", entity.PositionAccountant, workflow.StateFinalReview, true},
		{"admin at final stage", entity.PositionAdmin, workflow.StateFinalReview, true},
		{"director at executive stage", entity.PositionDirector, workflow.StateExecutiveReview, true},
		{"executive at executive stage", entity.PositionExecutive, workflow.StateExecutiveReview, true},
		{"director at final stage", entity.PositionDirector, workflow.StateFinalReview, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanAct(internal(tt.position), tt.stage, ActionApprove))
			assert.Equal(t, tt.allowed, CanAct(internal(tt.position), tt.stage, ActionReject))
		})
	}
}

func TestCanAct_RequestCorrection(t *testing.T) {
	t.Run("stage position may request at own stage", func(t *testing.T) {
		assert.True(t, CanAct(internal(entity.PositionManager), workflow.StateManagerReview, ActionRequestCorrection))
	})

	t.Run("accounting may request at any review stage", func(t *testing.T) {
		for _, stage := range []workflow.State{
			workflow.StateSupervisorReview,
			workflow.StateManagerReview,
			workflow.StateFinalReview,
			workflow.StateExecutiveReview,
		} {
			assert.True(t, CanAct(internal(entity.PositionAccountant), stage, ActionRequestCorrection), "stage %s", stage)
			assert.True(t, CanAct(internal(entity.PositionAdmin), stage, ActionRequestCorrection), "stage %s", stage)
		}
	})

	t.Run("manager may not request at another stage", func(t *testing.T) {
		assert.False(t, CanAct(internal(entity.PositionManager), workflow.StateExecutiveReview, ActionRequestCorrection))
	})

	t.Run("never valid outside review", func(t *testing.T) {
		assert.False(t, CanAct(internal(entity.PositionAccountant), workflow.StateDraft, ActionRequestCorrection))
		assert.False(t, CanAct(internal(entity.PositionAccountant), workflow.StateReturned, ActionRequestCorrection))
	})
}

func TestCanAct_MarkPaid(t *testing.T) {
	assert.True(t, CanAct(internal(entity.PositionAccountant), workflow.StateApproved, ActionMarkPaid))
	assert.True(t, CanAct(internal(entity.PositionAdmin), workflow.StateApproved, ActionMarkPaid))
	assert.False(t, CanAct(internal(entity.PositionManager), workflow.StateApproved, ActionMarkPaid))
	assert.False(t, CanAct(internal(entity.PositionDirector), workflow.StateApproved, ActionMarkPaid))
}

func TestCanAct_Comment(t *testing.T) {
	assert.True(t, CanAct(internal(entity.PositionManager), workflow.StateDraft, ActionComment))
	assert.True(t, CanAct(internal(entity.PositionExecutive), workflow.StatePaid, ActionComment))
	assert.True(t, CanAct(partner(), workflow.StateRejected, ActionComment))
}
