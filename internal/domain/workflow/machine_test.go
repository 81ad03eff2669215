package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullChain() []State {
	return []State{StateSupervisorReview, StateManagerReview, StateFinalReview, StateExecutiveReview}
}

func TestBuilder_Build(t *testing.T) {
	t.Run("configured transition is permitted", func(t *testing.T) {
		builder := NewBuilder()
		builder.Configure(StateDraft).Permit(TriggerSubmit, StateSubmitted)

		machine := builder.Build(StateDraft)

		assert.True(t, machine.CanFire(TriggerSubmit))
		assert.False(t, machine.CanFire(TriggerApprove))
	})

	t.Run("panics on invalid state", func(t *testing.T) {
		assert.Panics(t, func() {
			NewBuilder().Configure(State("bogus"))
		})
	})

	t.Run("panics on transition out of terminal state", func(t *testing.T) {
		assert.Panics(t, func() {
			NewBuilder().Configure(StateRejected).Permit(TriggerSubmit, StateDraft)
		})
	})
}

func TestStateMachine_Fire(t *testing.T) {
	t.Run("moves to the configured target", func(t *testing.T) {
		machine := BuildInvoiceStateMachine(StateDraft, fullChain(), StateFinalReview)

		next, err := machine.Fire(TriggerSubmit)
		require.NoError(t, err)
		assert.Equal(t, StateSubmitted, next)
		assert.Equal(t, StateSubmitted, machine.State())
	})

	t.Run("rejects an unconfigured trigger", func(t *testing.T) {
		machine := BuildInvoiceStateMachine(StateDraft, fullChain(), StateFinalReview)

		_, err := machine.Fire(TriggerApprove)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, StateDraft, machine.State(), "failed fire must not move the machine")
	})

	t.Run("peek does not move the machine", func(t *testing.T) {
		machine := BuildInvoiceStateMachine(StateDraft, fullChain(), StateFinalReview)

		target, ok := machine.Peek(TriggerSubmit)
		require.True(t, ok)
		assert.Equal(t, StateSubmitted, target)
		assert.Equal(t, StateDraft, machine.State())
	})
}

func TestBuildInvoiceStateMachine_FullChain(t *testing.T) {
	machine := BuildInvoiceStateMachine(StateDraft, fullChain(), StateFinalReview)

	steps := []struct {
		trigger Trigger
		want    State
	}{
		{TriggerSubmit, StateSubmitted},
		{TriggerAdvance, StateSupervisorReview},
		{TriggerApprove, StateManagerReview},
		{TriggerApprove, StateFinalReview},
		{TriggerApprove, StateExecutiveReview},
		{TriggerApprove, StateApproved},
		{TriggerMarkPaid, StatePaid},
	}

	for _, step := range steps {
		next, err := machine.Fire(step.trigger)
		require.NoError(t, err, "firing %s", step.trigger)
		assert.Equal(t, step.want, next)
	}

	assert.True(t, machine.State().IsTerminal())
	assert.Empty(t, machine.PermittedTriggers())
}

func TestBuildInvoiceStateMachine_ShortChain(t *testing.T) {
	// Sites without a supervisor skip the first stage entirely.
	chain := []State{StateManagerReview, StateFinalReview, StateExecutiveReview}
	machine := BuildInvoiceStateMachine(StateSubmitted, chain, StateFinalReview)

	next, err := machine.Fire(TriggerAdvance)
	require.NoError(t, err)
	assert.Equal(t, StateManagerReview, next)
}

func TestBuildInvoiceStateMachine_RejectIsTerminal(t *testing.T) {
	machine := BuildInvoiceStateMachine(StateManagerReview, fullChain(), StateFinalReview)

	next, err := machine.Fire(TriggerReject)
	require.NoError(t, err)
	assert.Equal(t, StateRejected, next)

	_, err = machine.Fire(TriggerSubmit)
	assert.Error(t, err, "rejected invoices accept no further triggers")
	_, err = machine.Fire(TriggerAcknowledgeReturn)
	assert.Error(t, err)
}

func TestBuildInvoiceStateMachine_ReturnCycle(t *testing.T) {
	// A return from any stage re-enters at the accounting stage after
	// the partner acknowledges, regardless of where it was returned from.
	for _, origin := range fullChain() {
		machine := BuildInvoiceStateMachine(origin, fullChain(), StateFinalReview)

		next, err := machine.Fire(TriggerReturn)
		require.NoError(t, err, "return from %s", origin)
		assert.Equal(t, StateReturned, next)

		next, err = machine.Fire(TriggerAcknowledgeReturn)
		require.NoError(t, err)
		assert.Equal(t, StateFinalReview, next, "re-entry from a return at %s", origin)
	}
}

func TestBuildDeliveryNoteStateMachine(t *testing.T) {
	machine := BuildDeliveryNoteStateMachine(StateDraft)

	next, err := machine.Fire(TriggerSubmit)
	require.NoError(t, err)
	assert.Equal(t, StateReceived, next)
	assert.True(t, machine.State().IsTerminal())

	// No chain action is ever valid on a delivery note.
	for _, trigger := range []Trigger{TriggerApprove, TriggerReject, TriggerReturn, TriggerMarkPaid} {
		assert.False(t, machine.CanFire(trigger), "trigger %s", trigger)
	}
}

func TestState_Classification(t *testing.T) {
	tests := []struct {
		state    State
		terminal bool
		review   bool
	}{
		{StateDraft, false, false},
		{StateSubmitted, false, false},
		{StateSupervisorReview, false, true},
		{StateManagerReview, false, true},
		{StateFinalReview, false, true},
		{StateExecutiveReview, false, true},
		{StateReturned, false, false},
		{StateApproved, false, false},
		{StateRejected, true, false},
		{StatePaid, true, false},
		{StateReceived, true, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			assert.True(t, tt.state.IsValid())
			assert.Equal(t, tt.terminal, tt.state.IsTerminal())
			assert.Equal(t, tt.review, tt.state.IsReview())
		})
	}

	assert.False(t, State("bogus").IsValid())
}
