package workflow

// BuildInvoiceStateMachine creates a state machine configured for one
// invoice's resolved approval chain. stages must be the non-empty ordered
// chain returned by ChainResolver.Stages; reentry is the stage a returned
// invoice resumes at after partner acknowledgment.
func BuildInvoiceStateMachine(initialState State, stages []State, reentry State) StateMachine {
	builder := NewBuilder()

	builder.Configure(StateDraft).
		Permit(TriggerSubmit, StateSubmitted)

	// A submitted invoice is advanced into the chain's first stage in the
	// same operation; "submitted" is never observable between requests.
	builder.Configure(StateSubmitted).
		Permit(TriggerAdvance, stages[0])

	for i, stage := range stages {
		next := StateApproved
		if i+1 < len(stages) {
			next = stages[i+1]
		}
		builder.Configure(stage).
			Permit(TriggerApprove, next).
			Permit(TriggerReject, StateRejected).
			Permit(TriggerReturn, StateReturned)
	}

	builder.Configure(StateReturned).
		Permit(TriggerAcknowledgeReturn, reentry)

	builder.Configure(StateApproved).
		Permit(TriggerMarkPaid, StatePaid)

	// rejected, paid and received are terminal, no outgoing transitions

	return builder.Build(initialState)
}

// BuildDeliveryNoteStateMachine creates the machine for a receipt-only
// delivery note. Delivery notes are data capture: submit acknowledges
// receipt and the document never enters the approval chain.
func BuildDeliveryNoteStateMachine(initialState State) StateMachine {
	builder := NewBuilder()

	builder.Configure(StateDraft).
		Permit(TriggerSubmit, StateReceived)

	return builder.Build(initialState)
}
