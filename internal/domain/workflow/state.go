package workflow

// State represents an invoice state in the approval lifecycle
type State string

const (
	StateDraft            State = "draft"
	StateSubmitted        State = "submitted"
	StateSupervisorReview State = "supervisor_review"
	StateManagerReview    State = "manager_review"
	StateFinalReview      State = "final_review"
	StateExecutiveReview  State = "executive_review"
	StateApproved         State = "approved"
	StateRejected         State = "rejected"
	StateReturned         State = "returned"
	StatePaid             State = "paid"
	StateReceived         State = "received"
)

var validStates = map[State]bool{
	StateDraft:            true,
	StateSubmitted:        true,
	StateSupervisorReview: true,
	StateManagerReview:    true,
	StateFinalReview:      true,
	StateExecutiveReview:  true,
	StateApproved:         true,
	StateRejected:         true,
	StateReturned:         true,
	StatePaid:             true,
	StateReceived:         true,
}

// reviewStates are the stages of the internal approval chain. While an
// invoice sits in one of these, exactly one pending decision exists.
var reviewStates = map[State]bool{
	StateSupervisorReview: true,
	StateManagerReview:    true,
	StateFinalReview:      true,
	StateExecutiveReview:  true,
}

var terminalStates = map[State]bool{
	StateRejected: true,
	StatePaid:     true,
	StateReceived: true,
}

// IsTerminal returns true if the state is a terminal state (no further transitions allowed)
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// IsReview returns true if the state is an active approval chain stage
func (s State) IsReview() bool {
	return reviewStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a valid invoice state
func (s State) IsValid() bool {
	return validStates[s]
}
