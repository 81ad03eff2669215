package workflow

// Trigger represents an event that can cause a state transition
type Trigger string

const (
	TriggerSubmit            Trigger = "submit"
	TriggerAdvance           Trigger = "advance"
	TriggerApprove           Trigger = "approve"
	TriggerReject            Trigger = "reject"
	TriggerReturn            Trigger = "return"
	TriggerAcknowledgeReturn Trigger = "acknowledge_return"
	TriggerMarkPaid          Trigger = "mark_paid"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
