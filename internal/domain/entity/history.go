package entity

import "time"

// HistoryEntry represents one immutable record in an invoice's audit
// trail. Entries are append-only; corrections to history are themselves
// new entries, never edits.
type HistoryEntry struct {
	ID             int64     `json:"id"`
	InvoiceID      string    `json:"invoice_id"`
	Action         string    `json:"action"`
	ActorID        string    `json:"actor_id"`
	ActorRole      string    `json:"actor_role"` // role held at the time of the action
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	Comment        string    `json:"comment,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Audit action constants
const (
	ActionSubmit             = "submit"
	ActionApprove            = "approve"
	ActionReject             = "reject"
	ActionReturn             = "return"
	ActionAcknowledgeReturn  = "acknowledge_return"
	ActionComment            = "comment"
	ActionMarkPaid           = "mark_paid"
)
