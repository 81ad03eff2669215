package entity

import "time"

// Notification is a record of a workflow event surfaced to the
// submitting company. Delivery to an external channel happens out of
// band; the row is the source of truth for what was announced.
type Notification struct {
	ID                 int64     `json:"id"`
	InvoiceID          string    `json:"invoice_id"`
	EventType          string    `json:"event_type"`
	RecipientCompanyID string    `json:"recipient_company_id"`
	Message            string    `json:"message"`
	CreatedAt          time.Time `json:"created_at"`
}
