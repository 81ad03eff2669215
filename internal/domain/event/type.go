package event

// Type identifies the type of domain event
type Type string

const (
	TypeInvoiceSubmitted               Type = "invoice.submitted"
	TypeInvoiceApproved                Type = "invoice.approved"
	TypeInvoiceRejected                Type = "invoice.rejected"
	TypeInvoiceReturned                Type = "invoice.returned"
	TypeInvoiceCorrectionAcknowledged  Type = "invoice.correction_acknowledged"
	TypeInvoicePaid                    Type = "invoice.paid"
	TypeInvoiceReceived                Type = "invoice.received"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeInvoiceSubmitted,
		TypeInvoiceApproved,
		TypeInvoiceRejected,
		TypeInvoiceReturned,
		TypeInvoiceCorrectionAcknowledged,
		TypeInvoicePaid,
		TypeInvoiceReceived:
		return true
	default:
		return false
	}
}
