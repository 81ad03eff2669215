package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType distinguishes invoices, which walk the approval chain,
// from delivery notes, which are receipt-only data capture
type DocumentType string

const (
	DocumentTypeInvoice      DocumentType = "invoice"
	DocumentTypeDeliveryNote DocumentType = "delivery_note"
)

// IsValid returns true if the document type is one of the defined constants
func (d DocumentType) IsValid() bool {
	return d == DocumentTypeInvoice || d == DocumentTypeDeliveryNote
}

// Invoice represents a partner-submitted invoice (請求書) or delivery note (納品書)
type Invoice struct {
	ID                    string          `json:"id"`
	Status                string          `json:"status"`
	DocumentType          DocumentType    `json:"document_type"`
	ConstructionSiteID    string          `json:"construction_site_id"`
	SubmittingCompanyID   string          `json:"submitting_company_id"`
	Subtotal              decimal.Decimal `json:"subtotal"`
	TaxAmount             decimal.Decimal `json:"tax_amount"`
	TotalAmount           decimal.Decimal `json:"total_amount"`
	Items                 []*LineItem     `json:"items"`
	PaymentDueDate        *time.Time      `json:"payment_due_date,omitempty"`
	SubmittedAt           *time.Time      `json:"submitted_at,omitempty"`
	ReturnReason          string          `json:"return_reason,omitempty"`
	PartnerAcknowledgedAt *time.Time      `json:"partner_acknowledged_at,omitempty"`
	Version               int64           `json:"version"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// LineItem represents a single line of an invoice
type LineItem struct {
	ID          int64           `json:"id"`
	InvoiceID   string          `json:"invoice_id"`
	LineNo      int             `json:"line_no"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// Validate checks a single line item for completeness
func (li *LineItem) Validate() error {
	if li.Description == "" {
		return fmt.Errorf("line %d: description is required", li.LineNo)
	}
	if li.Quantity.IsNegative() || li.Quantity.IsZero() {
		return fmt.Errorf("line %d: quantity must be positive", li.LineNo)
	}
	if !li.Amount.Equal(li.Quantity.Mul(li.UnitPrice)) {
		return fmt.Errorf("line %d: amount %s does not equal quantity × unit price %s",
			li.LineNo, li.Amount, li.Quantity.Mul(li.UnitPrice))
	}
	return nil
}

// AddItem appends a line item, renumbers lines densely from 1 and
// recomputes totals
func (inv *Invoice) AddItem(item *LineItem) {
	item.InvoiceID = inv.ID
	inv.Items = append(inv.Items, item)
	inv.renumber()
	inv.RecomputeTotals()
}

// RemoveItem deletes the item with the given line number, renumbers the
// remaining lines densely from 1 and recomputes totals
func (inv *Invoice) RemoveItem(lineNo int) error {
	for i, item := range inv.Items {
		if item.LineNo == lineNo {
			inv.Items = append(inv.Items[:i], inv.Items[i+1:]...)
			inv.renumber()
			inv.RecomputeTotals()
			return nil
		}
	}
	return fmt.Errorf("line %d not found", lineNo)
}

// renumber assigns dense 1-based line numbers preserving order
func (inv *Invoice) renumber() {
	for i, item := range inv.Items {
		item.LineNo = i + 1
	}
}

// RecomputeTotals derives subtotal from line amounts and total from
// subtotal plus tax. total = subtotal + tax must hold after every
// mutation that alters amounts.
func (inv *Invoice) RecomputeTotals() {
	subtotal := decimal.Zero
	for _, item := range inv.Items {
		subtotal = subtotal.Add(item.Amount)
	}
	inv.Subtotal = subtotal
	inv.TotalAmount = subtotal.Add(inv.TaxAmount)
}

// TotalsConsistent reports whether total = subtotal + tax holds
func (inv *Invoice) TotalsConsistent() bool {
	return inv.TotalAmount.Equal(inv.Subtotal.Add(inv.TaxAmount))
}

// ValidateForSubmit checks the preconditions for submission: at least one
// complete line item, consistent totals, and for invoices a payment due
// date. Delivery notes carry no payment terms.
func (inv *Invoice) ValidateForSubmit() error {
	if len(inv.Items) == 0 {
		return fmt.Errorf("document has no line items")
	}
	for _, item := range inv.Items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	if !inv.TotalsConsistent() {
		return fmt.Errorf("total %s does not equal subtotal %s + tax %s",
			inv.TotalAmount, inv.Subtotal, inv.TaxAmount)
	}
	if inv.DocumentType == DocumentTypeInvoice && inv.PaymentDueDate == nil {
		return fmt.Errorf("payment due date is required")
	}
	return nil
}
