// Package engine implements the invoice approval workflow: draft
// creation, submission through the approval chain, per-stage decisions,
// the correction/return cycle and payment marking. Every mutating
// operation authorizes the actor, validates the transition against the
// invoice's state machine, and commits the status change together with
// its audit entry in one transaction guarded by an optimistic version
// check.
package engine

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/application/ledger"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/entity"
)

// ItemInput is one line of a draft document
type ItemInput struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateDraftInput carries the fields of a new draft document
type CreateDraftInput struct {
	ConstructionSiteID  string              `json:"construction_site_id"`
	SubmittingCompanyID string              `json:"submitting_company_id"`
	DocumentType        entity.DocumentType `json:"document_type"`
	TaxAmount           decimal.Decimal     `json:"tax_amount"`
	PaymentDueDate      *time.Time          `json:"payment_due_date,omitempty"`
	Items               []ItemInput         `json:"items"`
}

// Engine is the application service driving the approval workflow.
// Mutating operations take the version the caller last read; a write
// against a stale version fails with a conflict error and changes
// nothing.
type Engine interface {
	// CreateDraft creates a draft document owned by the acting partner
	CreateDraft(ctx context.Context, actor entity.Actor, input CreateDraftInput) (*entity.Invoice, error)

	// Submit validates the draft and moves it into the approval chain.
	// Delivery notes skip the chain and become received immediately.
	Submit(ctx context.Context, invoiceID string, actor entity.Actor, expectedVersion int64) (*entity.Invoice, error)

	// Approve records the current stage's approval, advancing to the
	// next stage or to approved after the last stage
	Approve(ctx context.Context, invoiceID string, actor entity.Actor, comment string, expectedVersion int64) (*entity.Invoice, error)

	// Reject terminally rejects the invoice with a mandatory reason
	Reject(ctx context.Context, invoiceID string, actor entity.Actor, reason string, expectedVersion int64) (*entity.Invoice, error)

	// RequestCorrection records a correction batch and returns the
	// invoice to the partner
	RequestCorrection(ctx context.Context, invoiceID string, actor entity.Actor, corrections []ledger.Input, note string, expectedVersion int64) (*entity.Invoice, error)

	// AcknowledgeReturn accepts the outstanding corrections on behalf of
	// the partner and resumes review
	AcknowledgeReturn(ctx context.Context, invoiceID string, actor entity.Actor, expectedVersion int64) (*entity.Invoice, error)

	// AddComment appends a comment to the invoice's history without
	// changing its status
	AddComment(ctx context.Context, invoiceID string, actor entity.Actor, comment string) error

	// MarkPaid records payment of an approved invoice
	MarkPaid(ctx context.Context, invoiceID string, actor entity.Actor, expectedVersion int64) (*entity.Invoice, error)

	// GetInvoice returns the invoice with its line items
	GetInvoice(ctx context.Context, invoiceID string) (*entity.Invoice, error)

	// History returns the invoice's audit trail in chronological order
	History(ctx context.Context, invoiceID string) ([]*entity.HistoryEntry, error)

	// LatestCorrections returns the newest non-superseded correction batch
	LatestCorrections(ctx context.Context, invoiceID string) ([]*entity.Correction, error)
}
