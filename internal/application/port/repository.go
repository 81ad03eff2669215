package port

import (
	"context"
	"time"

	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/entity"
)

// InvoiceRepository defines persistence operations for Invoice
type InvoiceRepository interface {
	// Create inserts an invoice together with its line items
	Create(ctx context.Context, inv *entity.Invoice) error

	// GetByID retrieves an invoice with its line items
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)

	// ApplyTransition writes the invoice's status and transition-owned
	// fields, conditioned on the version the caller read. On success the
	// stored version is expectedVersion+1. A concurrent modification
	// since the caller's read yields a conflict error and writes nothing.
	ApplyTransition(ctx context.Context, inv *entity.Invoice, expectedVersion int64) error
}

// SiteRepository defines persistence operations for construction sites
type SiteRepository interface {
	Create(ctx context.Context, site *entity.Site) error
	GetByID(ctx context.Context, id string) (*entity.Site, error)
}

// AuditRepository defines persistence for the append-only audit trail.
// There is deliberately no update or delete operation.
type AuditRepository interface {
	Append(ctx context.Context, e *entity.HistoryEntry) error
	GetByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.HistoryEntry, error)
}

// CorrectionRepository defines persistence operations for correction batches
type CorrectionRepository interface {
	// CreateBatch inserts all entries of one batch
	CreateBatch(ctx context.Context, entries []*entity.Correction) error

	// SupersedeUnacknowledged stamps superseded_at on all outstanding
	// entries of an invoice; rows are never deleted
	SupersedeUnacknowledged(ctx context.Context, invoiceID string, at time.Time) error

	// AcknowledgeOutstanding marks every non-superseded entry of the
	// invoice as approved by the partner
	AcknowledgeOutstanding(ctx context.Context, invoiceID string) error

	// GetLatestBatch returns the newest non-superseded batch, oldest
	// entry first; empty when no batch exists
	GetLatestBatch(ctx context.Context, invoiceID string) ([]*entity.Correction, error)
}

// NotificationRepository defines persistence for workflow notifications
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	GetByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.Notification, error)
}

// TransactionManager spans several repository calls with one transaction
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
