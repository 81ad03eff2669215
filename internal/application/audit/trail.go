// Package audit provides the append-only approval history of an invoice.
package audit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/application/port"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/entity"
)

// Trail records and reads history entries. Entries are never updated or
// deleted after being written.
type Trail struct {
	history port.AuditRepository
	logger  *zap.Logger
}

// NewTrail creates a new audit trail
func NewTrail(history port.AuditRepository, logger *zap.Logger) *Trail {
	return &Trail{
		history: history,
		logger:  logger,
	}
}

// Record appends one history entry for an invoice action and returns the
// assigned entry ID. The caller runs this inside the same transaction as
// the status change it describes.
func (t *Trail) Record(ctx context.Context, invoiceID, action string, actor entity.Actor, previousStatus, newStatus, comment string) (int64, error) {
	entry := &entity.HistoryEntry{
		InvoiceID:      invoiceID,
		Action:         action,
		ActorID:        actor.ID,
		ActorRole:      string(actor.Role),
		PreviousStatus: previousStatus,
		NewStatus:      newStatus,
		Comment:        comment,
		Timestamp:      time.Now(),
	}

	if err := t.history.Append(ctx, entry); err != nil {
		return 0, err
	}

	t.logger.Debug("History entry recorded",
		zap.String("invoice_id", invoiceID),
		zap.String("action", action),
		zap.Int64("entry_id", entry.ID))

	return entry.ID, nil
}

// History returns all entries for an invoice in chronological order
func (t *Trail) History(ctx context.Context, invoiceID string) ([]*entity.HistoryEntry, error) {
	return t.history.GetByInvoiceID(ctx, invoiceID)
}
