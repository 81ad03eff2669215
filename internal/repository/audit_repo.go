package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/entity"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/pkg/database"
)

// AuditRepository handles the append-only approval history. The only
// write it knows is INSERT; history is never updated or deleted.
type AuditRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *database.DB, logger *zap.Logger) *AuditRepository {
	return &AuditRepository{
		db:     db,
		logger: logger,
	}
}

// Append creates a new history record
func (r *AuditRepository) Append(ctx context.Context, e *entity.HistoryEntry) error {
	query := `
		INSERT INTO approval_history (
			invoice_id, action, actor_id, actor_role,
			previous_status, new_status, comment, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		e.InvoiceID,
		e.Action,
		e.ActorID,
		e.ActorRole,
		e.PreviousStatus,
		e.NewStatus,
		e.Comment,
		e.Timestamp,
	)
	if err != nil {
		r.logger.Error("Failed to append history entry",
			zap.String("invoice_id", e.InvoiceID),
			zap.String("action", e.Action),
			zap.Error(err))
		return fmt.Errorf("failed to append history: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	e.ID = id
	return nil
}

// GetByInvoiceID retrieves all history records for an invoice, oldest first
func (r *AuditRepository) GetByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.HistoryEntry, error) {
	query := `
		SELECT id, invoice_id, action, actor_id, actor_role,
			previous_status, new_status, comment, timestamp
		FROM approval_history
		WHERE invoice_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, invoiceID)
	if err != nil {
		r.logger.Error("Failed to get history", zap.String("invoice_id", invoiceID), zap.Error(err))
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var records []*entity.HistoryEntry
	for rows.Next() {
		var record entity.HistoryEntry
		err := rows.Scan(
			&record.ID,
			&record.InvoiceID,
			&record.Action,
			&record.ActorID,
			&record.ActorRole,
			&record.PreviousStatus,
			&record.NewStatus,
			&record.Comment,
			&record.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history record: %w", err)
		}
		records = append(records, &record)
	}

	return records, rows.Err()
}
