package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/entity"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/pkg/database"
)

// CorrectionRepository handles correction batch database operations
type CorrectionRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewCorrectionRepository creates a new correction repository
func NewCorrectionRepository(db *database.DB, logger *zap.Logger) *CorrectionRepository {
	return &CorrectionRepository{
		db:     db,
		logger: logger,
	}
}

// CreateBatch inserts all entries of one batch
func (r *CorrectionRepository) CreateBatch(ctx context.Context, entries []*entity.Correction) error {
	query := `
		INSERT INTO corrections (
			invoice_id, batch_id, field_name, field_type,
			original_value, corrected_value, reason, corrected_by_user_id,
			approved_by_partner, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	exec := r.db.Executor(ctx)
	for _, c := range entries {
		result, err := exec.ExecContext(ctx, query,
			c.InvoiceID,
			c.BatchID,
			c.FieldName,
			c.FieldType,
			c.OriginalValue,
			c.CorrectedValue,
			c.Reason,
			c.CorrectedByUserID,
			c.ApprovedByPartner,
			c.CreatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to create correction",
				zap.String("invoice_id", c.InvoiceID),
				zap.String("batch_id", c.BatchID),
				zap.String("field_name", c.FieldName),
				zap.Error(err))
			return fmt.Errorf("failed to create correction: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		c.ID = id
	}

	return nil
}

// SupersedeUnacknowledged stamps superseded_at on all outstanding entries
// of an invoice. Rows are never deleted; superseded batches remain for
// audit history.
func (r *CorrectionRepository) SupersedeUnacknowledged(ctx context.Context, invoiceID string, at time.Time) error {
	query := `
		UPDATE corrections
		SET superseded_at = ?
		WHERE invoice_id = ? AND superseded_at IS NULL AND approved_by_partner = 0
	`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query, at, invoiceID)
	if err != nil {
		r.logger.Error("Failed to supersede corrections", zap.String("invoice_id", invoiceID), zap.Error(err))
		return fmt.Errorf("failed to supersede corrections: %w", err)
	}
	return nil
}

// AcknowledgeOutstanding marks every non-superseded entry of the invoice
// as approved by the partner in one statement
func (r *CorrectionRepository) AcknowledgeOutstanding(ctx context.Context, invoiceID string) error {
	query := `
		UPDATE corrections
		SET approved_by_partner = 1
		WHERE invoice_id = ? AND superseded_at IS NULL
	`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query, invoiceID)
	if err != nil {
		r.logger.Error("Failed to acknowledge corrections", zap.String("invoice_id", invoiceID), zap.Error(err))
		return fmt.Errorf("failed to acknowledge corrections: %w", err)
	}
	return nil
}

// GetLatestBatch returns the newest non-superseded batch, oldest entry
// first. Empty when the invoice has no outstanding batch.
func (r *CorrectionRepository) GetLatestBatch(ctx context.Context, invoiceID string) ([]*entity.Correction, error) {
	query := `
		SELECT id, invoice_id, batch_id, field_name, field_type,
			original_value, corrected_value, reason, corrected_by_user_id,
			approved_by_partner, superseded_at, created_at
		FROM corrections
		WHERE invoice_id = ?
			AND batch_id = (
				SELECT batch_id FROM corrections
				WHERE invoice_id = ? AND superseded_at IS NULL
				ORDER BY created_at DESC, id DESC
				LIMIT 1
			)
		ORDER BY id ASC
	`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, invoiceID, invoiceID)
	if err != nil {
		r.logger.Error("Failed to get latest correction batch", zap.String("invoice_id", invoiceID), zap.Error(err))
		return nil, fmt.Errorf("failed to get latest batch: %w", err)
	}
	defer rows.Close()

	var entries []*entity.Correction
	for rows.Next() {
		var c entity.Correction
		var supersededAt sql.NullTime

		err := rows.Scan(
			&c.ID,
			&c.InvoiceID,
			&c.BatchID,
			&c.FieldName,
			&c.FieldType,
			&c.OriginalValue,
			&c.CorrectedValue,
			&c.Reason,
			&c.CorrectedByUserID,
			&c.ApprovedByPartner,
			&supersededAt,
			&c.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan correction: %w", err)
		}
		if supersededAt.Valid {
			c.SupersededAt = &supersededAt.Time
		}
		entries = append(entries, &c)
	}

	return entries, rows.Err()
}
