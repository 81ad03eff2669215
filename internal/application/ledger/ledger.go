// Package ledger implements the correction ledger: field-level redlines
// proposed by internal staff against an invoice, recorded in batches and
// acknowledged by the partner.
package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/application/port"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/apperr"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/entity"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/workflow"
)

// Input is one proposed field correction in a batch
type Input struct {
	FieldName      string           `json:"field_name"`
	FieldType      entity.FieldType `json:"field_type"`
	OriginalValue  string           `json:"original_value"`
	CorrectedValue string           `json:"corrected_value"`
	Reason         string           `json:"reason"`
}

// Ledger records and supersedes correction batches
type Ledger struct {
	corrections port.CorrectionRepository
	logger      *zap.Logger
}

// NewLedger creates a new correction ledger
func NewLedger(corrections port.CorrectionRepository, logger *zap.Logger) *Ledger {
	return &Ledger{
		corrections: corrections,
		logger:      logger,
	}
}

// RecordBatch validates and persists a correction batch against the
// invoice, superseding any prior unacknowledged batch. The whole batch is
// rejected when any entry is invalid; nothing is written in that case.
// The caller runs this inside the same transaction as the return
// transition.
func (l *Ledger) RecordBatch(ctx context.Context, inv *entity.Invoice, actor entity.Actor, inputs []Input) ([]*entity.Correction, error) {
	if !workflow.State(inv.Status).IsReview() {
		return nil, apperr.InvalidState("corrections can only be recorded while invoice %s is under review (status: %s)", inv.ID, inv.Status)
	}
	if len(inputs) == 0 {
		return nil, apperr.Validation("correction batch must contain at least one entry")
	}

	for i, in := range inputs {
		if in.FieldName == "" {
			return nil, apperr.Validation("correction %d: field name is required", i+1)
		}
		if !in.FieldType.IsValid() {
			return nil, apperr.Validation("correction %d: invalid field type %q", i+1, in.FieldType)
		}
		if in.Reason == "" {
			return nil, apperr.Validation("correction %d (%s): reason is required", i+1, in.FieldName)
		}
		if in.CorrectedValue == in.OriginalValue {
			return nil, apperr.Validation("correction %d (%s): corrected value must differ from original", i+1, in.FieldName)
		}
	}

	now := time.Now()
	if err := l.corrections.SupersedeUnacknowledged(ctx, inv.ID, now); err != nil {
		return nil, err
	}

	batchID := uuid.NewString()
	entries := make([]*entity.Correction, 0, len(inputs))
	for _, in := range inputs {
		entries = append(entries, &entity.Correction{
			InvoiceID:         inv.ID,
			BatchID:           batchID,
			FieldName:         in.FieldName,
			FieldType:         in.FieldType,
			OriginalValue:     in.OriginalValue,
			CorrectedValue:    in.CorrectedValue,
			Reason:            in.Reason,
			CorrectedByUserID: actor.ID,
			CreatedAt:         now,
		})
	}

	if err := l.corrections.CreateBatch(ctx, entries); err != nil {
		return nil, err
	}

	l.logger.Info("Correction batch recorded",
		zap.String("invoice_id", inv.ID),
		zap.String("batch_id", batchID),
		zap.Int("entries", len(entries)))

	return entries, nil
}

// Acknowledge marks all outstanding corrections of the invoice as
// approved by the partner, simultaneously
func (l *Ledger) Acknowledge(ctx context.Context, invoiceID string) error {
	return l.corrections.AcknowledgeOutstanding(ctx, invoiceID)
}

// LatestBatch returns the newest non-superseded batch for an invoice.
// Read-only; tolerates stale reads.
func (l *Ledger) LatestBatch(ctx context.Context, invoiceID string) ([]*entity.Correction, error) {
	return l.corrections.GetLatestBatch(ctx, invoiceID)
}
