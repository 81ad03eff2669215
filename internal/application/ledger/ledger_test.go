package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/apperr"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/entity"
)

type memCorrections struct {
	entries []*entity.Correction
	nextID  int64
}

func (m *memCorrections) CreateBatch(ctx context.Context, entries []*entity.Correction) error {
	for _, e := range entries {
		m.nextID++
		e.ID = m.nextID
		m.entries = append(m.entries, e)
	}
	return nil
}

func (m *memCorrections) SupersedeUnacknowledged(ctx context.Context, invoiceID string, at time.Time) error {
	for _, e := range m.entries {
		if e.InvoiceID == invoiceID && e.SupersededAt == nil && !e.ApprovedByPartner {
			t := at
			e.SupersededAt = &t
		}
	}
	return nil
}

func (m *memCorrections) AcknowledgeOutstanding(ctx context.Context, invoiceID string) error {
	for _, e := range m.entries {
		if e.InvoiceID == invoiceID && e.SupersededAt == nil {
			e.ApprovedByPartner = true
		}
	}
	return nil
}

func (m *memCorrections) GetLatestBatch(ctx context.Context, invoiceID string) ([]*entity.Correction, error) {
	var latest string
	for _, e := range m.entries {
		if e.InvoiceID == invoiceID && e.SupersededAt == nil {
			latest = e.BatchID
		}
	}
	if latest == "" {
		return nil, nil
	}
	var out []*entity.Correction
	for _, e := range m.entries {
		if e.BatchID == latest {
			out = append(out, e)
		}
	}
	return out, nil
}

func reviewInvoice() *entity.Invoice {
	return &entity.Invoice{ID: "inv-1", Status: "manager_review"}
}

func internalActor() entity.Actor {
	return entity.Actor{ID: "m1", Role: entity.RoleInternal, Position: entity.PositionManager}
}

func validInput() []Input {
	return []Input{
		{
			FieldName:      "items.2.unit_price",
			FieldType:      entity.FieldTypeUnitPrice,
			OriginalValue:  "250",
			CorrectedValue: "230",
			Reason:         "contract rate is 230",
		},
	}
}

func TestRecordBatch(t *testing.T) {
	t.Run("records entries under one batch id", func(t *testing.T) {
		repo := &memCorrections{}
		l := NewLedger(repo, zap.NewNop())

		inputs := append(validInput(), Input{
			FieldName:      "tax_amount",
			FieldType:      entity.FieldTypeAmount,
			OriginalValue:  "100",
			CorrectedValue: "92",
			Reason:         "recomputed",
		})

		entries, err := l.RecordBatch(context.Background(), reviewInvoice(), internalActor(), inputs)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, entries[0].BatchID, entries[1].BatchID)
		assert.Equal(t, "m1", entries[0].CorrectedByUserID)
		assert.False(t, entries[0].ApprovedByPartner)
	})

	t.Run("rejects when invoice is not under review", func(t *testing.T) {
		l := NewLedger(&memCorrections{}, zap.NewNop())
		inv := &entity.Invoice{ID: "inv-1", Status: "returned"}

		_, err := l.RecordBatch(context.Background(), inv, internalActor(), validInput())
		assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
	})

	t.Run("validation failures write nothing", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*Input)
		}{
			{"empty batch", nil},
			{"missing field name", func(in *Input) { in.FieldName = "" }},
			{"invalid field type", func(in *Input) { in.FieldType = "percentage" }},
			{"missing reason", func(in *Input) { in.Reason = "" }},
			{"no-op value", func(in *Input) { in.CorrectedValue = in.OriginalValue }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				repo := &memCorrections{}
				l := NewLedger(repo, zap.NewNop())

				var inputs []Input
				if tt.mutate != nil {
					inputs = validInput()
					tt.mutate(&inputs[0])
				}

				_, err := l.RecordBatch(context.Background(), reviewInvoice(), internalActor(), inputs)
				assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
				assert.Empty(t, repo.entries)
			})
		}
	})

	t.Run("new batch supersedes the outstanding one", func(t *testing.T) {
		repo := &memCorrections{}
		l := NewLedger(repo, zap.NewNop())

		first, err := l.RecordBatch(context.Background(), reviewInvoice(), internalActor(), validInput())
		require.NoError(t, err)

		second := validInput()
		second[0].FieldName = "items.1.quantity"
		_, err = l.RecordBatch(context.Background(), reviewInvoice(), internalActor(), second)
		require.NoError(t, err)

		assert.NotNil(t, repo.entries[0].SupersededAt, "first batch must be stamped, not deleted")
		assert.Equal(t, first[0].ID, repo.entries[0].ID)

		latest, err := l.LatestBatch(context.Background(), "inv-1")
		require.NoError(t, err)
		require.Len(t, latest, 1)
		assert.Equal(t, "items.1.quantity", latest[0].FieldName)
	})
}

func TestAcknowledge(t *testing.T) {
	repo := &memCorrections{}
	l := NewLedger(repo, zap.NewNop())

	_, err := l.RecordBatch(context.Background(), reviewInvoice(), internalActor(), validInput())
	require.NoError(t, err)

	require.NoError(t, l.Acknowledge(context.Background(), "inv-1"))
	assert.True(t, repo.entries[0].ApprovedByPartner)

	// An acknowledged batch survives a later supersede sweep.
	require.NoError(t, repo.SupersedeUnacknowledged(context.Background(), "inv-1", time.Now()))
	assert.Nil(t, repo.entries[0].SupersededAt)
}
