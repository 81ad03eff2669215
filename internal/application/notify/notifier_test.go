package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/application/dispatcher"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/entity"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/event"
)

type memNotifications struct {
	records []*entity.Notification
}

func (m *memNotifications) Create(ctx context.Context, n *entity.Notification) error {
	n.ID = int64(len(m.records) + 1)
	m.records = append(m.records, n)
	return nil
}

func (m *memNotifications) GetByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.Notification, error) {
	var out []*entity.Notification
	for _, n := range m.records {
		if n.InvoiceID == invoiceID {
			out = append(out, n)
		}
	}
	return out, nil
}

func TestNotifier_Handle(t *testing.T) {
	repo := &memNotifications{}
	n := NewNotifier(repo, zap.NewNop())

	evt := event.NewEvent(event.TypeInvoiceReturned, "inv-1", map[string]interface{}{
		"company_id": "company-1",
	})

	require.NoError(t, n.Handle(context.Background(), evt))

	require.Len(t, repo.records, 1)
	record := repo.records[0]
	assert.Equal(t, "inv-1", record.InvoiceID)
	assert.Equal(t, "invoice.returned", record.EventType)
	assert.Equal(t, "company-1", record.RecipientCompanyID)
	assert.NotEmpty(t, record.Message)
}

func TestNotifier_Register(t *testing.T) {
	repo := &memNotifications{}
	d := dispatcher.NewDispatcher(zap.NewNop())
	NewNotifier(repo, zap.NewNop()).Register(d)

	evt := event.NewEvent(event.TypeInvoicePaid, "inv-2", map[string]interface{}{
		"company_id": "company-1",
	})
	require.NoError(t, d.Dispatch(context.Background(), evt))

	records, err := repo.GetByInvoiceID(context.Background(), "inv-2")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
