// Package notify turns committed workflow events into notification
// records for the submitting company.
package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/application/dispatcher"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/application/port"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/entity"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/event"
)

// messages maps event types to the partner-facing announcement
var messages = map[event.Type]string{
	event.TypeInvoiceSubmitted:              "Invoice entered the approval chain",
	event.TypeInvoiceApproved:               "Invoice was approved",
	event.TypeInvoiceRejected:               "Invoice was rejected",
	event.TypeInvoiceReturned:               "Invoice was returned for correction",
	event.TypeInvoiceCorrectionAcknowledged: "Corrections were acknowledged, review resumed",
	event.TypeInvoicePaid:                   "Invoice was marked as paid",
	event.TypeInvoiceReceived:               "Delivery note was received",
}

// Notifier subscribes to workflow events and records a notification row
// per event. It runs on the dispatcher's async path: failures are logged
// and never affect the transition that emitted the event.
type Notifier struct {
	notifications port.NotificationRepository
	logger        *zap.Logger
}

// NewNotifier creates a notifier over the given repository
func NewNotifier(notifications port.NotificationRepository, logger *zap.Logger) *Notifier {
	return &Notifier{
		notifications: notifications,
		logger:        logger,
	}
}

// Register subscribes the notifier to every workflow event type
func (n *Notifier) Register(d dispatcher.Dispatcher) {
	for eventType := range messages {
		d.SubscribeNamed(eventType, fmt.Sprintf("notifier-%s", eventType), n.Handle)
	}
}

// Handle records one notification for a workflow event
func (n *Notifier) Handle(ctx context.Context, evt *event.Event) error {
	message, ok := messages[evt.Type]
	if !ok {
		return nil
	}

	notification := &entity.Notification{
		InvoiceID:          evt.InvoiceID,
		EventType:          evt.Type.String(),
		RecipientCompanyID: evt.GetPayloadString("company_id"),
		Message:            message,
		CreatedAt:          time.Now(),
	}

	if err := n.notifications.Create(ctx, notification); err != nil {
		n.logger.Error("Failed to record notification",
			zap.String("invoice_id", evt.InvoiceID),
			zap.String("event_type", evt.Type.String()),
			zap.Error(err))
		return err
	}

	n.logger.Debug("Notification recorded",
		zap.String("invoice_id", evt.InvoiceID),
		zap.String("event_type", evt.Type.String()))

	return nil
}
