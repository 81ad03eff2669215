package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/entity"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/pkg/database"
)

// NotificationRepository handles workflow notification records
type NotificationRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *database.DB, logger *zap.Logger) *NotificationRepository {
	return &NotificationRepository{
		db:     db,
		logger: logger,
	}
}

// Create records a notification
func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (invoice_id, event_type, recipient_company_id, message, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		n.InvoiceID,
		n.EventType,
		n.RecipientCompanyID,
		n.Message,
		n.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create notification",
			zap.String("invoice_id", n.InvoiceID),
			zap.String("event_type", n.EventType),
			zap.Error(err))
		return fmt.Errorf("failed to create notification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	n.ID = id
	return nil
}

// GetByInvoiceID retrieves all notifications for an invoice, oldest first
func (r *NotificationRepository) GetByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.Notification, error) {
	query := `
		SELECT id, invoice_id, event_type, recipient_company_id, message, created_at
		FROM notifications
		WHERE invoice_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, invoiceID)
	if err != nil {
		r.logger.Error("Failed to get notifications", zap.String("invoice_id", invoiceID), zap.Error(err))
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	defer rows.Close()

	var records []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		err := rows.Scan(
			&n.ID,
			&n.InvoiceID,
			&n.EventType,
			&n.RecipientCompanyID,
			&n.Message,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		records = append(records, &n)
	}

	return records, rows.Err()
}
