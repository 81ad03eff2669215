package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/apperr"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/entity"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/pkg/database"
)

// InvoiceRepository handles invoice database operations
type InvoiceRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *database.DB, logger *zap.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts an invoice together with its line items
func (r *InvoiceRepository) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (
			id, status, document_type, construction_site_id, submitting_company_id,
			subtotal, tax_amount, total_amount, payment_due_date, version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	exec := r.db.Executor(ctx)
	_, err := exec.ExecContext(ctx, query,
		inv.ID,
		inv.Status,
		inv.DocumentType,
		inv.ConstructionSiteID,
		inv.SubmittingCompanyID,
		inv.Subtotal.String(),
		inv.TaxAmount.String(),
		inv.TotalAmount.String(),
		inv.PaymentDueDate,
		inv.Version,
	)
	if err != nil {
		r.logger.Error("Failed to create invoice", zap.String("id", inv.ID), zap.Error(err))
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	for _, item := range inv.Items {
		if err := r.insertItem(ctx, exec, item); err != nil {
			return err
		}
	}

	return nil
}

func (r *InvoiceRepository) insertItem(ctx context.Context, exec database.Executor, item *entity.LineItem) error {
	query := `
		INSERT INTO invoice_items (invoice_id, line_no, description, quantity, unit_price, amount)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := exec.ExecContext(ctx, query,
		item.InvoiceID,
		item.LineNo,
		item.Description,
		item.Quantity.String(),
		item.UnitPrice.String(),
		item.Amount.String(),
	)
	if err != nil {
		r.logger.Error("Failed to create invoice item",
			zap.String("invoice_id", item.InvoiceID),
			zap.Int("line_no", item.LineNo),
			zap.Error(err))
		return fmt.Errorf("failed to create invoice item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	item.ID = id
	return nil
}

// GetByID retrieves an invoice with its line items
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `
		SELECT id, status, document_type, construction_site_id, submitting_company_id,
			subtotal, tax_amount, total_amount, payment_due_date, submitted_at,
			return_reason, partner_acknowledged_at, version, created_at, updated_at
		FROM invoices
		WHERE id = ?
	`

	exec := r.db.Executor(ctx)

	var inv entity.Invoice
	var subtotal, taxAmount, totalAmount string
	var paymentDueDate, submittedAt, partnerAckAt sql.NullTime

	err := exec.QueryRowContext(ctx, query, id).Scan(
		&inv.ID,
		&inv.Status,
		&inv.DocumentType,
		&inv.ConstructionSiteID,
		&inv.SubmittingCompanyID,
		&subtotal,
		&taxAmount,
		&totalAmount,
		&paymentDueDate,
		&submittedAt,
		&inv.ReturnReason,
		&partnerAckAt,
		&inv.Version,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("invoice", id)
	}
	if err != nil {
		r.logger.Error("Failed to get invoice", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	if inv.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
		return nil, fmt.Errorf("invalid subtotal for invoice %s: %w", id, err)
	}
	if inv.TaxAmount, err = decimal.NewFromString(taxAmount); err != nil {
		return nil, fmt.Errorf("invalid tax amount for invoice %s: %w", id, err)
	}
	if inv.TotalAmount, err = decimal.NewFromString(totalAmount); err != nil {
		return nil, fmt.Errorf("invalid total amount for invoice %s: %w", id, err)
	}
	if paymentDueDate.Valid {
		inv.PaymentDueDate = &paymentDueDate.Time
	}
	if submittedAt.Valid {
		inv.SubmittedAt = &submittedAt.Time
	}
	if partnerAckAt.Valid {
		inv.PartnerAcknowledgedAt = &partnerAckAt.Time
	}

	items, err := r.getItems(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.Items = items

	return &inv, nil
}

func (r *InvoiceRepository) getItems(ctx context.Context, invoiceID string) ([]*entity.LineItem, error) {
	query := `
		SELECT id, invoice_id, line_no, description, quantity, unit_price, amount
		FROM invoice_items
		WHERE invoice_id = ?
		ORDER BY line_no ASC
	`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, invoiceID)
	if err != nil {
		r.logger.Error("Failed to get invoice items", zap.String("invoice_id", invoiceID), zap.Error(err))
		return nil, fmt.Errorf("failed to get invoice items: %w", err)
	}
	defer rows.Close()

	var items []*entity.LineItem
	for rows.Next() {
		var item entity.LineItem
		var quantity, unitPrice, amount string

		err := rows.Scan(
			&item.ID,
			&item.InvoiceID,
			&item.LineNo,
			&item.Description,
			&quantity,
			&unitPrice,
			&amount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice item: %w", err)
		}

		if item.Quantity, err = decimal.NewFromString(quantity); err != nil {
			return nil, fmt.Errorf("invalid quantity on line %d: %w", item.LineNo, err)
		}
		if item.UnitPrice, err = decimal.NewFromString(unitPrice); err != nil {
			return nil, fmt.Errorf("invalid unit price on line %d: %w", item.LineNo, err)
		}
		if item.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("invalid amount on line %d: %w", item.LineNo, err)
		}

		items = append(items, &item)
	}

	return items, rows.Err()
}

// ApplyTransition writes the invoice's status and transition-owned fields,
// conditioned on the version the caller observed. Zero affected rows for
// an existing invoice means another actor got there first.
func (r *InvoiceRepository) ApplyTransition(ctx context.Context, inv *entity.Invoice, expectedVersion int64) error {
	query := `
		UPDATE invoices
		SET status = ?,
			submitted_at = ?,
			return_reason = ?,
			partner_acknowledged_at = ?,
			version = version + 1,
			updated_at = ?
		WHERE id = ? AND version = ?
	`

	now := time.Now()
	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		inv.Status,
		inv.SubmittedAt,
		inv.ReturnReason,
		inv.PartnerAcknowledgedAt,
		now,
		inv.ID,
		expectedVersion,
	)
	if err != nil {
		r.logger.Error("Failed to apply invoice transition",
			zap.String("id", inv.ID),
			zap.String("status", inv.Status),
			zap.Error(err))
		return fmt.Errorf("failed to apply transition: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		var exists int
		err := r.db.Executor(ctx).QueryRowContext(ctx,
			"SELECT 1 FROM invoices WHERE id = ?", inv.ID).Scan(&exists)
		if err == sql.ErrNoRows {
			return apperr.NotFound("invoice", inv.ID)
		}
		if err != nil {
			return fmt.Errorf("failed to check invoice existence: %w", err)
		}
		return apperr.Conflict("invoice %s was modified concurrently (expected version %d)", inv.ID, expectedVersion)
	}

	inv.Version = expectedVersion + 1
	inv.UpdatedAt = now
	return nil
}
