package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/harborcrm/harbor/internal/models"
)

// CreateInvoice creates a new invoice.
func (db *DB) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO invoices (id, org_id, contact_id, deal_id, invoice_number, status, currency,
		                      subtotal_cents, tax_cents, total_cents, due_date, paid_at, sent_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, invoice.ID, invoice.OrgID, invoice.ContactID, invoice.DealID, invoice.InvoiceNumber,
		string(invoice.Status), invoice.Currency, invoice.SubtotalCents, invoice.TaxCents,
		invoice.TotalCents, invoice.DueDate, invoice.PaidAt, invoice.SentAt, invoice.CreatedAt, invoice.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create invoice: %w", err)
	}
	return nil
}

// scanInvoice scans a single invoice row.
func scanInvoice(row interface{ Scan(dest ...any) error }) (*models.Invoice, error) {
	var invoice models.Invoice
	var statusStr string
	err := row.Scan(
		&invoice.ID, &invoice.OrgID, &invoice.ContactID, &invoice.DealID, &invoice.InvoiceNumber,
		&statusStr, &invoice.Currency, &invoice.SubtotalCents, &invoice.TaxCents, &invoice.TotalCents,
		&invoice.DueDate, &invoice.PaidAt, &invoice.SentAt, &invoice.CreatedAt, &invoice.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	invoice.Status = models.InvoiceStatus(statusStr)
	return &invoice, nil
}

const invoiceColumns = `id, org_id, contact_id, deal_id, invoice_number, status, currency,
	subtotal_cents, tax_cents, total_cents, due_date, paid_at, sent_at, created_at, updated_at`

// GetInvoiceByID returns an invoice by ID, scoped to an organization.
func (db *DB) GetInvoiceByID(ctx context.Context, orgID, id uuid.UUID) (*models.Invoice, error) {
	invoice, err := scanInvoice(db.Pool.QueryRow(ctx, `
		SELECT `+invoiceColumns+`
		FROM invoices
		WHERE org_id = $1 AND id = $2
	`, orgID, id))
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return invoice, nil
}

// ListInvoices returns invoices for an organization, newest first.
func (db *DB) ListInvoices(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT `+invoiceColumns+`
		FROM invoices
		WHERE org_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, orgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoices: %w", err)
	}

	return invoices, nil
}

// ListInvoicesByContact returns invoices for a single contact, newest first.
func (db *DB) ListInvoicesByContact(ctx context.Context, orgID, contactID uuid.UUID) ([]*models.Invoice, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT `+invoiceColumns+`
		FROM invoices
		WHERE org_id = $1 AND contact_id = $2
		ORDER BY created_at DESC
	`, orgID, contactID)
	if err != nil {
		return nil, fmt.Errorf("list invoices by contact: %w", err)
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoices: %w", err)
	}

	return invoices, nil
}

// MarkInvoiceSent transitions an invoice from draft to sent.
func (db *DB) MarkInvoiceSent(ctx context.Context, orgID, id uuid.UUID) error {
	result, err := db.Pool.Exec(ctx, `
		UPDATE invoices SET status = $1, sent_at = NOW(), updated_at = NOW()
		WHERE org_id = $2 AND id = $3 AND status = $4
	`, string(models.InvoiceStatusSent), orgID, id, string(models.InvoiceStatusDraft))
	if err != nil {
		return fmt.Errorf("mark invoice sent: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("invoice not in draft status: %w", ErrConflict)
	}
	return nil
}

// MarkInvoicePaid transitions an invoice to paid.
func (db *DB) MarkInvoicePaid(ctx context.Context, orgID, id uuid.UUID) error {
	result, err := db.Pool.Exec(ctx, `
		UPDATE invoices SET status = $1, paid_at = NOW(), updated_at = NOW()
		WHERE org_id = $2 AND id = $3 AND status NOT IN ($4, $5)
	`, string(models.InvoiceStatusPaid), orgID, id,
		string(models.InvoiceStatusPaid), string(models.InvoiceStatusCancelled))
	if err != nil {
		return fmt.Errorf("mark invoice paid: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("invoice not payable: %w", ErrConflict)
	}
	return nil
}

// DeleteInvoice deletes an invoice.
func (db *DB) DeleteInvoice(ctx context.Context, orgID, id uuid.UUID) error {
	result, err := db.Pool.Exec(ctx, `
		DELETE FROM invoices WHERE org_id = $1 AND id = $2
	`, orgID, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("invoice %w", ErrNotFound)
	}
	return nil
}
