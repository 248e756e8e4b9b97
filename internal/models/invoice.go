package models

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceStatus defines the status of an invoice.
type InvoiceStatus string

const (
	// InvoiceStatusDraft is an invoice that has not been sent.
	InvoiceStatusDraft InvoiceStatus = "draft"
	// InvoiceStatusSent is an invoice that has been sent to the contact.
	InvoiceStatusSent InvoiceStatus = "sent"
	// InvoiceStatusPaid is a paid invoice.
	InvoiceStatusPaid InvoiceStatus = "paid"
	// InvoiceStatusOverdue is an overdue invoice.
	InvoiceStatusOverdue InvoiceStatus = "overdue"
	// InvoiceStatusCancelled is a cancelled invoice.
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// Invoice represents an invoice billed to a contact, optionally tied to a deal.
type Invoice struct {
	ID            uuid.UUID     `json:"id"`
	OrgID         uuid.UUID     `json:"org_id"`
	ContactID     uuid.UUID     `json:"contact_id"`
	DealID        *uuid.UUID    `json:"deal_id,omitempty"`
	InvoiceNumber string        `json:"invoice_number"`
	Status        InvoiceStatus `json:"status"`
	Currency      string        `json:"currency"`
	SubtotalCents int64         `json:"subtotal_cents"` // Amount in cents
	TaxCents      int64         `json:"tax_cents"`      // Tax amount in cents
	TotalCents    int64         `json:"total_cents"`    // Total amount in cents
	DueDate       *time.Time    `json:"due_date,omitempty"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
	SentAt        *time.Time    `json:"sent_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// NewInvoice creates a new draft Invoice.
func NewInvoice(orgID, contactID uuid.UUID, invoiceNumber, currency string, subtotalCents, taxCents int64) *Invoice {
	now := time.Now()
	return &Invoice{
		ID:            uuid.New(),
		OrgID:         orgID,
		ContactID:     contactID,
		InvoiceNumber: invoiceNumber,
		Status:        InvoiceStatusDraft,
		Currency:      currency,
		SubtotalCents: subtotalCents,
		TaxCents:      taxCents,
		TotalCents:    subtotalCents + taxCents,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsPaid returns true if the invoice has been paid.
func (i *Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPaid
}

// InvoiceCreateRequest is the request body for creating an invoice.
type InvoiceCreateRequest struct {
	ContactID     uuid.UUID  `json:"contact_id" binding:"required"`
	DealID        *uuid.UUID `json:"deal_id,omitempty"`
	InvoiceNumber string     `json:"invoice_number" binding:"required,min=1,max=64"`
	Currency      string     `json:"currency,omitempty"`
	SubtotalCents int64      `json:"subtotal_cents" binding:"min=0"`
	TaxCents      int64      `json:"tax_cents" binding:"min=0"`
	DueDate       *time.Time `json:"due_date,omitempty"`
}
