package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/harborcrm/harbor/internal/api/middleware"
	"github.com/harborcrm/harbor/internal/audit"
	"github.com/harborcrm/harbor/internal/db"
	"github.com/harborcrm/harbor/internal/models"
	"github.com/rs/zerolog"
)

// InvoiceStore defines the persistence operations the invoice endpoints need.
type InvoiceStore interface {
	CreateInvoice(ctx context.Context, invoice *models.Invoice) error
	GetInvoiceByID(ctx context.Context, orgID, id uuid.UUID) (*models.Invoice, error)
	GetContactByID(ctx context.Context, orgID, id uuid.UUID) (*models.Contact, error)
	ListInvoices(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Invoice, error)
	MarkInvoiceSent(ctx context.Context, orgID, id uuid.UUID) error
	MarkInvoicePaid(ctx context.Context, orgID, id uuid.UUID) error
	DeleteInvoice(ctx context.Context, orgID, id uuid.UUID) error
	CreateDecisionLog(ctx context.Context, log *models.DecisionLog) error
}

// InvoicesHandler handles invoice HTTP endpoints.
type InvoicesHandler struct {
	store    InvoiceStore
	recorder *audit.Recorder
	logger   zerolog.Logger
}

// NewInvoicesHandler creates a new InvoicesHandler.
func NewInvoicesHandler(store InvoiceStore, recorder *audit.Recorder, logger zerolog.Logger) *InvoicesHandler {
	return &InvoicesHandler{
		store:    store,
		recorder: recorder,
		logger:   logger.With().Str("component", "invoices_handler").Logger(),
	}
}

// RegisterRoutes registers invoice routes on the given router group.
func (h *InvoicesHandler) RegisterRoutes(r *gin.RouterGroup) {
	invoices := r.Group("/invoices")
	{
		invoices.POST("", h.Create)
		invoices.GET("", h.List)
		invoices.GET("/:id", h.Get)
		invoices.POST("/:id/send", h.Send)
		invoices.POST("/:id/pay", h.Pay)
		invoices.DELETE("/:id", h.Delete)
	}
}

// Create creates a new draft invoice.
// POST /api/v1/invoices
func (h *InvoicesHandler) Create(c *gin.Context) {
	org, user := middleware.RequireIdentity(c)
	if org == nil {
		return
	}

	var req models.InvoiceCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.store.GetContactByID(c.Request.Context(), org.ID, req.ContactID); err != nil {
		if db.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "contact not found"})
			return
		}
		h.logger.Error().Err(err).Str("contact_id", req.ContactID.String()).Msg("failed to get contact")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create invoice"})
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	invoice := models.NewInvoice(org.ID, req.ContactID, req.InvoiceNumber, currency, req.SubtotalCents, req.TaxCents)
	invoice.DealID = req.DealID
	invoice.DueDate = req.DueDate

	if err := h.store.CreateInvoice(c.Request.Context(), invoice); err != nil {
		h.logger.Error().Err(err).Str("org_id", org.ID.String()).Msg("failed to create invoice")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create invoice"})
		return
	}

	h.recorder.Record(c.Request.Context(), audit.Entry{
		OrgID:      org.ID,
		ActorID:    &user.ID,
		Action:     "invoice.create",
		EntityType: "invoice",
		EntityID:   &invoice.ID,
		Details:    map[string]any{"invoice_number": invoice.InvoiceNumber, "total_cents": invoice.TotalCents},
	})

	c.JSON(http.StatusCreated, invoice)
}

// List returns the organization's invoices, newest first.
// GET /api/v1/invoices?limit=&offset=
func (h *InvoicesHandler) List(c *gin.Context) {
	org, _ := middleware.RequireIdentity(c)
	if org == nil {
		return
	}

	limit, offset := parsePagination(c)
	invoices, err := h.store.ListInvoices(c.Request.Context(), org.ID, limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Str("org_id", org.ID.String()).Msg("failed to list invoices")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list invoices"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoices": invoices, "limit": limit, "offset": offset})
}

// Get returns a single invoice.
// GET /api/v1/invoices/:id
func (h *InvoicesHandler) Get(c *gin.Context) {
	org, _ := middleware.RequireIdentity(c)
	if org == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice ID"})
		return
	}

	invoice, err := h.store.GetInvoiceByID(c.Request.Context(), org.ID, id)
	if err != nil {
		if db.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
			return
		}
		h.logger.Error().Err(err).Str("invoice_id", id.String()).Msg("failed to get invoice")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get invoice"})
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// Send transitions a draft invoice to sent.
// POST /api/v1/invoices/:id/send
func (h *InvoicesHandler) Send(c *gin.Context) {
	org, user := middleware.RequireIdentity(c)
	if org == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice ID"})
		return
	}

	if _, err := h.store.GetInvoiceByID(c.Request.Context(), org.ID, id); err != nil {
		if db.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
			return
		}
		h.logger.Error().Err(err).Str("invoice_id", id.String()).Msg("failed to get invoice")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send invoice"})
		return
	}

	if err := h.store.MarkInvoiceSent(c.Request.Context(), org.ID, id); err != nil {
		if errors.Is(err, db.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "invoice is not in draft status"})
			return
		}
		h.logger.Error().Err(err).Str("invoice_id", id.String()).Msg("failed to mark invoice sent")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send invoice"})
		return
	}

	h.recorder.Record(c.Request.Context(), audit.Entry{
		OrgID:      org.ID,
		ActorID:    &user.ID,
		Action:     "invoice.send",
		EntityType: "invoice",
		EntityID:   &id,
	})

	c.JSON(http.StatusOK, gin.H{"message": "invoice sent"})
}

// Pay settles an invoice, recording the decision in the decision trail.
// POST /api/v1/invoices/:id/pay
func (h *InvoicesHandler) Pay(c *gin.Context) {
	org, user := middleware.RequireIdentity(c)
	if org == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice ID"})
		return
	}

	invoice, err := h.store.GetInvoiceByID(c.Request.Context(), org.ID, id)
	if err != nil {
		if db.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
			return
		}
		h.logger.Error().Err(err).Str("invoice_id", id.String()).Msg("failed to get invoice")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to pay invoice"})
		return
	}

	if err := h.store.MarkInvoicePaid(c.Request.Context(), org.ID, id); err != nil {
		if errors.Is(err, db.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "invoice is not payable"})
			return
		}
		h.logger.Error().Err(err).Str("invoice_id", id.String()).Msg("failed to mark invoice paid")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to pay invoice"})
		return
	}

	decision := models.NewDecisionLog(org.ID, user.ID, models.DecisionTypeInvoicePaid,
		"invoice "+invoice.InvoiceNumber+" marked paid").
		WithDetails(map[string]any{
			"invoice_id":  invoice.ID.String(),
			"total_cents": invoice.TotalCents,
			"currency":    invoice.Currency,
		})
	if err := h.store.CreateDecisionLog(c.Request.Context(), decision); err != nil {
		h.logger.Error().Err(err).Str("invoice_id", id.String()).Msg("failed to record payment decision")
	}

	h.recorder.Record(c.Request.Context(), audit.Entry{
		OrgID:      org.ID,
		ActorID:    &user.ID,
		Action:     "invoice.pay",
		EntityType: "invoice",
		EntityID:   &id,
		Details:    map[string]any{"total_cents": invoice.TotalCents},
	})

	c.JSON(http.StatusOK, gin.H{"message": "invoice paid"})
}

// Delete removes an invoice.
// DELETE /api/v1/invoices/:id
func (h *InvoicesHandler) Delete(c *gin.Context) {
	org, user := middleware.RequireIdentity(c)
	if org == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice ID"})
		return
	}

	if err := h.store.DeleteInvoice(c.Request.Context(), org.ID, id); err != nil {
		if db.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
			return
		}
		h.logger.Error().Err(err).Str("invoice_id", id.String()).Msg("failed to delete invoice")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete invoice"})
		return
	}

	h.recorder.Record(c.Request.Context(), audit.Entry{
		OrgID:      org.ID,
		ActorID:    &user.ID,
		Action:     "invoice.delete",
		EntityType: "invoice",
		EntityID:   &id,
	})

	c.JSON(http.StatusOK, gin.H{"message": "invoice deleted"})
}
