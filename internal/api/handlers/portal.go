package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/harborcrm/harbor/internal/db"
	"github.com/harborcrm/harbor/internal/models"
	"github.com/rs/zerolog"
)

// PortalStore defines the persistence operations the client portal needs.
type PortalStore interface {
	GetValidPortalToken(ctx context.Context, token string) (*models.PortalToken, error)
	ListInvoicesByContact(ctx context.Context, orgID, contactID uuid.UUID) ([]*models.Invoice, error)
	ListDealsByContact(ctx context.Context, orgID, contactID uuid.UUID) ([]*models.Deal, error)
}

// PortalHandler serves the unauthenticated client portal. Access is
// scoped entirely by the token: a valid token reads exactly one
// contact's records, and expired or unknown tokens look identical to
// the caller.
type PortalHandler struct {
	store  PortalStore
	logger zerolog.Logger
}

// NewPortalHandler creates a new PortalHandler.
func NewPortalHandler(store PortalStore, logger zerolog.Logger) *PortalHandler {
	return &PortalHandler{
		store:  store,
		logger: logger.With().Str("component", "portal_handler").Logger(),
	}
}

// RegisterRoutes registers portal routes on the given router group.
// The group must NOT carry identity middleware.
func (h *PortalHandler) RegisterRoutes(r *gin.RouterGroup) {
	portal := r.Group("/portal/:token")
	{
		portal.GET("/invoices", h.ListInvoices)
		portal.GET("/deals", h.ListDeals)
	}
}

// resolveToken validates the token path parameter, writing a 404 and
// returning nil when it is expired or unknown.
func (h *PortalHandler) resolveToken(c *gin.Context) *models.PortalToken {
	token, err := h.store.GetValidPortalToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		if db.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return nil
		}
		h.logger.Error().Err(err).Msg("failed to look up portal token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "portal unavailable"})
		return nil
	}
	return token
}

// ListInvoices returns the token's contact's invoices.
// GET /portal/:token/invoices
func (h *PortalHandler) ListInvoices(c *gin.Context) {
	token := h.resolveToken(c)
	if token == nil {
		return
	}

	invoices, err := h.store.ListInvoicesByContact(c.Request.Context(), token.OrgID, token.ContactID)
	if err != nil {
		h.logger.Error().Err(err).Str("contact_id", token.ContactID.String()).Msg("failed to list portal invoices")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "portal unavailable"})
		return
	}
	if invoices == nil {
		invoices = []*models.Invoice{}
	}

	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}

// ListDeals returns the token's contact's deals.
// GET /portal/:token/deals
func (h *PortalHandler) ListDeals(c *gin.Context) {
	token := h.resolveToken(c)
	if token == nil {
		return
	}

	deals, err := h.store.ListDealsByContact(c.Request.Context(), token.OrgID, token.ContactID)
	if err != nil {
		h.logger.Error().Err(err).Str("contact_id", token.ContactID.String()).Msg("failed to list portal deals")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "portal unavailable"})
		return
	}
	if deals == nil {
		deals = []*models.Deal{}
	}

	c.JSON(http.StatusOK, gin.H{"deals": deals})
}
