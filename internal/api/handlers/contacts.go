// Package handlers implements the Harbor HTTP API endpoints.
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/harborcrm/harbor/internal/api/middleware"
	"github.com/harborcrm/harbor/internal/audit"
	"github.com/harborcrm/harbor/internal/db"
	"github.com/harborcrm/harbor/internal/models"
	"github.com/rs/zerolog"
)

// ContactStore defines the persistence operations the contact endpoints need.
type ContactStore interface {
	CreateContact(ctx context.Context, contact *models.Contact) error
	GetContactByID(ctx context.Context, orgID, id uuid.UUID) (*models.Contact, error)
	ListContacts(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Contact, error)
	UpdateContact(ctx context.Context, contact *models.Contact) error
	DeleteContact(ctx context.Context, orgID, id uuid.UUID) error
	CreatePortalToken(ctx context.Context, token *models.PortalToken) error
}

// ContactsHandler handles contact HTTP endpoints.
type ContactsHandler struct {
	store    ContactStore
	recorder *audit.Recorder
	logger   zerolog.Logger
}

// NewContactsHandler creates a new ContactsHandler.
func NewContactsHandler(store ContactStore, recorder *audit.Recorder, logger zerolog.Logger) *ContactsHandler {
	return &ContactsHandler{
		store:    store,
		recorder: recorder,
		logger:   logger.With().Str("component", "contacts_handler").Logger(),
	}
}

// RegisterRoutes registers contact routes on the given router group.
func (h *ContactsHandler) RegisterRoutes(r *gin.RouterGroup) {
	contacts := r.Group("/contacts")
	{
		contacts.POST("", h.Create)
		contacts.GET("", h.List)
		contacts.GET("/:id", h.Get)
		contacts.PUT("/:id", h.Update)
		contacts.DELETE("/:id", h.Delete)
		contacts.POST("/:id/portal-token", h.MintPortalToken)
	}
}

// Create creates a new contact owned by the requesting user.
// POST /api/v1/contacts
func (h *ContactsHandler) Create(c *gin.Context) {
	org, user := middleware.RequireIdentity(c)
	if org == nil {
		return
	}

	var req models.ContactCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contact := models.NewContact(org.ID, user.ID, req.Name)
	contact.Email = req.Email
	contact.Phone = req.Phone
	contact.Company = req.Company
	contact.Title = req.Title
	contact.Notes = req.Notes

	if err := h.store.CreateContact(c.Request.Context(), contact); err != nil {
		h.logger.Error().Err(err).Str("org_id", org.ID.String()).Msg("failed to create contact")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create contact"})
		return
	}

	h.recorder.Record(c.Request.Context(), audit.Entry{
		OrgID:      org.ID,
		ActorID:    &user.ID,
		Action:     "contact.create",
		EntityType: "contact",
		EntityID:   &contact.ID,
		Details:    map[string]any{"name": contact.Name},
	})

	c.JSON(http.StatusCreated, contact)
}

// List returns the organization's contacts, newest first.
// GET /api/v1/contacts?limit=&offset=
func (h *ContactsHandler) List(c *gin.Context) {
	org, _ := middleware.RequireIdentity(c)
	if org == nil {
		return
	}

	limit, offset := parsePagination(c)
	contacts, err := h.store.ListContacts(c.Request.Context(), org.ID, limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Str("org_id", org.ID.String()).Msg("failed to list contacts")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list contacts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"contacts": contacts, "limit": limit, "offset": offset})
}

// Get returns a single contact.
// GET /api/v1/contacts/:id
func (h *ContactsHandler) Get(c *gin.Context) {
	org, _ := middleware.RequireIdentity(c)
	if org == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact ID"})
		return
	}

	contact, err := h.store.GetContactByID(c.Request.Context(), org.ID, id)
	if err != nil {
		if db.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "contact not found"})
			return
		}
		h.logger.Error().Err(err).Str("contact_id", id.String()).Msg("failed to get contact")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get contact"})
		return
	}

	c.JSON(http.StatusOK, contact)
}

// Update modifies a contact. Absent fields are left unchanged.
// PUT /api/v1/contacts/:id
func (h *ContactsHandler) Update(c *gin.Context) {
	org, user := middleware.RequireIdentity(c)
	if org == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact ID"})
		return
	}

	var req models.ContactUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contact, err := h.store.GetContactByID(c.Request.Context(), org.ID, id)
	if err != nil {
		if db.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "contact not found"})
			return
		}
		h.logger.Error().Err(err).Str("contact_id", id.String()).Msg("failed to get contact")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update contact"})
		return
	}

	if req.Name != nil {
		contact.Name = *req.Name
	}
	if req.Email != nil {
		contact.Email = *req.Email
	}
	if req.Phone != nil {
		contact.Phone = *req.Phone
	}
	if req.Company != nil {
		contact.Company = *req.Company
	}
	if req.Title != nil {
		contact.Title = *req.Title
	}
	if req.Notes != nil {
		contact.Notes = *req.Notes
	}

	if err := h.store.UpdateContact(c.Request.Context(), contact); err != nil {
		if db.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "contact not found"})
			return
		}
		h.logger.Error().Err(err).Str("contact_id", id.String()).Msg("failed to update contact")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update contact"})
		return
	}

	h.recorder.Record(c.Request.Context(), audit.Entry{
		OrgID:      org.ID,
		ActorID:    &user.ID,
		Action:     "contact.update",
		EntityType: "contact",
		EntityID:   &contact.ID,
	})

	c.JSON(http.StatusOK, contact)
}

// Delete removes a contact.
// DELETE /api/v1/contacts/:id
func (h *ContactsHandler) Delete(c *gin.Context) {
	org, user := middleware.RequireIdentity(c)
	if org == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact ID"})
		return
	}

	if err := h.store.DeleteContact(c.Request.Context(), org.ID, id); err != nil {
		if db.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "contact not found"})
			return
		}
		h.logger.Error().Err(err).Str("contact_id", id.String()).Msg("failed to delete contact")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete contact"})
		return
	}

	h.recorder.Record(c.Request.Context(), audit.Entry{
		OrgID:      org.ID,
		ActorID:    &user.ID,
		Action:     "contact.delete",
		EntityType: "contact",
		EntityID:   &id,
	})

	c.JSON(http.StatusOK, gin.H{"message": "contact deleted"})
}

// MintPortalToken issues a portal access token for a contact.
// POST /api/v1/contacts/:id/portal-token
func (h *ContactsHandler) MintPortalToken(c *gin.Context) {
	org, user := middleware.RequireIdentity(c)
	if org == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact ID"})
		return
	}

	contact, err := h.store.GetContactByID(c.Request.Context(), org.ID, id)
	if err != nil {
		if db.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "contact not found"})
			return
		}
		h.logger.Error().Err(err).Str("contact_id", id.String()).Msg("failed to get contact")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mint portal token"})
		return
	}

	token := models.NewPortalToken(org.ID, contact.ID, models.DefaultPortalTokenTTL)
	if err := h.store.CreatePortalToken(c.Request.Context(), token); err != nil {
		h.logger.Error().Err(err).Str("contact_id", id.String()).Msg("failed to create portal token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mint portal token"})
		return
	}

	h.recorder.Record(c.Request.Context(), audit.Entry{
		OrgID:      org.ID,
		ActorID:    &user.ID,
		Action:     "contact.portal_token_mint",
		EntityType: "contact",
		EntityID:   &contact.ID,
		Details:    map[string]any{"expires_at": token.ExpiresAt},
	})

	c.JSON(http.StatusCreated, token)
}

// parsePagination reads limit/offset query params with sane defaults.
func parsePagination(c *gin.Context) (limit, offset int) {
	limit = 100
	offset = 0
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 500 {
		limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
