package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/harborcrm/harbor/internal/api/middleware"
	"github.com/harborcrm/harbor/internal/audit"
	"github.com/harborcrm/harbor/internal/db"
	"github.com/harborcrm/harbor/internal/models"
	"github.com/rs/zerolog"
)

// DealStore defines the persistence operations the deal endpoints need.
type DealStore interface {
	CreateDeal(ctx context.Context, deal *models.Deal) error
	GetDealByID(ctx context.Context, orgID, id uuid.UUID) (*models.Deal, error)
	GetContactByID(ctx context.Context, orgID, id uuid.UUID) (*models.Contact, error)
	ListDeals(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Deal, error)
	UpdateDeal(ctx context.Context, deal *models.Deal) error
	UpdateDealStage(ctx context.Context, orgID, id uuid.UUID, stage models.DealStage) error
	DeleteDeal(ctx context.Context, orgID, id uuid.UUID) error
	CreateDecisionLog(ctx context.Context, log *models.DecisionLog) error
}

// DealsHandler handles deal HTTP endpoints.
type DealsHandler struct {
	store    DealStore
	recorder *audit.Recorder
	logger   zerolog.Logger
}

// NewDealsHandler creates a new DealsHandler.
func NewDealsHandler(store DealStore, recorder *audit.Recorder, logger zerolog.Logger) *DealsHandler {
	return &DealsHandler{
		store:    store,
		recorder: recorder,
		logger:   logger.With().Str("component", "deals_handler").Logger(),
	}
}

// RegisterRoutes registers deal routes on the given router group.
func (h *DealsHandler) RegisterRoutes(r *gin.RouterGroup) {
	deals := r.Group("/deals")
	{
		deals.POST("", h.Create)
		deals.GET("", h.List)
		deals.GET("/:id", h.Get)
		deals.PUT("/:id", h.Update)
		deals.DELETE("/:id", h.Delete)
		deals.POST("/:id/stage", h.ChangeStage)
	}
}

// Create creates a new deal in the lead stage.
// POST /api/v1/deals
func (h *DealsHandler) Create(c *gin.Context) {
	org, user := middleware.RequireIdentity(c)
	if org == nil {
		return
	}

	var req models.DealCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The contact must exist within the caller's organization.
	if _, err := h.store.GetContactByID(c.Request.Context(), org.ID, req.ContactID); err != nil {
		if db.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "contact not found"})
			return
		}
		h.logger.Error().Err(err).Str("contact_id", req.ContactID.String()).Msg("failed to get contact")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create deal"})
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	deal := models.NewDeal(org.ID, req.ContactID, user.ID, req.Title, req.AmountCents, currency)
	if err := h.store.CreateDeal(c.Request.Context(), deal); err != nil {
		h.logger.Error().Err(err).Str("org_id", org.ID.String()).Msg("failed to create deal")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create deal"})
		return
	}

	h.recorder.Record(c.Request.Context(), audit.Entry{
		OrgID:      org.ID,
		ActorID:    &user.ID,
		Action:     "deal.create",
		EntityType: "deal",
		EntityID:   &deal.ID,
		Details:    map[string]any{"title": deal.Title, "amount_cents": deal.AmountCents},
	})

	c.JSON(http.StatusCreated, deal)
}

// List returns the organization's deals, newest first.
// GET /api/v1/deals?limit=&offset=
func (h *DealsHandler) List(c *gin.Context) {
	org, _ := middleware.RequireIdentity(c)
	if org == nil {
		return
	}

	limit, offset := parsePagination(c)
	deals, err := h.store.ListDeals(c.Request.Context(), org.ID, limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Str("org_id", org.ID.String()).Msg("failed to list deals")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list deals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deals": deals, "limit": limit, "offset": offset})
}

// Get returns a single deal.
// GET /api/v1/deals/:id
func (h *DealsHandler) Get(c *gin.Context) {
	org, _ := middleware.RequireIdentity(c)
	if org == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deal ID"})
		return
	}

	deal, err := h.store.GetDealByID(c.Request.Context(), org.ID, id)
	if err != nil {
		if db.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "deal not found"})
			return
		}
		h.logger.Error().Err(err).Str("deal_id", id.String()).Msg("failed to get deal")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get deal"})
		return
	}

	c.JSON(http.StatusOK, deal)
}

// Update modifies a deal's mutable fields. Stage changes go through
// ChangeStage so the decision trail stays complete.
// PUT /api/v1/deals/:id
func (h *DealsHandler) Update(c *gin.Context) {
	org, user := middleware.RequireIdentity(c)
	if org == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deal ID"})
		return
	}

	var req models.DealUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deal, err := h.store.GetDealByID(c.Request.Context(), org.ID, id)
	if err != nil {
		if db.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "deal not found"})
			return
		}
		h.logger.Error().Err(err).Str("deal_id", id.String()).Msg("failed to get deal")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update deal"})
		return
	}

	if req.Title != nil {
		deal.Title = *req.Title
	}
	if req.AmountCents != nil {
		deal.AmountCents = *req.AmountCents
	}
	if req.Currency != nil {
		deal.Currency = *req.Currency
	}
	if req.CloseDate != nil {
		deal.CloseDate = req.CloseDate
	}

	if err := h.store.UpdateDeal(c.Request.Context(), deal); err != nil {
		if db.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "deal not found"})
			return
		}
		h.logger.Error().Err(err).Str("deal_id", id.String()).Msg("failed to update deal")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update deal"})
		return
	}

	h.recorder.Record(c.Request.Context(), audit.Entry{
		OrgID:      org.ID,
		ActorID:    &user.ID,
		Action:     "deal.update",
		EntityType: "deal",
		EntityID:   &deal.ID,
	})

	c.JSON(http.StatusOK, deal)
}

// ChangeStage moves a deal to a new pipeline stage, recording the
// decision in the decision trail.
// POST /api/v1/deals/:id/stage
func (h *DealsHandler) ChangeStage(c *gin.Context) {
	org, user := middleware.RequireIdentity(c)
	if org == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deal ID"})
		return
	}

	var req models.DealStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidDealStage(req.Stage) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deal stage"})
		return
	}

	deal, err := h.store.GetDealByID(c.Request.Context(), org.ID, id)
	if err != nil {
		if db.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "deal not found"})
			return
		}
		h.logger.Error().Err(err).Str("deal_id", id.String()).Msg("failed to get deal")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to change deal stage"})
		return
	}

	previous := deal.Stage
	if err := h.store.UpdateDealStage(c.Request.Context(), org.ID, id, req.Stage); err != nil {
		if db.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "deal not found"})
			return
		}
		h.logger.Error().Err(err).Str("deal_id", id.String()).Msg("failed to change deal stage")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to change deal stage"})
		return
	}
	deal.Stage = req.Stage

	decision := models.NewDecisionLog(org.ID, user.ID, models.DecisionTypeDealStage,
		"deal "+deal.Title+" moved from "+string(previous)+" to "+string(req.Stage)).
		WithDetails(map[string]any{
			"deal_id": deal.ID.String(),
			"from":    string(previous),
			"to":      string(req.Stage),
			"reason":  req.Reason,
		})
	if err := h.store.CreateDecisionLog(c.Request.Context(), decision); err != nil {
		// The stage change already committed; a lost decision entry is
		// logged but does not fail the request.
		h.logger.Error().Err(err).Str("deal_id", id.String()).Msg("failed to record stage decision")
	}

	h.recorder.Record(c.Request.Context(), audit.Entry{
		OrgID:      org.ID,
		ActorID:    &user.ID,
		Action:     "deal.stage_change",
		EntityType: "deal",
		EntityID:   &deal.ID,
		Details:    map[string]any{"from": string(previous), "to": string(req.Stage)},
	})

	c.JSON(http.StatusOK, deal)
}

// Delete removes a deal.
// DELETE /api/v1/deals/:id
func (h *DealsHandler) Delete(c *gin.Context) {
	org, user := middleware.RequireIdentity(c)
	if org == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deal ID"})
		return
	}

	if err := h.store.DeleteDeal(c.Request.Context(), org.ID, id); err != nil {
		if db.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "deal not found"})
			return
		}
		h.logger.Error().Err(err).Str("deal_id", id.String()).Msg("failed to delete deal")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete deal"})
		return
	}

	h.recorder.Record(c.Request.Context(), audit.Entry{
		OrgID:      org.ID,
		ActorID:    &user.ID,
		Action:     "deal.delete",
		EntityType: "deal",
		EntityID:   &id,
	})

	c.JSON(http.StatusOK, gin.H{"message": "deal deleted"})
}
