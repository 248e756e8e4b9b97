package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/harborcrm/harbor/internal/api/middleware"
	"github.com/harborcrm/harbor/internal/models"
	"github.com/rs/zerolog"
)

// DecisionLogStore defines the persistence operations the decision trail needs.
type DecisionLogStore interface {
	ListDecisionLogs(ctx context.Context, orgID uuid.UUID) ([]*models.DecisionLogWithActor, error)
}

// DecisionLogsHandler serves the organization's decision trail.
type DecisionLogsHandler struct {
	store  DecisionLogStore
	logger zerolog.Logger
}

// NewDecisionLogsHandler creates a new DecisionLogsHandler.
func NewDecisionLogsHandler(store DecisionLogStore, logger zerolog.Logger) *DecisionLogsHandler {
	return &DecisionLogsHandler{
		store:  store,
		logger: logger.With().Str("component", "decision_logs_handler").Logger(),
	}
}

// RegisterRoutes registers decision trail routes on the given router group.
func (h *DecisionLogsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/decision-logs", h.List)
}

// List returns the most recent decisions for the organization, newest
// first, joined with each decision's actor. An empty trail is a normal
// 200 with an empty list.
// GET /api/v1/decision-logs
func (h *DecisionLogsHandler) List(c *gin.Context) {
	org, _ := middleware.RequireIdentity(c)
	if org == nil {
		return
	}

	logs, err := h.store.ListDecisionLogs(c.Request.Context(), org.ID)
	if err != nil {
		h.logger.Error().Err(err).Str("org_id", org.ID.String()).Msg("failed to list decision logs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list decision logs"})
		return
	}
	if logs == nil {
		logs = []*models.DecisionLogWithActor{}
	}

	c.JSON(http.StatusOK, gin.H{"decision_logs": logs})
}
