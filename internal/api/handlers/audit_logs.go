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

// AuditLogStore defines the persistence operations the audit log endpoints need.
type AuditLogStore interface {
	ListAuditLogs(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.AuditLog, error)
}

// AuditLogsHandler handles audit log HTTP endpoints.
type AuditLogsHandler struct {
	store  AuditLogStore
	logger zerolog.Logger
}

// NewAuditLogsHandler creates a new AuditLogsHandler.
func NewAuditLogsHandler(store AuditLogStore, logger zerolog.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{
		store:  store,
		logger: logger.With().Str("component", "audit_logs_handler").Logger(),
	}
}

// RegisterRoutes registers audit log routes on the given router group.
func (h *AuditLogsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/audit-logs", h.List)
}

// List returns the organization's audit logs, newest first.
// GET /api/v1/audit-logs?limit=&offset=
func (h *AuditLogsHandler) List(c *gin.Context) {
	org, _ := middleware.RequireIdentity(c)
	if org == nil {
		return
	}

	limit, offset := parsePagination(c)
	logs, err := h.store.ListAuditLogs(c.Request.Context(), org.ID, limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Str("org_id", org.ID.String()).Msg("failed to list audit logs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list audit logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"audit_logs": logs, "limit": limit, "offset": offset})
}
