// Package api wires the Harbor HTTP surface together.
package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/harborcrm/harbor/internal/api/handlers"
	"github.com/harborcrm/harbor/internal/api/middleware"
	"github.com/harborcrm/harbor/internal/audit"
	"github.com/harborcrm/harbor/internal/config"
	"github.com/harborcrm/harbor/internal/db"
	"github.com/harborcrm/harbor/internal/identity"
	"github.com/harborcrm/harbor/internal/metrics"
	"github.com/rs/zerolog"
)

// NewRouter builds the Gin engine with all middleware and routes.
func NewRouter(database *db.DB, cfg *config.ServerConfig, version string, logger zerolog.Logger) (*gin.Engine, error) {
	if cfg.Environment == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Metrics())

	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitPeriod)
	if err != nil {
		return nil, fmt.Errorf("configure rate limiter: %w", err)
	}
	router.Use(rateLimiter)

	recorder := audit.NewRecorder(database, logger)
	resolver := identity.NewResolver(database, identity.HeaderStrategy{}, cfg, logger)

	// Unscoped routes: health, metrics and the token-scoped portal carry
	// no request identity.
	handlers.NewHealthHandler(database, version).RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	handlers.NewPortalHandler(database, logger).RegisterRoutes(&router.RouterGroup)

	api := router.Group("/api/v1")
	api.Use(middleware.Identity(resolver, logger))
	{
		handlers.NewContactsHandler(database, recorder, logger).RegisterRoutes(api)
		handlers.NewDealsHandler(database, recorder, logger).RegisterRoutes(api)
		handlers.NewInvoicesHandler(database, recorder, logger).RegisterRoutes(api)
		handlers.NewDecisionLogsHandler(database, logger).RegisterRoutes(api)
		handlers.NewAuditLogsHandler(database, logger).RegisterRoutes(api)
	}

	return router, nil
}
