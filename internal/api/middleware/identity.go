// Package middleware provides HTTP middleware for the Harbor API.
package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harborcrm/harbor/internal/models"
	"github.com/rs/zerolog"
)

// ContextKey is the type for context keys used by this package.
type ContextKey string

const (
	// OrgContextKey is the context key for the resolved organization.
	OrgContextKey ContextKey = "org"
	// UserContextKey is the context key for the resolved user.
	UserContextKey ContextKey = "user"
)

// IdentityResolver resolves the acting organization and user for a request.
type IdentityResolver interface {
	Resolve(ctx context.Context, r *http.Request) (*models.Organization, *models.User, error)
}

// Identity returns a Gin middleware that resolves the request's
// organization and user and stores both in the context. Requests that
// cannot be resolved are rejected with 503: identity resolution only
// fails when the database is unreachable after retries.
func Identity(resolver IdentityResolver, logger zerolog.Logger) gin.HandlerFunc {
	log := logger.With().Str("component", "identity_middleware").Logger()

	return func(c *gin.Context) {
		org, user, err := resolver.Resolve(c.Request.Context(), c.Request)
		if err != nil {
			log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("identity resolution failed")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "identity resolution failed"})
			return
		}

		c.Set(string(OrgContextKey), org)
		c.Set(string(UserContextKey), user)

		log.Debug().
			Str("user_id", user.ID.String()).
			Str("org_id", org.ID.String()).
			Str("path", c.Request.URL.Path).
			Msg("resolved request identity")

		c.Next()
	}
}

// GetOrg retrieves the resolved organization from the Gin context.
// Returns nil if identity middleware has not run.
func GetOrg(c *gin.Context) *models.Organization {
	val, exists := c.Get(string(OrgContextKey))
	if !exists {
		return nil
	}
	org, ok := val.(*models.Organization)
	if !ok {
		return nil
	}
	return org
}

// GetUser retrieves the resolved user from the Gin context.
// Returns nil if identity middleware has not run.
func GetUser(c *gin.Context) *models.User {
	val, exists := c.Get(string(UserContextKey))
	if !exists {
		return nil
	}
	user, ok := val.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// RequireIdentity returns the resolved organization and user, or aborts
// with 503 when identity middleware did not populate the context.
func RequireIdentity(c *gin.Context) (*models.Organization, *models.User) {
	org := GetOrg(c)
	user := GetUser(c)
	if org == nil || user == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "identity not resolved"})
		return nil, nil
	}
	return org, user
}
