// Package identity resolves the acting organization and user for each
// request, creating both records on first sight so that every request
// operates with a persisted identity.
package identity

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/harborcrm/harbor/internal/config"
	"github.com/harborcrm/harbor/internal/models"
	"github.com/harborcrm/harbor/internal/retry"
	"github.com/rs/zerolog"
)

// Header names consulted by the default resolution strategy.
const (
	HeaderUserEmail = "X-User-Email"
	HeaderUserName  = "X-User-Name"
)

// upsertAttempts bounds how many times each identity write is tried
// before the request is failed.
const upsertAttempts = 3

// Claims carries the raw identity hints extracted from a request.
// Either field may be empty; the resolver fills the gaps.
type Claims struct {
	Email string
	Name  string
}

// Strategy extracts identity claims from an incoming request. Swapping
// the strategy changes where identity comes from without touching the
// resolution pipeline.
type Strategy interface {
	Extract(r *http.Request) Claims
}

// HeaderStrategy reads identity claims from trusted proxy headers.
type HeaderStrategy struct{}

// Extract returns the trimmed header values.
func (HeaderStrategy) Extract(r *http.Request) Claims {
	return Claims{
		Email: strings.TrimSpace(r.Header.Get(HeaderUserEmail)),
		Name:  strings.TrimSpace(r.Header.Get(HeaderUserName)),
	}
}

// Store is the subset of database operations the resolver needs.
type Store interface {
	UpsertDefaultOrg(ctx context.Context) (*models.Organization, error)
	UpsertUserByEmail(ctx context.Context, user *models.User) (*models.User, error)
}

// Resolver turns an incoming request into a persisted organization and
// user pair.
type Resolver struct {
	store    Store
	strategy Strategy
	cfg      *config.ServerConfig
	policy   retry.Policy
	logger   zerolog.Logger
}

// NewResolver creates a resolver backed by the given store and claim
// extraction strategy.
func NewResolver(store Store, strategy Strategy, cfg *config.ServerConfig, logger zerolog.Logger) *Resolver {
	return &Resolver{
		store:    store,
		strategy: strategy,
		cfg:      cfg,
		policy:   retry.DefaultPolicy(),
		logger:   logger.With().Str("component", "identity").Logger(),
	}
}

// Resolve determines the organization and user acting on a request,
// creating both if they do not exist yet. The user's email falls back
// to the configured default, then to the built-in fallback address;
// the display name falls back to the email's local part. The role is
// computed from the super-admin address on every request, but only
// applies when the user is first created.
func (res *Resolver) Resolve(ctx context.Context, r *http.Request) (*models.Organization, *models.User, error) {
	claims := res.strategy.Extract(r)

	email := claims.Email
	if email == "" {
		email = res.cfg.DefaultUserEmail
	}
	if email == "" {
		email = config.FallbackEmail
	}

	name := claims.Name
	if name == "" {
		name = models.EmailLocalPart(email)
	}

	org, err := retry.Do(ctx, res.policy, res.logger, "upsert organization", upsertAttempts, func() (*models.Organization, error) {
		return res.store.UpsertDefaultOrg(ctx)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("resolve organization: %w", err)
	}

	role := res.roleFor(email)
	user, err := retry.Do(ctx, res.policy, res.logger, "upsert user", upsertAttempts, func() (*models.User, error) {
		return res.store.UpsertUserByEmail(ctx, models.NewUser(org.ID, email, name, role))
	})
	if err != nil {
		return nil, nil, fmt.Errorf("resolve user: %w", err)
	}

	return org, user, nil
}

// roleFor grants super admin to the configured admin address,
// compared case-insensitively.
func (res *Resolver) roleFor(email string) models.UserRole {
	adminEmail := res.cfg.SuperAdminEmail
	if adminEmail == "" {
		adminEmail = config.FallbackEmail
	}
	if strings.EqualFold(email, adminEmail) {
		return models.UserRoleSuperAdmin
	}
	return models.UserRoleStandard
}
