// Package models defines the domain models for Harbor.
package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultOrgSlug is the slug of the single default organization for a deployment.
const DefaultOrgSlug = "default"

// DefaultOrgName is the display name given to the default organization on first creation.
const DefaultOrgName = "Default Organization"

// Organization represents a multi-tenant organization (workspace).
type Organization struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewOrganization creates a new Organization with the given name and slug.
func NewOrganization(name, slug string) *Organization {
	now := time.Now()
	return &Organization{
		ID:        uuid.New(),
		Name:      name,
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewDefaultOrganization creates the deployment-wide default organization.
func NewDefaultOrganization() *Organization {
	return NewOrganization(DefaultOrgName, DefaultOrgSlug)
}
