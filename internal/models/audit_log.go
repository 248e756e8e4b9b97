package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog represents a single append-only audit record of an action performed
// within an organization. Audit logs are never updated or deleted.
type AuditLog struct {
	ID         uuid.UUID      `json:"id"`
	OrgID      uuid.UUID      `json:"org_id"`
	ActorID    *uuid.UUID     `json:"actor_id,omitempty"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type,omitempty"`
	EntityID   *uuid.UUID     `json:"entity_id,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// NewAuditLog creates a new AuditLog entry for the given organization and action.
func NewAuditLog(orgID uuid.UUID, action string) *AuditLog {
	return &AuditLog{
		ID:        uuid.New(),
		OrgID:     orgID,
		Action:    action,
		CreatedAt: time.Now(),
	}
}

// WithActor sets the acting user for the audit log.
func (a *AuditLog) WithActor(userID uuid.UUID) *AuditLog {
	a.ActorID = &userID
	return a
}

// WithEntity sets the entity the action was performed on.
func (a *AuditLog) WithEntity(entityType string, entityID uuid.UUID) *AuditLog {
	a.EntityType = entityType
	a.EntityID = &entityID
	return a
}

// WithDetails attaches structured metadata to the audit log.
func (a *AuditLog) WithDetails(details map[string]any) *AuditLog {
	a.Details = details
	return a
}
