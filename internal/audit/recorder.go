// Package audit records who did what. Audit writes are best-effort:
// a failed write is logged and counted but never fails the request
// that triggered it.
package audit

import (
	"context"

	"github.com/google/uuid"
	"github.com/harborcrm/harbor/internal/metrics"
	"github.com/harborcrm/harbor/internal/models"
	"github.com/rs/zerolog"
)

// Store is the subset of database operations the recorder needs.
type Store interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// Entry describes a single auditable action. OrgID and Action are
// required; everything else is optional context.
type Entry struct {
	OrgID      uuid.UUID
	ActorID    *uuid.UUID
	Action     string
	EntityType string
	EntityID   *uuid.UUID
	Details    map[string]any
}

// Recorder persists audit entries.
type Recorder struct {
	store  Store
	logger zerolog.Logger
}

// NewRecorder creates an audit recorder backed by the given store.
func NewRecorder(store Store, logger zerolog.Logger) *Recorder {
	return &Recorder{
		store:  store,
		logger: logger.With().Str("component", "audit").Logger(),
	}
}

// Record writes an audit entry and returns the persisted log, or nil
// if the write failed. Failures never propagate to the caller.
func (r *Recorder) Record(ctx context.Context, entry Entry) *models.AuditLog {
	log := models.NewAuditLog(entry.OrgID, entry.Action)
	if entry.ActorID != nil {
		log = log.WithActor(*entry.ActorID)
	}
	if entry.EntityType != "" && entry.EntityID != nil {
		log = log.WithEntity(entry.EntityType, *entry.EntityID)
	}
	if entry.Details != nil {
		log = log.WithDetails(entry.Details)
	}

	if err := r.store.CreateAuditLog(ctx, log); err != nil {
		metrics.AuditWriteFailures.Inc()
		r.logger.Error().Err(err).
			Str("action", entry.Action).
			Str("org_id", entry.OrgID.String()).
			Msg("Failed to write audit log")
		return nil
	}

	return log
}
