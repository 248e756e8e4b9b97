package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/harborcrm/harbor/internal/models"
)

// marshalDetails encodes a details map as JSONB input, using an empty object
// for absent metadata so the column never stores NULL.
func marshalDetails(details map[string]any) ([]byte, error) {
	if details == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("marshal details: %w", err)
	}
	return data, nil
}

// unmarshalDetails decodes a JSONB column into a details map, returning nil
// for an empty object.
func unmarshalDetails(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var details map[string]any
	if err := json.Unmarshal(data, &details); err != nil {
		return nil, fmt.Errorf("unmarshal details: %w", err)
	}
	if len(details) == 0 {
		return nil, nil
	}
	return details, nil
}

// CreateAuditLog inserts a new audit log entry.
func (db *DB) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	details, err := marshalDetails(log.Details)
	if err != nil {
		return err
	}

	var entityType *string
	if log.EntityType != "" {
		entityType = &log.EntityType
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO audit_logs (id, org_id, actor_id, action, entity_type, entity_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, log.ID, log.OrgID, log.ActorID, log.Action, entityType, log.EntityID, details, log.CreatedAt)
	if err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

// ListAuditLogs returns audit logs for an organization, newest first.
func (db *DB) ListAuditLogs(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, org_id, actor_id, action, entity_type, entity_id, details, created_at
		FROM audit_logs
		WHERE org_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, orgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.AuditLog
	for rows.Next() {
		var log models.AuditLog
		var entityType *string
		var details []byte
		if err := rows.Scan(&log.ID, &log.OrgID, &log.ActorID, &log.Action, &entityType, &log.EntityID, &details, &log.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		if entityType != nil {
			log.EntityType = *entityType
		}
		if log.Details, err = unmarshalDetails(details); err != nil {
			return nil, err
		}
		logs = append(logs, &log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit logs: %w", err)
	}

	return logs, nil
}
