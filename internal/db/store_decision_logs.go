package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/harborcrm/harbor/internal/models"
)

// CreateDecisionLog appends a decision log entry. The database assigns the
// sequence number that preserves insertion order among same-timestamp rows.
func (db *DB) CreateDecisionLog(ctx context.Context, log *models.DecisionLog) error {
	details, err := marshalDetails(log.Details)
	if err != nil {
		return err
	}

	err = db.Pool.QueryRow(ctx, `
		INSERT INTO decision_logs (id, org_id, user_id, decision_type, summary, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING seq
	`, log.ID, log.OrgID, log.UserID, string(log.DecisionType), log.Summary, details, log.CreatedAt).
		Scan(&log.Seq)
	if err != nil {
		return fmt.Errorf("create decision log: %w", err)
	}
	return nil
}

// ListDecisionLogs returns the most recent decision log entries for an
// organization, newest first, joined with each entry's acting user. At most
// models.DecisionLogListLimit rows are returned; ties on creation time are
// broken by descending sequence number so ordering is stable.
func (db *DB) ListDecisionLogs(ctx context.Context, orgID uuid.UUID) ([]*models.DecisionLogWithActor, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT d.id, d.seq, d.org_id, d.user_id, d.decision_type, d.summary, d.details, d.created_at,
		       u.id, u.email, u.name
		FROM decision_logs d
		JOIN users u ON u.id = d.user_id
		WHERE d.org_id = $1
		ORDER BY d.created_at DESC, d.seq DESC
		LIMIT $2
	`, orgID, models.DecisionLogListLimit)
	if err != nil {
		return nil, fmt.Errorf("list decision logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.DecisionLogWithActor
	for rows.Next() {
		var log models.DecisionLogWithActor
		var decisionType string
		var details []byte
		if err := rows.Scan(
			&log.ID, &log.Seq, &log.OrgID, &log.UserID, &decisionType, &log.Summary, &details, &log.CreatedAt,
			&log.Actor.ID, &log.Actor.Email, &log.Actor.Name,
		); err != nil {
			return nil, fmt.Errorf("scan decision log: %w", err)
		}
		log.DecisionType = models.DecisionType(decisionType)
		if log.Details, err = unmarshalDetails(details); err != nil {
			return nil, err
		}
		logs = append(logs, &log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decision logs: %w", err)
	}

	return logs, nil
}
