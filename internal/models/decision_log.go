package models

import (
	"time"

	"github.com/google/uuid"
)

// DecisionLogListLimit caps how many decision log entries a single listing returns.
const DecisionLogListLimit = 50

// DecisionType classifies the kind of decision that was recorded.
type DecisionType string

const (
	// DecisionTypeDealStage records a deal moving to a new pipeline stage.
	DecisionTypeDealStage DecisionType = "deal_stage"
	// DecisionTypeInvoicePaid records an invoice being settled.
	DecisionTypeInvoicePaid DecisionType = "invoice_paid"
)

// DecisionLog represents a higher-level decision made on behalf of an
// organization. Entries are append-only; Seq is assigned by the database and
// preserves insertion order for entries sharing a creation timestamp.
type DecisionLog struct {
	ID           uuid.UUID      `json:"id"`
	Seq          int64          `json:"-"`
	OrgID        uuid.UUID      `json:"org_id"`
	UserID       uuid.UUID      `json:"user_id"`
	DecisionType DecisionType   `json:"decision_type"`
	Summary      string         `json:"summary"`
	Details      map[string]any `json:"details,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// NewDecisionLog creates a new DecisionLog entry.
func NewDecisionLog(orgID, userID uuid.UUID, decisionType DecisionType, summary string) *DecisionLog {
	return &DecisionLog{
		ID:           uuid.New(),
		OrgID:        orgID,
		UserID:       userID,
		DecisionType: decisionType,
		Summary:      summary,
		CreatedAt:    time.Now(),
	}
}

// WithDetails attaches structured metadata to the decision log.
func (d *DecisionLog) WithDetails(details map[string]any) *DecisionLog {
	d.Details = details
	return d
}

// DecisionLogActor holds the public fields of the user who made a decision.
type DecisionLogActor struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name,omitempty"`
}

// DecisionLogWithActor is a decision log entry joined with its acting user.
type DecisionLogWithActor struct {
	DecisionLog
	Actor DecisionLogActor `json:"actor"`
}
