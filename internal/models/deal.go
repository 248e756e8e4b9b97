package models

import (
	"time"

	"github.com/google/uuid"
)

// DealStage defines the pipeline stage of a deal.
type DealStage string

const (
	// DealStageLead is a new, unqualified opportunity.
	DealStageLead DealStage = "lead"
	// DealStageQualified is an opportunity that has been qualified.
	DealStageQualified DealStage = "qualified"
	// DealStageProposal is an opportunity with a proposal out.
	DealStageProposal DealStage = "proposal"
	// DealStageWon is a closed-won deal.
	DealStageWon DealStage = "won"
	// DealStageLost is a closed-lost deal.
	DealStageLost DealStage = "lost"
)

// ValidDealStage returns true if s is a known pipeline stage.
func ValidDealStage(s DealStage) bool {
	switch s {
	case DealStageLead, DealStageQualified, DealStageProposal, DealStageWon, DealStageLost:
		return true
	}
	return false
}

// Deal represents a sales opportunity attached to a contact.
type Deal struct {
	ID          uuid.UUID  `json:"id"`
	OrgID       uuid.UUID  `json:"org_id"`
	ContactID   uuid.UUID  `json:"contact_id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Title       string     `json:"title"`
	Stage       DealStage  `json:"stage"`
	AmountCents int64      `json:"amount_cents"` // Amount in cents
	Currency    string     `json:"currency"`
	CloseDate   *time.Time `json:"close_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewDeal creates a new Deal in the lead stage.
func NewDeal(orgID, contactID, ownerID uuid.UUID, title string, amountCents int64, currency string) *Deal {
	now := time.Now()
	return &Deal{
		ID:          uuid.New(),
		OrgID:       orgID,
		ContactID:   contactID,
		OwnerID:     ownerID,
		Title:       title,
		Stage:       DealStageLead,
		AmountCents: amountCents,
		Currency:    currency,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsClosed returns true if the deal has reached a terminal stage.
func (d *Deal) IsClosed() bool {
	return d.Stage == DealStageWon || d.Stage == DealStageLost
}

// DealCreateRequest is the request body for creating a deal.
type DealCreateRequest struct {
	ContactID   uuid.UUID `json:"contact_id" binding:"required"`
	Title       string    `json:"title" binding:"required,min=1,max=255"`
	AmountCents int64     `json:"amount_cents" binding:"min=0"`
	Currency    string    `json:"currency,omitempty"`
}

// DealUpdateRequest is the request body for updating a deal.
// Nil fields are left unchanged.
type DealUpdateRequest struct {
	Title       *string    `json:"title,omitempty"`
	AmountCents *int64     `json:"amount_cents,omitempty"`
	Currency    *string    `json:"currency,omitempty"`
	CloseDate   *time.Time `json:"close_date,omitempty"`
}

// DealStageRequest is the request body for moving a deal to a new stage.
type DealStageRequest struct {
	Stage  DealStage `json:"stage" binding:"required"`
	Reason string    `json:"reason,omitempty"`
}
