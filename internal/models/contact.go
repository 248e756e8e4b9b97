package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact represents a person or lead tracked in the CRM.
type Contact struct {
	ID        uuid.UUID `json:"id"`
	OrgID     uuid.UUID `json:"org_id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	Title     string    `json:"title,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewContact creates a new Contact owned by the given user.
func NewContact(orgID, ownerID uuid.UUID, name string) *Contact {
	now := time.Now()
	return &Contact{
		ID:        uuid.New(),
		OrgID:     orgID,
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ContactCreateRequest is the request body for creating a contact.
type ContactCreateRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=255"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
	Title   string `json:"title,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// ContactUpdateRequest is the request body for updating a contact.
// Nil fields are left unchanged.
type ContactUpdateRequest struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Company *string `json:"company,omitempty"`
	Title   *string `json:"title,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}
