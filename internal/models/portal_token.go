package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// DefaultPortalTokenTTL is the lifetime of a newly minted portal token.
const DefaultPortalTokenTTL = 30 * 24 * time.Hour

// PortalToken grants a contact read-only access to their own invoices and
// deals through the client portal, without a login flow.
type PortalToken struct {
	ID        uuid.UUID `json:"id"`
	OrgID     uuid.UUID `json:"org_id"`
	ContactID uuid.UUID `json:"contact_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPortalToken creates a new PortalToken for the given contact.
func NewPortalToken(orgID, contactID uuid.UUID, ttl time.Duration) *PortalToken {
	now := time.Now()
	return &PortalToken{
		ID:        uuid.New(),
		OrgID:     orgID,
		ContactID: contactID,
		Token:     generatePortalToken(),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

// IsExpired returns true if the token is past its expiry.
func (p *PortalToken) IsExpired() bool {
	return time.Now().After(p.ExpiresAt)
}

// generatePortalToken returns a 64-character random hex token.
func generatePortalToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return hex.EncodeToString(b)
}
