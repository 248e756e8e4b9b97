package db

import (
	"context"
	"fmt"

	"github.com/harborcrm/harbor/internal/models"
)

// CreatePortalToken creates a new portal token.
func (db *DB) CreatePortalToken(ctx context.Context, token *models.PortalToken) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO portal_tokens (id, org_id, contact_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, token.ID, token.OrgID, token.ContactID, token.Token, token.ExpiresAt, token.CreatedAt)
	if err != nil {
		return fmt.Errorf("create portal token: %w", err)
	}
	return nil
}

// GetValidPortalToken returns an unexpired portal token by its token string.
// An expired or unknown token yields pgx.ErrNoRows.
func (db *DB) GetValidPortalToken(ctx context.Context, token string) (*models.PortalToken, error) {
	var pt models.PortalToken
	err := db.Pool.QueryRow(ctx, `
		SELECT id, org_id, contact_id, token, expires_at, created_at
		FROM portal_tokens
		WHERE token = $1 AND expires_at > NOW()
	`, token).Scan(&pt.ID, &pt.OrgID, &pt.ContactID, &pt.Token, &pt.ExpiresAt, &pt.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get portal token: %w", err)
	}
	return &pt, nil
}
