package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/harborcrm/harbor/internal/models"
)

// CreateDeal creates a new deal.
func (db *DB) CreateDeal(ctx context.Context, deal *models.Deal) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO deals (id, org_id, contact_id, owner_id, title, stage, amount_cents, currency, close_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, deal.ID, deal.OrgID, deal.ContactID, deal.OwnerID, deal.Title, string(deal.Stage),
		deal.AmountCents, deal.Currency, deal.CloseDate, deal.CreatedAt, deal.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create deal: %w", err)
	}
	return nil
}

// scanDeal scans a single deal row.
func scanDeal(row interface{ Scan(dest ...any) error }) (*models.Deal, error) {
	var deal models.Deal
	var stageStr string
	err := row.Scan(
		&deal.ID, &deal.OrgID, &deal.ContactID, &deal.OwnerID, &deal.Title, &stageStr,
		&deal.AmountCents, &deal.Currency, &deal.CloseDate, &deal.CreatedAt, &deal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	deal.Stage = models.DealStage(stageStr)
	return &deal, nil
}

// GetDealByID returns a deal by ID, scoped to an organization.
func (db *DB) GetDealByID(ctx context.Context, orgID, id uuid.UUID) (*models.Deal, error) {
	deal, err := scanDeal(db.Pool.QueryRow(ctx, `
		SELECT id, org_id, contact_id, owner_id, title, stage, amount_cents, currency, close_date, created_at, updated_at
		FROM deals
		WHERE org_id = $1 AND id = $2
	`, orgID, id))
	if err != nil {
		return nil, fmt.Errorf("get deal: %w", err)
	}
	return deal, nil
}

// ListDeals returns deals for an organization, newest first.
func (db *DB) ListDeals(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Deal, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, org_id, contact_id, owner_id, title, stage, amount_cents, currency, close_date, created_at, updated_at
		FROM deals
		WHERE org_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, orgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()

	var deals []*models.Deal
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		deals = append(deals, deal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deals: %w", err)
	}

	return deals, nil
}

// ListDealsByContact returns deals for a single contact, newest first.
func (db *DB) ListDealsByContact(ctx context.Context, orgID, contactID uuid.UUID) ([]*models.Deal, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, org_id, contact_id, owner_id, title, stage, amount_cents, currency, close_date, created_at, updated_at
		FROM deals
		WHERE org_id = $1 AND contact_id = $2
		ORDER BY created_at DESC
	`, orgID, contactID)
	if err != nil {
		return nil, fmt.Errorf("list deals by contact: %w", err)
	}
	defer rows.Close()

	var deals []*models.Deal
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		deals = append(deals, deal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deals: %w", err)
	}

	return deals, nil
}

// UpdateDeal persists the mutable fields of a deal.
func (db *DB) UpdateDeal(ctx context.Context, deal *models.Deal) error {
	result, err := db.Pool.Exec(ctx, `
		UPDATE deals
		SET title = $1, amount_cents = $2, currency = $3, close_date = $4, updated_at = NOW()
		WHERE org_id = $5 AND id = $6
	`, deal.Title, deal.AmountCents, deal.Currency, deal.CloseDate, deal.OrgID, deal.ID)
	if err != nil {
		return fmt.Errorf("update deal: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("deal %w", ErrNotFound)
	}
	return nil
}

// UpdateDealStage moves a deal to a new pipeline stage.
func (db *DB) UpdateDealStage(ctx context.Context, orgID, id uuid.UUID, stage models.DealStage) error {
	result, err := db.Pool.Exec(ctx, `
		UPDATE deals SET stage = $1, updated_at = NOW()
		WHERE org_id = $2 AND id = $3
	`, string(stage), orgID, id)
	if err != nil {
		return fmt.Errorf("update deal stage: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("deal %w", ErrNotFound)
	}
	return nil
}

// DeleteDeal deletes a deal.
func (db *DB) DeleteDeal(ctx context.Context, orgID, id uuid.UUID) error {
	result, err := db.Pool.Exec(ctx, `
		DELETE FROM deals WHERE org_id = $1 AND id = $2
	`, orgID, id)
	if err != nil {
		return fmt.Errorf("delete deal: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("deal %w", ErrNotFound)
	}
	return nil
}
