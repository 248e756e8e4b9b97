package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/harborcrm/harbor/internal/models"
)

// CreateContact creates a new contact.
func (db *DB) CreateContact(ctx context.Context, contact *models.Contact) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO contacts (id, org_id, owner_id, name, email, phone, company, title, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, contact.ID, contact.OrgID, contact.OwnerID, contact.Name, contact.Email,
		contact.Phone, contact.Company, contact.Title, contact.Notes, contact.CreatedAt, contact.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create contact: %w", err)
	}
	return nil
}

// GetContactByID returns a contact by ID, scoped to an organization.
func (db *DB) GetContactByID(ctx context.Context, orgID, id uuid.UUID) (*models.Contact, error) {
	var contact models.Contact
	err := db.Pool.QueryRow(ctx, `
		SELECT id, org_id, owner_id, name, email, phone, company, title, notes, created_at, updated_at
		FROM contacts
		WHERE org_id = $1 AND id = $2
	`, orgID, id).Scan(
		&contact.ID, &contact.OrgID, &contact.OwnerID, &contact.Name, &contact.Email,
		&contact.Phone, &contact.Company, &contact.Title, &contact.Notes, &contact.CreatedAt, &contact.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return &contact, nil
}

// ListContacts returns contacts for an organization, newest first.
func (db *DB) ListContacts(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Contact, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, org_id, owner_id, name, email, phone, company, title, notes, created_at, updated_at
		FROM contacts
		WHERE org_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, orgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		var contact models.Contact
		if err := rows.Scan(
			&contact.ID, &contact.OrgID, &contact.OwnerID, &contact.Name, &contact.Email,
			&contact.Phone, &contact.Company, &contact.Title, &contact.Notes, &contact.CreatedAt, &contact.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, &contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}

	return contacts, nil
}

// UpdateContact persists the mutable fields of a contact.
func (db *DB) UpdateContact(ctx context.Context, contact *models.Contact) error {
	result, err := db.Pool.Exec(ctx, `
		UPDATE contacts
		SET name = $1, email = $2, phone = $3, company = $4, title = $5, notes = $6, updated_at = NOW()
		WHERE org_id = $7 AND id = $8
	`, contact.Name, contact.Email, contact.Phone, contact.Company, contact.Title, contact.Notes,
		contact.OrgID, contact.ID)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("contact %w", ErrNotFound)
	}
	return nil
}

// DeleteContact deletes a contact.
func (db *DB) DeleteContact(ctx context.Context, orgID, id uuid.UUID) error {
	result, err := db.Pool.Exec(ctx, `
		DELETE FROM contacts WHERE org_id = $1 AND id = $2
	`, orgID, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("contact %w", ErrNotFound)
	}
	return nil
}
