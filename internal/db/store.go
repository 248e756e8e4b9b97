package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/harborcrm/harbor/internal/models"
)

// Organization methods

// UpsertDefaultOrg returns the deployment's default organization, creating it
// atomically if absent. Concurrent first calls race on a single
// ON CONFLICT upsert keyed by slug, so they all converge on one row; the
// update arm is a no-op that exists only to make RETURNING yield the winner.
func (db *DB) UpsertDefaultOrg(ctx context.Context) (*models.Organization, error) {
	candidate := models.NewDefaultOrganization()

	var org models.Organization
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO organizations (id, name, slug, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (slug) DO UPDATE SET updated_at = organizations.updated_at
		RETURNING id, name, slug, created_at, updated_at
	`, candidate.ID, candidate.Name, candidate.Slug, candidate.CreatedAt, candidate.UpdatedAt).
		Scan(&org.ID, &org.Name, &org.Slug, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert default organization: %w", err)
	}

	return &org, nil
}

// GetOrganizationByID returns an organization by its ID.
func (db *DB) GetOrganizationByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	var org models.Organization
	err := db.Pool.QueryRow(ctx, `
		SELECT id, name, slug, created_at, updated_at
		FROM organizations
		WHERE id = $1
	`, id).Scan(&org.ID, &org.Name, &org.Slug, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return &org, nil
}

// User methods

// UpsertUserByEmail creates or updates a user keyed by email. On create the
// name, role and organization are persisted; on conflict only the name is
// refreshed — an existing user's role and organization are never changed by
// re-resolution.
func (db *DB) UpsertUserByEmail(ctx context.Context, user *models.User) (*models.User, error) {
	var out models.User
	var roleStr string
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO users (id, org_id, email, name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, updated_at = NOW()
		RETURNING id, org_id, email, name, role, created_at, updated_at
	`, user.ID, user.OrgID, user.Email, user.Name, string(user.Role), user.CreatedAt, user.UpdatedAt).
		Scan(&out.ID, &out.OrgID, &out.Email, &out.Name, &roleStr, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert user by email: %w", err)
	}
	out.Role = models.UserRole(roleStr)
	return &out, nil
}

// GetUserByID returns a user by their ID.
func (db *DB) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	var roleStr string
	err := db.Pool.QueryRow(ctx, `
		SELECT id, org_id, email, name, role, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id).Scan(&user.ID, &user.OrgID, &user.Email, &user.Name, &roleStr, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get user by ID: %w", err)
	}
	user.Role = models.UserRole(roleStr)
	return &user, nil
}

// GetUserByEmail returns a user by their email address (exact match).
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	var roleStr string
	err := db.Pool.QueryRow(ctx, `
		SELECT id, org_id, email, name, role, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email).Scan(&user.ID, &user.OrgID, &user.Email, &user.Name, &roleStr, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	user.Role = models.UserRole(roleStr)
	return &user, nil
}

// ListUsersByOrgID returns all users within an organization.
func (db *DB) ListUsersByOrgID(ctx context.Context, orgID uuid.UUID) ([]*models.User, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, org_id, email, name, role, created_at, updated_at
		FROM users
		WHERE org_id = $1
		ORDER BY email
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		var roleStr string
		if err := rows.Scan(&user.ID, &user.OrgID, &user.Email, &user.Name, &roleStr, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		user.Role = models.UserRole(roleStr)
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}
