package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserRole defines the privilege role of a user within an organization.
type UserRole string

const (
	// UserRoleStandard has regular access to the organization's CRM data.
	UserRoleStandard UserRole = "standard"
	// UserRoleSuperAdmin has full administrative access across the deployment.
	UserRoleSuperAdmin UserRole = "super_admin"
)

// User represents a person acting within an organization.
type User struct {
	ID        uuid.UUID `json:"id"`
	OrgID     uuid.UUID `json:"org_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given details.
func NewUser(orgID uuid.UUID, email, name string, role UserRole) *User {
	now := time.Now()
	return &User{
		ID:        uuid.New(),
		OrgID:     orgID,
		Email:     email,
		Name:      name,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsSuperAdmin returns true if the user has the super admin role.
func (u *User) IsSuperAdmin() bool {
	return u.Role == UserRoleSuperAdmin
}

// EmailLocalPart returns the part of an email address before the '@'.
// Returns the input unchanged when it contains no '@'.
func EmailLocalPart(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}
