package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
)

// RoleRepository defines the interface for role storage.
type RoleRepository interface {
	// FindByID retrieves a role by its UUID.
	FindByID(ctx context.Context, id uuid.UUID) (*models.Role, error)

	// FindByUserID retrieves all roles assigned to a user.
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Role, error)

	// FindByRealmID retrieves all roles defined in a realm.
	FindByRealmID(ctx context.Context, realmID uuid.UUID) ([]*models.Role, error)

	// Save persists a new role.
	Save(ctx context.Context, role *models.Role) error
}
