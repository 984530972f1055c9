package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
)

// CredentialRepository defines the interface for credential storage.
type CredentialRepository interface {
	// FindByUserID retrieves all credentials registered for a user.
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Credential, error)

	// FindByUserIDAndType retrieves the credential of a given type for a
	// user. A user holds at most one credential per type.
	FindByUserIDAndType(ctx context.Context, userID uuid.UUID, credentialType string) (*models.Credential, error)

	// Save persists a new credential.
	Save(ctx context.Context, credential *models.Credential) error

	// Update persists changes to an existing credential.
	Update(ctx context.Context, credential *models.Credential) error

	// DeleteByUserIDAndType removes the credential of a given type for a
	// user, if present.
	DeleteByUserIDAndType(ctx context.Context, userID uuid.UUID, credentialType string) error
}
