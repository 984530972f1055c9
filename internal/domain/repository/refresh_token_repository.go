package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
)

// RefreshTokenRepository defines the interface for refresh token metadata
// storage. Records are keyed by the JWT jti claim and consulted on every
// refresh_token grant to enforce revocation and rotation.
type RefreshTokenRepository interface {
	// Save persists a new refresh token record.
	Save(ctx context.Context, token *models.RefreshToken) error

	// FindByJTI retrieves a refresh token record by its jti.
	FindByJTI(ctx context.Context, jti uuid.UUID) (*models.RefreshToken, error)

	// Revoke marks the record with the given jti as revoked.
	Revoke(ctx context.Context, jti uuid.UUID) error

	// Delete removes the record with the given jti. Called during rotation
	// once a replacement token has been issued.
	Delete(ctx context.Context, jti uuid.UUID) error

	// DeleteExpired removes records whose expiry has passed.
	DeleteExpired(ctx context.Context) (int64, error)
}
