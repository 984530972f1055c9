package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
)

// KeyRepository defines the interface for realm signing key persistence.
type KeyRepository interface {
	// FindByRealmID retrieves the active signing key for a realm.
	FindByRealmID(ctx context.Context, realmID uuid.UUID) (*models.RealmKey, error)

	// Save persists a newly generated signing key. The unique index on
	// realm_id guarantees at most one key per realm; a conflicting insert
	// returns an error so the caller can re-read the winning row.
	Save(ctx context.Context, key *models.RealmKey) error
}
