// Package repository 定义领域仓储接口
// 仓储接口遵循 DDD 原则，定义领域对象的持久化契约
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
)

// RealmRepository defines the interface for interacting with realm storage.
type RealmRepository interface {
	// FindByID retrieves a realm by its UUID.
	FindByID(ctx context.Context, id uuid.UUID) (*models.Realm, error)

	// FindByName retrieves a realm by its unique name.
	FindByName(ctx context.Context, name string) (*models.Realm, error)

	// FindAll retrieves all realms, with pagination.
	FindAll(ctx context.Context, limit, offset int) ([]*models.Realm, error)

	// Save persists a new realm.
	Save(ctx context.Context, realm *models.Realm) error

	// Update persists changes to an existing realm.
	Update(ctx context.Context, realm *models.Realm) error

	// Delete removes a realm. The master realm is permanent and must be
	// rejected by callers before reaching this method.
	Delete(ctx context.Context, id uuid.UUID) error
}
