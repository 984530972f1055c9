package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
	"github.com/rbenna1/ferriskey-sub000/internal/domain/repository"
	"github.com/rbenna1/ferriskey-sub000/pkg/errors"
	"github.com/rbenna1/ferriskey-sub000/pkg/logger"
)

// KeyRepoImpl implements KeyRepository using PostgreSQL.
type KeyRepoImpl struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewKeyRepository creates a PostgreSQL-backed signing key repository.
func NewKeyRepository(db *gorm.DB, log logger.Logger) repository.KeyRepository {
	return &KeyRepoImpl{db: db, logger: log}
}

func (r *KeyRepoImpl) FindByRealmID(ctx context.Context, realmID uuid.UUID) (*models.RealmKey, error) {
	var key models.RealmKey
	err := r.db.WithContext(ctx).Where("realm_id = ?", realmID).First(&key).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrSigningKeyNotFound(realmID.String())
		}
		r.logger.Error(ctx, "failed to retrieve realm signing key", err,
			logger.String("realm_id", realmID.String()),
		)
		return nil, errors.ErrServerError("signing key lookup failed").WithCause(err)
	}
	return &key, nil
}

func (r *KeyRepoImpl) Save(ctx context.Context, key *models.RealmKey) error {
	start := time.Now()

	if err := r.db.WithContext(ctx).Create(key).Error; err != nil {
		// The unique index on realm_id rejects a second key for the same
		// realm. The caller re-reads the winning row on conflict.
		return errors.ErrServerError("signing key persistence failed").WithCause(err)
	}

	r.logger.Info(ctx, "realm signing key persisted",
		logger.String("kid", key.ID.String()),
		logger.String("realm_id", key.RealmID.String()),
		logger.Int64("latency_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
