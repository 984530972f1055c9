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

// RealmRepoImpl implements RealmRepository using PostgreSQL.
type RealmRepoImpl struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewRealmRepository creates a PostgreSQL-backed realm repository.
func NewRealmRepository(db *gorm.DB, log logger.Logger) repository.RealmRepository {
	return &RealmRepoImpl{db: db, logger: log}
}

func (r *RealmRepoImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Realm, error) {
	var realm models.Realm
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&realm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRealmNotFound(id.String())
		}
		r.logger.Error(ctx, "failed to retrieve realm by id", err,
			logger.String("realm_id", id.String()),
		)
		return nil, errors.ErrServerError("realm lookup failed").WithCause(err)
	}
	return &realm, nil
}

func (r *RealmRepoImpl) FindByName(ctx context.Context, name string) (*models.Realm, error) {
	var realm models.Realm
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&realm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			r.logger.Debug(ctx, "realm not found", logger.String("realm", name))
			return nil, errors.ErrRealmNotFound(name)
		}
		r.logger.Error(ctx, "failed to retrieve realm by name", err,
			logger.String("realm", name),
		)
		return nil, errors.ErrServerError("realm lookup failed").WithCause(err)
	}
	return &realm, nil
}

func (r *RealmRepoImpl) FindAll(ctx context.Context, limit, offset int) ([]*models.Realm, error) {
	var realms []*models.Realm
	err := r.db.WithContext(ctx).
		Order("name").
		Limit(limit).
		Offset(offset).
		Find(&realms).Error
	if err != nil {
		r.logger.Error(ctx, "failed to list realms", err)
		return nil, errors.ErrServerError("realm listing failed").WithCause(err)
	}
	return realms, nil
}

func (r *RealmRepoImpl) Save(ctx context.Context, realm *models.Realm) error {
	startTime := time.Now()

	if err := r.db.WithContext(ctx).Create(realm).Error; err != nil {
		r.logger.Error(ctx, "failed to create realm", err,
			logger.String("realm", realm.Name),
		)
		return errors.ErrServerError("realm creation failed").WithCause(err)
	}

	r.logger.Info(ctx, "realm created",
		logger.String("realm", realm.Name),
		logger.String("realm_id", realm.ID.String()),
		logger.Int64("latency_ms", time.Since(startTime).Milliseconds()),
	)
	return nil
}

func (r *RealmRepoImpl) Update(ctx context.Context, realm *models.Realm) error {
	realm.UpdatedAt = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(realm).
		Where("id = ?", realm.ID).
		Updates(realm)
	if result.Error != nil {
		return errors.ErrServerError("realm update failed").WithCause(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrRealmNotFound(realm.Name)
	}
	return nil
}

func (r *RealmRepoImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Realm{})
	if result.Error != nil {
		return errors.ErrServerError("realm deletion failed").WithCause(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrRealmNotFound(id.String())
	}

	r.logger.Info(ctx, "realm deleted", logger.String("realm_id", id.String()))
	return nil
}
