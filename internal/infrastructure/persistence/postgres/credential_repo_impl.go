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

// CredentialRepoImpl implements CredentialRepository using PostgreSQL.
type CredentialRepoImpl struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewCredentialRepository creates a PostgreSQL-backed credential repository.
func NewCredentialRepository(db *gorm.DB, log logger.Logger) repository.CredentialRepository {
	return &CredentialRepoImpl{db: db, logger: log}
}

func (r *CredentialRepoImpl) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Credential, error) {
	var credentials []*models.Credential
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&credentials).Error
	if err != nil {
		return nil, errors.ErrServerError("credential listing failed").WithCause(err)
	}
	return credentials, nil
}

func (r *CredentialRepoImpl) FindByUserIDAndType(ctx context.Context, userID uuid.UUID, credentialType string) (*models.Credential, error) {
	var credential models.Credential
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND credential_type = ?", userID, credentialType).
		First(&credential).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrInvalidGrant("credential not found").
				WithMetadata("credential_type", credentialType)
		}
		return nil, errors.ErrServerError("credential lookup failed").WithCause(err)
	}
	return &credential, nil
}

func (r *CredentialRepoImpl) Save(ctx context.Context, credential *models.Credential) error {
	startTime := time.Now()

	if err := r.db.WithContext(ctx).Create(credential).Error; err != nil {
		r.logger.Error(ctx, "failed to create credential", err,
			logger.String("user_id", credential.UserID.String()),
			logger.String("credential_type", credential.CredentialType),
		)
		return errors.ErrServerError("credential creation failed").WithCause(err)
	}

	r.logger.Info(ctx, "credential created",
		logger.String("user_id", credential.UserID.String()),
		logger.String("credential_type", credential.CredentialType),
		logger.Int64("latency_ms", time.Since(startTime).Milliseconds()),
	)
	return nil
}

func (r *CredentialRepoImpl) Update(ctx context.Context, credential *models.Credential) error {
	credential.UpdatedAt = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(credential).
		Where("id = ?", credential.ID).
		Updates(credential)
	if result.Error != nil {
		return errors.ErrServerError("credential update failed").WithCause(result.Error)
	}
	return nil
}

func (r *CredentialRepoImpl) DeleteByUserIDAndType(ctx context.Context, userID uuid.UUID, credentialType string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND credential_type = ?", userID, credentialType).
		Delete(&models.Credential{}).Error
	if err != nil {
		return errors.ErrServerError("credential deletion failed").WithCause(err)
	}
	return nil
}
