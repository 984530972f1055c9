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

// RefreshTokenRepoImpl implements RefreshTokenRepository using PostgreSQL.
type RefreshTokenRepoImpl struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewRefreshTokenRepository creates a PostgreSQL-backed refresh token repository.
func NewRefreshTokenRepository(db *gorm.DB, log logger.Logger) repository.RefreshTokenRepository {
	return &RefreshTokenRepoImpl{db: db, logger: log}
}

func (r *RefreshTokenRepoImpl) Save(ctx context.Context, token *models.RefreshToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		r.logger.Error(ctx, "failed to persist refresh token", err,
			logger.String("jti", token.Jti.String()),
		)
		return errors.ErrServerError("refresh token persistence failed").WithCause(err)
	}
	return nil
}

func (r *RefreshTokenRepoImpl) FindByJTI(ctx context.Context, jti uuid.UUID) (*models.RefreshToken, error) {
	var token models.RefreshToken
	err := r.db.WithContext(ctx).Where("jti = ?", jti).First(&token).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrTokenExpired()
		}
		r.logger.Error(ctx, "failed to retrieve refresh token", err,
			logger.String("jti", jti.String()),
		)
		return nil, errors.ErrServerError("refresh token lookup failed").WithCause(err)
	}
	return &token, nil
}

func (r *RefreshTokenRepoImpl) Revoke(ctx context.Context, jti uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("jti = ?", jti).
		Update("revoked", true)
	if result.Error != nil {
		r.logger.Error(ctx, "failed to revoke refresh token", result.Error,
			logger.String("jti", jti.String()),
		)
		return errors.ErrServerError("refresh token revocation failed").WithCause(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrTokenExpired()
	}

	r.logger.Info(ctx, "refresh token revoked", logger.String("jti", jti.String()))
	return nil
}

func (r *RefreshTokenRepoImpl) Delete(ctx context.Context, jti uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("jti = ?", jti).
		Delete(&models.RefreshToken{}).Error
	if err != nil {
		return errors.ErrServerError("refresh token deletion failed").WithCause(err)
	}
	return nil
}

// DeleteExpired removes refresh tokens whose expiry has passed. Intended to
// run from a periodic janitor, not from the request path.
func (r *RefreshTokenRepoImpl) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", time.Now().UTC()).
		Delete(&models.RefreshToken{})
	if result.Error != nil {
		r.logger.Error(ctx, "failed to purge expired refresh tokens", result.Error)
		return 0, errors.ErrServerError("refresh token purge failed").WithCause(result.Error)
	}
	if result.RowsAffected > 0 {
		r.logger.Info(ctx, "purged expired refresh tokens",
			logger.Int64("count", result.RowsAffected),
		)
	}
	return result.RowsAffected, nil
}
