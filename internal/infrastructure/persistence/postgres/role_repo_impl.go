package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
	"github.com/rbenna1/ferriskey-sub000/internal/domain/repository"
	"github.com/rbenna1/ferriskey-sub000/pkg/errors"
	"github.com/rbenna1/ferriskey-sub000/pkg/logger"
)

// RoleRepoImpl implements RoleRepository using PostgreSQL.
type RoleRepoImpl struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewRoleRepository creates a PostgreSQL-backed role repository.
func NewRoleRepository(db *gorm.DB, log logger.Logger) repository.RoleRepository {
	return &RoleRepoImpl{db: db, logger: log}
}

func (r *RoleRepoImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&role).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrInvalidRequest("role not found").
				WithMetadata("role_id", id.String())
		}
		return nil, errors.ErrServerError("role lookup failed").WithCause(err)
	}
	return &role, nil
}

func (r *RoleRepoImpl) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Role, error) {
	var roles []*models.Role
	err := r.db.WithContext(ctx).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Find(&roles).Error
	if err != nil {
		r.logger.Error(ctx, "failed to retrieve roles for user", err,
			logger.String("user_id", userID.String()),
		)
		return nil, errors.ErrServerError("role lookup failed").WithCause(err)
	}
	return roles, nil
}

func (r *RoleRepoImpl) FindByRealmID(ctx context.Context, realmID uuid.UUID) ([]*models.Role, error) {
	var roles []*models.Role
	err := r.db.WithContext(ctx).
		Where("realm_id = ?", realmID).
		Order("name").
		Find(&roles).Error
	if err != nil {
		return nil, errors.ErrServerError("role listing failed").WithCause(err)
	}
	return roles, nil
}

func (r *RoleRepoImpl) Save(ctx context.Context, role *models.Role) error {
	if err := r.db.WithContext(ctx).Create(role).Error; err != nil {
		r.logger.Error(ctx, "failed to create role", err,
			logger.String("role", role.Name),
		)
		return errors.ErrServerError("role creation failed").WithCause(err)
	}

	r.logger.Info(ctx, "role created",
		logger.String("role", role.Name),
		logger.String("realm_id", role.RealmID.String()),
	)
	return nil
}
