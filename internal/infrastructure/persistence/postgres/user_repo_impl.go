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

// UserRepoImpl implements UserRepository using PostgreSQL. Single-user
// lookups preload roles and the owning realm so policy evaluation can run
// without extra round trips.
type UserRepoImpl struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewUserRepository creates a PostgreSQL-backed user repository.
func NewUserRepository(db *gorm.DB, log logger.Logger) repository.UserRepository {
	return &UserRepoImpl{db: db, logger: log}
}

func (r *UserRepoImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Preload("Realm").
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound(id.String())
		}
		r.logger.Error(ctx, "failed to retrieve user by id", err,
			logger.String("user_id", id.String()),
		)
		return nil, errors.ErrServerError("user lookup failed").WithCause(err)
	}
	return &user, nil
}

func (r *UserRepoImpl) FindByUsername(ctx context.Context, realmID uuid.UUID, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Preload("Realm").
		Where("realm_id = ? AND username = ?", realmID, username).
		First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			r.logger.Debug(ctx, "user not found",
				logger.String("realm_id", realmID.String()),
				logger.String("username", username),
			)
			return nil, errors.ErrUserNotFound(username)
		}
		return nil, errors.ErrServerError("user lookup failed").WithCause(err)
	}
	return &user, nil
}

func (r *UserRepoImpl) FindServiceAccountByClientID(ctx context.Context, clientID uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Preload("Realm").
		Where("client_id = ?", clientID).
		First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrServiceAccountNotFound(clientID.String())
		}
		return nil, errors.ErrServerError("service account lookup failed").WithCause(err)
	}
	return &user, nil
}

func (r *UserRepoImpl) FindByRealmID(ctx context.Context, realmID uuid.UUID, limit, offset int) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).
		Where("realm_id = ?", realmID).
		Order("username").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, errors.ErrServerError("user listing failed").WithCause(err)
	}
	return users, nil
}

func (r *UserRepoImpl) Save(ctx context.Context, user *models.User) error {
	startTime := time.Now()

	if err := r.db.WithContext(ctx).Omit("Roles", "Realm").Create(user).Error; err != nil {
		r.logger.Error(ctx, "failed to create user", err,
			logger.String("username", user.Username),
		)
		return errors.ErrServerError("user creation failed").WithCause(err)
	}

	r.logger.Info(ctx, "user created",
		logger.String("user_id", user.ID.String()),
		logger.String("username", user.Username),
		logger.Int64("latency_ms", time.Since(startTime).Milliseconds()),
	)
	return nil
}

func (r *UserRepoImpl) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(user).
		Omit("Roles", "Realm").
		Where("id = ?", user.ID).
		Updates(user)
	if result.Error != nil {
		return errors.ErrServerError("user update failed").WithCause(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrUserNotFound(user.Username)
	}
	return nil
}

func (r *UserRepoImpl) AssignRole(ctx context.Context, userID, roleID uuid.UUID) error {
	user := models.User{ID: userID}
	role := models.Role{ID: roleID}
	if err := r.db.WithContext(ctx).Model(&user).Association("Roles").Append(&role); err != nil {
		r.logger.Error(ctx, "failed to assign role", err,
			logger.String("user_id", userID.String()),
			logger.String("role_id", roleID.String()),
		)
		return errors.ErrServerError("role assignment failed").WithCause(err)
	}
	return nil
}
