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

// ClientRepoImpl implements ClientRepository using PostgreSQL. Lookups
// preload the redirect URI entries so matching never needs a second query.
type ClientRepoImpl struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewClientRepository creates a PostgreSQL-backed client repository.
func NewClientRepository(db *gorm.DB, log logger.Logger) repository.ClientRepository {
	return &ClientRepoImpl{db: db, logger: log}
}

func (r *ClientRepoImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).
		Preload("RedirectUris").
		Where("id = ?", id).
		First(&client).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrClientNotFound(id.String())
		}
		return nil, errors.ErrServerError("client lookup failed").WithCause(err)
	}
	return &client, nil
}

func (r *ClientRepoImpl) FindByClientID(ctx context.Context, realmID uuid.UUID, clientID string) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).
		Preload("RedirectUris").
		Where("realm_id = ? AND client_id = ?", realmID, clientID).
		First(&client).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			r.logger.Debug(ctx, "client not found",
				logger.String("realm_id", realmID.String()),
				logger.String("client_id", clientID),
			)
			return nil, errors.ErrClientNotFound(clientID)
		}
		r.logger.Error(ctx, "failed to retrieve client", err,
			logger.String("client_id", clientID),
		)
		return nil, errors.ErrServerError("client lookup failed").WithCause(err)
	}
	return &client, nil
}

func (r *ClientRepoImpl) FindByRealmID(ctx context.Context, realmID uuid.UUID, limit, offset int) ([]*models.Client, error) {
	var clients []*models.Client
	err := r.db.WithContext(ctx).
		Preload("RedirectUris").
		Where("realm_id = ?", realmID).
		Order("client_id").
		Limit(limit).
		Offset(offset).
		Find(&clients).Error
	if err != nil {
		return nil, errors.ErrServerError("client listing failed").WithCause(err)
	}
	return clients, nil
}

func (r *ClientRepoImpl) Save(ctx context.Context, client *models.Client) error {
	startTime := time.Now()

	if err := r.db.WithContext(ctx).Create(client).Error; err != nil {
		r.logger.Error(ctx, "failed to create client", err,
			logger.String("client_id", client.ClientID),
		)
		return errors.ErrServerError("client creation failed").WithCause(err)
	}

	r.logger.Info(ctx, "client created",
		logger.String("client_id", client.ClientID),
		logger.String("realm_id", client.RealmID.String()),
		logger.Int64("latency_ms", time.Since(startTime).Milliseconds()),
	)
	return nil
}

func (r *ClientRepoImpl) Update(ctx context.Context, client *models.Client) error {
	client.UpdatedAt = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(client).
		Where("id = ?", client.ID).
		Updates(client)
	if result.Error != nil {
		return errors.ErrServerError("client update failed").WithCause(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrClientNotFound(client.ClientID)
	}
	return nil
}

func (r *ClientRepoImpl) AddRedirectURI(ctx context.Context, uri *models.RedirectUri) error {
	if err := r.db.WithContext(ctx).Create(uri).Error; err != nil {
		return errors.ErrServerError("redirect uri creation failed").WithCause(err)
	}
	return nil
}
