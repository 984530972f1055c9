package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
)

// ClientRepository 定义客户端仓储接口
// 实现类：internal/infrastructure/persistence/postgres/client_repo_impl.go
type ClientRepository interface {
	// FindByID 根据 UUID 查询客户端
	FindByID(ctx context.Context, id uuid.UUID) (*models.Client, error)

	// FindByClientID 根据所属 realm 与 OAuth2 client_id 查询客户端
	// 查询结果包含客户端的重定向 URI 列表
	FindByClientID(ctx context.Context, realmID uuid.UUID, clientID string) (*models.Client, error)

	// FindByRealmID 查询 realm 下的所有客户端（分页）
	FindByRealmID(ctx context.Context, realmID uuid.UUID, limit, offset int) ([]*models.Client, error)

	// Save 保存新客户端
	Save(ctx context.Context, client *models.Client) error

	// Update 更新客户端
	Update(ctx context.Context, client *models.Client) error

	// AddRedirectURI 为客户端追加重定向 URI
	AddRedirectURI(ctx context.Context, uri *models.RedirectUri) error
}
