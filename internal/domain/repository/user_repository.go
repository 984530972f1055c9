package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
)

// UserRepository 定义用户仓储接口
// 该接口定义了用户领域对象的持久化操作契约
// 实现类：internal/infrastructure/persistence/postgres/user_repo_impl.go
type UserRepository interface {
	// FindByID 根据 UUID 查询用户
	// 查询结果预加载用户的角色以及所属 realm
	// 返回：
	//   - *models.User: 查询到的用户对象
	//   - error: 查询失败或用户不存在时返回错误（ErrUserNotFound）
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// FindByUsername 根据所属 realm 与用户名查询用户
	// 用户名在单个 realm 内唯一
	FindByUsername(ctx context.Context, realmID uuid.UUID, username string) (*models.User, error)

	// FindServiceAccountByClientID 查询绑定到指定客户端的服务账户用户
	// 用于 client_credentials 授权模式下将客户端映射为用户身份
	FindServiceAccountByClientID(ctx context.Context, clientID uuid.UUID) (*models.User, error)

	// FindByRealmID 查询 realm 下的所有用户（分页）
	FindByRealmID(ctx context.Context, realmID uuid.UUID, limit, offset int) ([]*models.User, error)

	// Save 保存新用户
	Save(ctx context.Context, user *models.User) error

	// Update 更新用户（字段更新，不包含角色关联）
	Update(ctx context.Context, user *models.User) error

	// AssignRole 为用户分配角色
	AssignRole(ctx context.Context, userID, roleID uuid.UUID) error
}
