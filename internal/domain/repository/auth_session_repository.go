package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
)

// AuthSessionRepository 定义授权会话仓储接口
// 授权会话为短生命周期对象，实现类基于 Redis 并依赖 TTL 自动过期
// 实现类：internal/infrastructure/persistence/redis/auth_session_store.go
type AuthSessionRepository interface {
	// Create 创建新的授权会话
	// 会话在存储侧的生存期与 ExpiresAt 对齐，到期自动删除
	Create(ctx context.Context, session *models.AuthSession) error

	// FindByID 根据会话 ID（session_code）查询会话
	// 返回：
	//   - *models.AuthSession: 查询到的会话对象
	//   - error: 会话不存在或已过期时返回错误（ErrSessionNotFound / ErrSessionExpired）
	FindByID(ctx context.Context, id uuid.UUID) (*models.AuthSession, error)

	// FindByCode 根据授权码查询会话
	// 仅能检索到已绑定授权码的会话
	FindByCode(ctx context.Context, code string) (*models.AuthSession, error)

	// BindCodeAndUser 将授权码与已认证用户绑定到会话
	// 每个会话至多写入一次；重复绑定返回错误，保证授权码单次有效
	BindCodeAndUser(ctx context.Context, id uuid.UUID, code string, userID uuid.UUID) (*models.AuthSession, error)

	// Delete 删除会话
	// 授权码兑换成功后调用，令授权码立即失效
	Delete(ctx context.Context, id uuid.UUID) error
}
