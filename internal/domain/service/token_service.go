// Package service 定义领域服务接口
// Token 领域服务 - 负责令牌签发、验证与刷新轮换的核心业务逻辑
package service

import (
	"context"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
)

// TokenPair holds the two tokens produced by every successful grant.
type TokenPair struct {
	AccessToken  models.Jwt
	RefreshToken models.Jwt
}

// TokenService Token 领域服务接口
// 定义令牌相关的核心业务方法，包括签发、验证、刷新轮换等操作
type TokenService interface {
	// IssueUserTokenPair 为用户签发访问令牌与刷新令牌对
	// 访问令牌携带 preferred_username 与 email 声明
	// 刷新令牌的 jti 被持久化，用于后续的吊销与轮换判定
	// 参数:
	//   ctx: 上下文对象
	//   realm: 签发 realm
	//   user: 认证通过的用户
	//   azp: 发起请求的客户端 client_id
	// 返回:
	//   *TokenPair: 令牌对
	//   error: 错误信息
	IssueUserTokenPair(ctx context.Context, realm *models.Realm, user *models.User, azp string) (*TokenPair, error)

	// IssueServiceAccountTokenPair 为客户端的服务账户签发令牌对
	// 令牌额外携带 client_id 声明，以标记服务账户身份
	IssueServiceAccountTokenPair(ctx context.Context, realm *models.Realm, user *models.User, client *models.Client) (*TokenPair, error)

	// IssueTemporaryToken 签发短期临时令牌
	// 用于认证尚未完成的场景（待处理 required actions 或 OTP 挑战）
	IssueTemporaryToken(ctx context.Context, realm *models.Realm, user *models.User, azp string) (*models.Jwt, error)

	// VerifyToken 验证访问令牌
	// 检查签名、有效期与 typ 声明（必须为 Bearer）
	VerifyToken(ctx context.Context, realm *models.Realm, tokenString string) (*models.JwtClaim, error)

	// VerifyRefreshToken 验证刷新令牌
	// 检查签名、有效期、typ 声明（必须为 Refresh），并确认其 jti
	// 对应的持久化记录存在且未被吊销
	VerifyRefreshToken(ctx context.Context, realm *models.Realm, tokenString string) (*models.JwtClaim, error)

	// RotateRefreshToken 轮换刷新令牌
	// 吊销旧令牌的 jti 记录并签发新的令牌对（一次性刷新令牌机制）
	RotateRefreshToken(ctx context.Context, realm *models.Realm, claim *models.JwtClaim, azp string) (*TokenPair, error)

	// Issuer 返回 realm 的签发者 URL
	Issuer(realm *models.Realm) string
}
