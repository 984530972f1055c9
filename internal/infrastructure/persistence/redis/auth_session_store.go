package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
	"github.com/rbenna1/ferriskey-sub000/internal/domain/repository"
	"github.com/rbenna1/ferriskey-sub000/pkg/constants"
	"github.com/rbenna1/ferriskey-sub000/pkg/errors"
	"github.com/rbenna1/ferriskey-sub000/pkg/logger"
)

var _ repository.AuthSessionRepository = (*AuthSessionStore)(nil)

// AuthSessionStore implements AuthSessionRepository on Redis. Sessions are
// stored as JSON under their id with a TTL matching ExpiresAt, so expired
// sessions vanish without a cleanup job. A secondary code -> id index makes
// the issued authorization code resolvable during the token exchange.
// AuthSessionStore 在 Redis 上实现 AuthSessionRepository。会话以 JSON 存储，
// TTL 与 ExpiresAt 对齐，过期会话无需清理任务即自动消失。
// 辅助的 code -> id 索引使签发的授权码在令牌交换时可被解析。
type AuthSessionStore struct {
	client *redis.Client
	logger logger.Logger
}

// NewAuthSessionStore creates a Redis-backed auth session repository.
func NewAuthSessionStore(conn *RedisConnection, log logger.Logger) *AuthSessionStore {
	return &AuthSessionStore{client: conn.Client(), logger: log}
}

func sessionKey(id uuid.UUID) string {
	return constants.CacheKeyPrefixSession + id.String()
}

func codeKey(code string) string {
	return constants.CacheKeyPrefixSessionCode + code
}

func (s *AuthSessionStore) Create(ctx context.Context, session *models.AuthSession) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return errors.ErrSessionExpired()
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return errors.ErrServerError("session serialization failed").WithCause(err)
	}

	if err := s.client.Set(ctx, sessionKey(session.ID), payload, ttl).Err(); err != nil {
		s.logger.Error(ctx, "failed to store auth session", err,
			logger.String("session_id", session.ID.String()),
		)
		return errors.ErrServerError("session persistence failed").WithCause(err)
	}

	s.logger.Debug(ctx, "auth session created",
		logger.String("session_id", session.ID.String()),
		logger.Duration("ttl", ttl),
	)
	return nil
}

func (s *AuthSessionStore) FindByID(ctx context.Context, id uuid.UUID) (*models.AuthSession, error) {
	return s.load(ctx, sessionKey(id))
}

func (s *AuthSessionStore) FindByCode(ctx context.Context, code string) (*models.AuthSession, error) {
	idValue, err := s.client.Get(ctx, codeKey(code)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.ErrSessionNotFound()
		}
		return nil, errors.ErrServerError("session code lookup failed").WithCause(err)
	}

	id, err := uuid.Parse(idValue)
	if err != nil {
		return nil, errors.ErrServerError("session code index is corrupt").WithCause(err)
	}
	return s.load(ctx, sessionKey(id))
}

// BindCodeAndUser transitions the session to its authenticated state. A
// SETNX marker per session makes the transition happen at most once even
// under concurrent authentication attempts.
func (s *AuthSessionStore) BindCodeAndUser(ctx context.Context, id uuid.UUID, code string, userID uuid.UUID) (*models.AuthSession, error) {
	session, err := s.load(ctx, sessionKey(id))
	if err != nil {
		return nil, err
	}
	if session.IsExpired() {
		return nil, errors.ErrSessionExpired()
	}
	if session.Authenticated {
		return nil, errors.ErrInvalidGrant("authorization code already issued for this session")
	}

	ttl := time.Until(session.ExpiresAt)
	bound, err := s.client.SetNX(ctx, sessionKey(id)+":bound", "1", ttl).Result()
	if err != nil {
		return nil, errors.ErrServerError("session bind marker failed").WithCause(err)
	}
	if !bound {
		return nil, errors.ErrInvalidGrant("authorization code already issued for this session")
	}

	session.BindCodeAndUser(code, userID)

	payload, err := json.Marshal(session)
	if err != nil {
		return nil, errors.ErrServerError("session serialization failed").WithCause(err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(id), payload, ttl)
	pipe.Set(ctx, codeKey(code), id.String(), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.ErrServerError("session update failed").WithCause(err)
	}

	s.logger.Info(ctx, "authorization code bound to session",
		logger.String("session_id", id.String()),
		logger.String("user_id", userID.String()),
	)
	return session, nil
}

// Delete removes the session and its code index. Called when the code is
// redeemed so it can never be replayed.
func (s *AuthSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	session, err := s.load(ctx, sessionKey(id))
	if err != nil {
		if authErr, ok := errors.AsAuthError(err); ok && authErr.Code() == constants.ErrCodeSessionNotFound {
			return nil
		}
		return err
	}

	keys := []string{sessionKey(id), sessionKey(id) + ":bound"}
	if session.Code != nil {
		keys = append(keys, codeKey(*session.Code))
	}

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return errors.ErrServerError("session deletion failed").WithCause(err)
	}

	s.logger.Debug(ctx, "auth session deleted", logger.String("session_id", id.String()))
	return nil
}

func (s *AuthSessionStore) load(ctx context.Context, key string) (*models.AuthSession, error) {
	payload, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.ErrSessionNotFound()
		}
		return nil, errors.ErrServerError("session lookup failed").WithCause(err)
	}

	var session models.AuthSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, errors.ErrServerError("session deserialization failed").WithCause(err)
	}
	if session.IsExpired() {
		return nil, errors.ErrSessionExpired()
	}
	return &session, nil
}
