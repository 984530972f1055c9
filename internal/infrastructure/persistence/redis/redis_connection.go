// Package redis provides Redis-backed storage for short-lived authorization
// state. Auth sessions live here because their lifetime is bounded and TTL
// expiry does the cleanup the database would need a janitor for.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rbenna1/ferriskey-sub000/internal/config"
	"github.com/rbenna1/ferriskey-sub000/pkg/errors"
	"github.com/rbenna1/ferriskey-sub000/pkg/logger"
)

// RedisConnection manages the Redis client lifecycle and health monitoring.
// RedisConnection 管理 Redis 客户端生命周期和健康监控。
type RedisConnection struct {
	client *redis.Client
	config *config.RedisConfig
	logger logger.Logger
}

// NewRedisConnection builds a connection manager and validates connectivity
// with a bounded ping.
func NewRedisConnection(ctx context.Context, cfg *config.RedisConfig, log logger.Logger) (*RedisConnection, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, errors.ErrCacheConnectionFailed(err.Error())
	}
	latency := time.Since(start)
	if latency > 100*time.Millisecond {
		log.Warn(ctx, "redis ping latency is high",
			logger.Duration("latency", latency),
		)
	}

	log.Info(ctx, "redis connection established",
		logger.String("address", cfg.Address),
		logger.Int("db", cfg.DB),
	)

	return &RedisConnection{client: client, config: cfg, logger: log}, nil
}

// Client returns the underlying go-redis client.
func (rc *RedisConnection) Client() *redis.Client {
	return rc.client
}

// HealthCheck reports connectivity and pool statistics.
// HealthCheck 报告连接状态和连接池统计信息。
func (rc *RedisConnection) HealthCheck(ctx context.Context) map[string]interface{} {
	status := map[string]interface{}{
		"address": rc.config.Address,
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	if err := rc.client.Ping(pingCtx).Err(); err != nil {
		status["healthy"] = false
		status["error"] = err.Error()
		return status
	}

	stats := rc.client.PoolStats()
	status["healthy"] = true
	status["latency_ms"] = time.Since(start).Milliseconds()
	status["total_conns"] = stats.TotalConns
	status["idle_conns"] = stats.IdleConns
	status["hits"] = stats.Hits
	status["misses"] = stats.Misses
	return status
}

// Close releases the client and its pool.
func (rc *RedisConnection) Close() error {
	if err := rc.client.Close(); err != nil {
		return fmt.Errorf("closing redis client: %w", err)
	}
	return nil
}
