package ratelimit_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbenna1/ferriskey-sub000/internal/config"
	"github.com/rbenna1/ferriskey-sub000/internal/infrastructure/ratelimit"
	"github.com/rbenna1/ferriskey-sub000/pkg/constants"
	"github.com/rbenna1/ferriskey-sub000/pkg/logger"
)

func newTestLimiter(t *testing.T, cfg *config.RateLimitConfig) (*ratelimit.RedisRateLimiter, *miniredis.Miniredis) {
	t.Helper()

	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return ratelimit.NewRedisRateLimiter(client, cfg, logger.NewNoopLogger()), s
}

func TestRedisRateLimiter_AllowWithinBudget(t *testing.T) {
	limiter, _ := newTestLimiter(t, &config.RateLimitConfig{Enabled: true, LoginPerMin: 3})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, constants.RateLimitScopeLogin, "web-app:10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, err := limiter.Allow(ctx, constants.RateLimitScopeLogin, "web-app:10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRedisRateLimiter_IdentifiersAreIsolated(t *testing.T) {
	limiter, _ := newTestLimiter(t, &config.RateLimitConfig{Enabled: true, LoginPerMin: 1})
	ctx := context.Background()

	allowed, err := limiter.Allow(ctx, constants.RateLimitScopeLogin, "web-app:10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.Allow(ctx, constants.RateLimitScopeLogin, "web-app:10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)

	// A different source keeps its own budget.
	allowed, err = limiter.Allow(ctx, constants.RateLimitScopeLogin, "web-app:10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisRateLimiter_ScopesAreIsolated(t *testing.T) {
	limiter, _ := newTestLimiter(t, &config.RateLimitConfig{Enabled: true, LoginPerMin: 1, TokenPerMin: 1})
	ctx := context.Background()

	allowed, err := limiter.Allow(ctx, constants.RateLimitScopeLogin, "web-app:10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.Allow(ctx, constants.RateLimitScopeToken, "web-app:10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisRateLimiter_ResetLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t, &config.RateLimitConfig{Enabled: true, LoginPerMin: 1})
	ctx := context.Background()

	_, err := limiter.Allow(ctx, constants.RateLimitScopeLogin, "web-app:10.0.0.1")
	require.NoError(t, err)

	allowed, err := limiter.Allow(ctx, constants.RateLimitScopeLogin, "web-app:10.0.0.1")
	require.NoError(t, err)
	require.False(t, allowed)

	require.NoError(t, limiter.ResetLimit(ctx, constants.RateLimitScopeLogin, "web-app:10.0.0.1"))

	allowed, err = limiter.Allow(ctx, constants.RateLimitScopeLogin, "web-app:10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisRateLimiter_WindowExpiry(t *testing.T) {
	limiter, s := newTestLimiter(t, &config.RateLimitConfig{Enabled: true, LoginPerMin: 1})
	ctx := context.Background()

	_, err := limiter.Allow(ctx, constants.RateLimitScopeLogin, "web-app:10.0.0.1")
	require.NoError(t, err)

	allowed, err := limiter.Allow(ctx, constants.RateLimitScopeLogin, "web-app:10.0.0.1")
	require.NoError(t, err)
	require.False(t, allowed)

	s.FastForward(constants.RateLimitWindow)

	allowed, err = limiter.Allow(ctx, constants.RateLimitScopeLogin, "web-app:10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisRateLimiter_DisabledAlwaysAllows(t *testing.T) {
	limiter, _ := newTestLimiter(t, &config.RateLimitConfig{Enabled: false, LoginPerMin: 1})
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		allowed, err := limiter.Allow(ctx, constants.RateLimitScopeLogin, "web-app:10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed)
	}
}

func TestRedisRateLimiter_GetCurrentUsage(t *testing.T) {
	limiter, _ := newTestLimiter(t, &config.RateLimitConfig{Enabled: true, TokenPerMin: 10})
	ctx := context.Background()

	usage, err := limiter.GetCurrentUsage(ctx, constants.RateLimitScopeToken, "backend:10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 0, usage)

	for i := 0; i < 4; i++ {
		_, err := limiter.Allow(ctx, constants.RateLimitScopeToken, "backend:10.0.0.1")
		require.NoError(t, err)
	}

	usage, err = limiter.GetCurrentUsage(ctx, constants.RateLimitScopeToken, "backend:10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 4, usage)
}
