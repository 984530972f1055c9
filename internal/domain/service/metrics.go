// Package service defines the interfaces for domain services.
package service

import (
	"time"
)

// Metrics defines the interface for collecting business metrics.
// This abstraction keeps the application layer independent of the specific
// monitoring implementation (e.g., Prometheus).
// Metrics 定义了收集业务指标的接口。
// 这种抽象使应用层能够独立于具体的监控实现（例如 Prometheus）。
type Metrics interface {
	// RecordTokenIssue records metrics related to token issuance.
	// RecordTokenIssue 记录与令牌颁发过程相关的指标。
	RecordTokenIssue(realm, grantType string, success bool, duration time.Duration, errorCode string)

	// RecordTokenVerify records metrics related to token verification.
	// RecordTokenVerify 记录与令牌验证过程相关的指标。
	RecordTokenVerify(realm string, success bool, errorCode string)

	// RecordLogin records an authentication attempt against the login
	// action endpoint.
	// RecordLogin 记录登录尝试。
	RecordLogin(realm string, success bool, errorCode string)

	// RecordOtpChallenge records an OTP challenge verification.
	// RecordOtpChallenge 记录 OTP 挑战校验。
	RecordOtpChallenge(realm string, success bool)

	// RecordRateLimitHit records an event when a rate limit is triggered.
	// RecordRateLimitHit 记录触发速率限制的事件。
	RecordRateLimitHit(realm, scope string)

	// RecordCacheAccess records a cache hit or miss.
	// RecordCacheAccess 记录缓存命中或未命中。
	RecordCacheAccess(cacheType string, hit bool)

	// RecordKeyProvision records lazy realm keypair generation.
	// RecordKeyProvision 记录 realm 密钥对的惰性生成。
	RecordKeyProvision(realm string, duration time.Duration)
}

// NoopMetrics is a Metrics implementation that discards everything. It is
// used in tests and when monitoring is disabled.
type NoopMetrics struct{}

func (NoopMetrics) RecordTokenIssue(realm, grantType string, success bool, duration time.Duration, errorCode string) {
}
func (NoopMetrics) RecordTokenVerify(realm string, success bool, errorCode string) {}
func (NoopMetrics) RecordLogin(realm string, success bool, errorCode string)       {}
func (NoopMetrics) RecordOtpChallenge(realm string, success bool)                  {}
func (NoopMetrics) RecordRateLimitHit(realm, scope string)                         {}
func (NoopMetrics) RecordCacheAccess(cacheType string, hit bool)                   {}
func (NoopMetrics) RecordKeyProvision(realm string, duration time.Duration)        {}
