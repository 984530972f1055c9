package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/service"
)

var _ service.Metrics = (*PrometheusMetrics)(nil)

// PrometheusMetrics implements the domain Metrics interface on Prometheus
// collectors. Realm is a label everywhere so per-tenant dashboards need no
// extra instrumentation.
// PrometheusMetrics 在 Prometheus 收集器上实现域 Metrics 接口。
// Realm 在所有指标上作为标签，按租户的看板无需额外埋点。
type PrometheusMetrics struct {
	tokenIssueRequests *prometheus.CounterVec
	tokenIssueLatency  *prometheus.HistogramVec
	tokenVerifications *prometheus.CounterVec
	loginAttempts      *prometheus.CounterVec
	otpChallenges      *prometheus.CounterVec
	rateLimitHits      *prometheus.CounterVec
	cacheAccesses      *prometheus.CounterVec
	keyProvisionTotal  *prometheus.CounterVec
	keyProvisionTime   *prometheus.HistogramVec
}

// NewPrometheusMetrics creates and registers the collectors on the default
// registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{
		tokenIssueRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "idp_token_issue_requests_total",
				Help: "Total number of token issue requests.",
			},
			[]string{"realm", "grant_type", "result", "error_code"},
		),
		tokenIssueLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "idp_token_issue_latency_seconds",
				Help:    "Latency of token issue requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"realm", "grant_type"},
		),
		tokenVerifications: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "idp_token_verifications_total",
				Help: "Total number of token verification attempts.",
			},
			[]string{"realm", "result", "error_code"},
		),
		loginAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "idp_login_attempts_total",
				Help: "Total number of login attempts.",
			},
			[]string{"realm", "result", "error_code"},
		),
		otpChallenges: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "idp_otp_challenges_total",
				Help: "Total number of OTP challenge verifications.",
			},
			[]string{"realm", "result"},
		),
		rateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "idp_rate_limit_hits_total",
				Help: "Total number of rate limited requests.",
			},
			[]string{"realm", "scope"},
		),
		cacheAccesses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "idp_cache_accesses_total",
				Help: "Total number of cache lookups by outcome.",
			},
			[]string{"cache", "result"},
		),
		keyProvisionTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "idp_key_provisions_total",
				Help: "Total number of lazily generated realm signing keys.",
			},
			[]string{"realm"},
		),
		keyProvisionTime: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "idp_key_provision_duration_seconds",
				Help:    "Duration of realm signing key generation.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"realm"},
		),
	}
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

func (m *PrometheusMetrics) RecordTokenIssue(realm, grantType string, success bool, duration time.Duration, errorCode string) {
	m.tokenIssueRequests.WithLabelValues(realm, grantType, result(success), errorCode).Inc()
	m.tokenIssueLatency.WithLabelValues(realm, grantType).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordTokenVerify(realm string, success bool, errorCode string) {
	m.tokenVerifications.WithLabelValues(realm, result(success), errorCode).Inc()
}

func (m *PrometheusMetrics) RecordLogin(realm string, success bool, errorCode string) {
	m.loginAttempts.WithLabelValues(realm, result(success), errorCode).Inc()
}

func (m *PrometheusMetrics) RecordOtpChallenge(realm string, success bool) {
	m.otpChallenges.WithLabelValues(realm, result(success)).Inc()
}

func (m *PrometheusMetrics) RecordRateLimitHit(realm, scope string) {
	m.rateLimitHits.WithLabelValues(realm, scope).Inc()
}

func (m *PrometheusMetrics) RecordCacheAccess(cacheType string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.cacheAccesses.WithLabelValues(cacheType, outcome).Inc()
}

func (m *PrometheusMetrics) RecordKeyProvision(realm string, duration time.Duration) {
	m.keyProvisionTotal.WithLabelValues(realm).Inc()
	m.keyProvisionTime.WithLabelValues(realm).Observe(duration.Seconds())
}
