package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// DatabaseHealthChecker reports the health of the relational store.
type DatabaseHealthChecker interface {
	HealthCheck(ctx context.Context) (map[string]interface{}, error)
}

// CacheHealthChecker reports the health of the cache store.
type CacheHealthChecker interface {
	HealthCheck(ctx context.Context) map[string]interface{}
}

// HealthHandler serves the liveness and readiness probes.
// HealthHandler 提供存活与就绪探针。
type HealthHandler struct {
	db    DatabaseHealthChecker
	cache CacheHealthChecker
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db DatabaseHealthChecker, cache CacheHealthChecker) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Live reports process liveness. It never touches dependencies, so a
// stalled database cannot make the orchestrator restart-loop the process.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "up",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready reports whether the server can serve authentication traffic,
// checking both backing stores.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx := c.Request.Context()
	status := http.StatusOK

	dbHealth, err := h.db.HealthCheck(ctx)
	if err != nil {
		status = http.StatusServiceUnavailable
	}

	cacheHealth := h.cache.HealthCheck(ctx)
	if healthy, ok := cacheHealth["healthy"].(bool); !ok || !healthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":    statusWord(status),
		"database":  dbHealth,
		"cache":     cacheHealth,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func statusWord(status int) string {
	if status == http.StatusOK {
		return "up"
	}
	return "down"
}
