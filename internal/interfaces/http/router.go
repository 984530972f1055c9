// Package http wires the Gin engine for the identity provider: protocol
// routes per realm, probes, metrics and the middleware chain.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/rbenna1/ferriskey-sub000/internal/config"
	"github.com/rbenna1/ferriskey-sub000/internal/interfaces/http/handlers"
	"github.com/rbenna1/ferriskey-sub000/internal/interfaces/http/middleware"
	"github.com/rbenna1/ferriskey-sub000/pkg/logger"
)

// Router HTTP 路由器
type Router struct {
	engine        *gin.Engine
	config        *config.Config
	logger        logger.Logger
	healthHandler *handlers.HealthHandler
	oidcHandler   *handlers.OidcHandler
	otpHandler    *handlers.OtpHandler
	identity      gin.HandlerFunc
	tracer        trace.Tracer
	server        *http.Server
}

// NewRouter 创建路由器
func NewRouter(
	cfg *config.Config,
	log logger.Logger,
	healthHandler *handlers.HealthHandler,
	oidcHandler *handlers.OidcHandler,
	otpHandler *handlers.OtpHandler,
	identity gin.HandlerFunc,
	tracer trace.Tracer,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	return &Router{
		engine:        gin.New(),
		config:        cfg,
		logger:        log,
		healthHandler: healthHandler,
		oidcHandler:   oidcHandler,
		otpHandler:    otpHandler,
		identity:      identity,
		tracer:        tracer,
	}
}

// SetupRoutes 设置路由
func (r *Router) SetupRoutes() {
	r.engine.Use(gin.Recovery())
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Observability(r.tracer))

	r.engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.engine.GET("/health/live", r.healthHandler.Live)
	r.engine.GET("/health/ready", r.healthHandler.Ready)
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if r.config.Server.EnablePprof {
		pprof.Register(r.engine)
	}

	realm := r.engine.Group("/realms/:realm_name")
	{
		realm.GET("/.well-known/openid-configuration", r.oidcHandler.WellKnown)

		protocol := realm.Group("/protocol/openid-connect")
		{
			protocol.GET("/auth", r.oidcHandler.Authorize)
			protocol.POST("/token", r.oidcHandler.Token)
			protocol.GET("/certs", r.oidcHandler.Certs)
		}

		loginActions := realm.Group("/login-actions")
		{
			loginActions.POST("/authenticate", r.oidcHandler.Authenticate)
			loginActions.POST("/otp-challenge", r.otpHandler.Challenge)
		}

		account := realm.Group("/account")
		account.Use(r.identity)
		{
			account.POST("/otp/setup", r.otpHandler.Setup)
			account.POST("/otp/verify", r.otpHandler.Verify)
		}
	}

	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":             "not_found",
			"error_description": "The requested resource was not found",
		})
	})
}

// Start 启动 HTTP 服务器并阻塞直到其退出
func (r *Router) Start() error {
	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	r.server = &http.Server{
		Addr:           addr,
		Handler:        r.engine,
		ReadTimeout:    time.Duration(r.config.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(r.config.Server.WriteTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	r.logger.Info(context.Background(), "starting http server", logger.String("address", addr))

	if err := r.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop 优雅停止 HTTP 服务器
func (r *Router) Stop(ctx context.Context) error {
	if r.server == nil {
		return nil
	}
	r.logger.Info(ctx, "stopping http server")
	return r.server.Shutdown(ctx)
}

// Engine exposes the underlying engine for tests.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
