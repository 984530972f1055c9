package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	appservice "github.com/rbenna1/ferriskey-sub000/internal/application/service"
	"github.com/rbenna1/ferriskey-sub000/internal/config"
	domainservice "github.com/rbenna1/ferriskey-sub000/internal/domain/service"
	"github.com/rbenna1/ferriskey-sub000/internal/infrastructure/audit"
	"github.com/rbenna1/ferriskey-sub000/internal/infrastructure/crypto"
	"github.com/rbenna1/ferriskey-sub000/internal/infrastructure/kms"
	"github.com/rbenna1/ferriskey-sub000/internal/infrastructure/monitoring"
	"github.com/rbenna1/ferriskey-sub000/internal/infrastructure/persistence/postgres"
	"github.com/rbenna1/ferriskey-sub000/internal/infrastructure/persistence/redis"
	"github.com/rbenna1/ferriskey-sub000/internal/infrastructure/ratelimit"
	"github.com/rbenna1/ferriskey-sub000/internal/interfaces/http"
	"github.com/rbenna1/ferriskey-sub000/internal/interfaces/http/handlers"
	"github.com/rbenna1/ferriskey-sub000/internal/interfaces/http/middleware"
)

func main() {
	// Logger for startup
	startupLogger, _ := monitoring.NewZapLogger(&config.LogConfig{Level: "info"})

	// Load config
	cfg, err := config.LoadConfig(startupLogger)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger, err := monitoring.NewZapLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize tracing
	tracing, err := monitoring.NewTracingManager(&cfg.Tracing, appLogger)
	if err != nil {
		appLogger.Fatal(ctx, "Failed to initialize tracer", err)
	}

	// Initialize database
	db, err := postgres.NewDBConnection(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal(ctx, "Failed to connect to database", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		appLogger.Fatal(ctx, "Failed to run database migrations", err)
	}

	// Initialize Redis
	redisConn, err := redis.NewRedisConnection(ctx, &cfg.Redis, appLogger)
	if err != nil {
		appLogger.Fatal(ctx, "Failed to connect to Redis", err)
	}
	defer redisConn.Close()

	// Initialize infrastructure
	metrics := monitoring.NewPrometheusMetrics()

	var escrow crypto.KeyEscrow
	if cfg.Vault.Enabled {
		vaultEscrow, err := kms.NewVaultEscrow(&cfg.Vault, appLogger)
		if err != nil {
			appLogger.Fatal(ctx, "Failed to create Vault escrow", err)
		}
		escrow = vaultEscrow
	}

	// Initialize repositories
	realmRepo := postgres.NewRealmRepository(db.Gorm(), appLogger)
	clientRepo := postgres.NewClientRepository(db.Gorm(), appLogger)
	userRepo := postgres.NewUserRepository(db.Gorm(), appLogger)
	roleRepo := postgres.NewRoleRepository(db.Gorm(), appLogger)
	credentialRepo := postgres.NewCredentialRepository(db.Gorm(), appLogger)
	refreshRepo := postgres.NewRefreshTokenRepository(db.Gorm(), appLogger)
	keyRepo := postgres.NewKeyRepository(db.Gorm(), appLogger)
	sessionStore := redis.NewAuthSessionStore(redisConn, appLogger)

	// Initialize crypto
	hasher := crypto.NewArgon2Hasher()
	keyManager := crypto.NewKeyManager(keyRepo, escrow, metrics, appLogger)
	jwtManager := crypto.NewJwtManager(keyManager, appLogger)

	// Initialize domain services
	tokenService := domainservice.NewTokenDomainService(jwtManager, refreshRepo, userRepo, cfg.Server.BaseURL, appLogger)
	authService := domainservice.NewAuthenticationService(userRepo, credentialRepo, sessionStore, hasher, appLogger)
	totpService := domainservice.NewTotpService()

	dispatcher := domainservice.NewGrantDispatcher(
		domainservice.NewAuthorizationCodeGrant(clientRepo, sessionStore, userRepo, tokenService, appLogger),
		domainservice.NewPasswordGrant(clientRepo, userRepo, authService, tokenService, appLogger),
		domainservice.NewClientCredentialsGrant(clientRepo, userRepo, tokenService, appLogger),
		domainservice.NewRefreshTokenGrant(clientRepo, tokenService, appLogger),
	)

	rateLimiter := ratelimit.NewRedisRateLimiter(redisConn.Client(), &cfg.RateLimit, appLogger)

	var auditService domainservice.AuditService
	if cfg.Kafka.Enabled {
		producer := audit.NewKafkaProducer(&cfg.Kafka, appLogger)
		defer producer.Close()
		auditService = producer
	} else {
		auditService = audit.NewGormAuditService(db.Gorm())
	}

	// Initialize application services
	authAppSvc := appservice.NewAuthAppService(
		realmRepo, clientRepo, userRepo, credentialRepo, sessionStore,
		authService, tokenService, totpService, rateLimiter, auditService,
		metrics, appLogger,
	)
	tokenAppSvc := appservice.NewTokenAppService(
		realmRepo, clientRepo, userRepo, dispatcher, tokenService,
		jwtManager, rateLimiter, auditService, metrics, appLogger,
	)

	// Seed the master realm on first start
	if err := bootstrapMasterRealm(ctx, &cfg.Bootstrap, bootstrapDeps{
		realmRepo:      realmRepo,
		clientRepo:     clientRepo,
		userRepo:       userRepo,
		roleRepo:       roleRepo,
		credentialRepo: credentialRepo,
		hasher:         hasher,
		logger:         appLogger,
	}); err != nil {
		appLogger.Fatal(ctx, "Failed to bootstrap master realm", err)
	}

	// Initialize HTTP handlers and router
	router := http.NewRouter(
		cfg,
		appLogger,
		handlers.NewHealthHandler(db, redisConn),
		handlers.NewOidcHandler(authAppSvc, tokenAppSvc),
		handlers.NewOtpHandler(authAppSvc),
		middleware.Identity(tokenAppSvc),
		tracing.Tracer(),
	)
	router.SetupRoutes()

	errCh := make(chan error, 1)
	go func() {
		errCh <- router.Start()
	}()

	select {
	case <-ctx.Done():
		appLogger.Info(context.Background(), "shutdown signal received")
	case err := <-errCh:
		if err != nil {
			appLogger.Error(context.Background(), "http server failed", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := router.Stop(shutdownCtx); err != nil {
		appLogger.Error(shutdownCtx, "http server shutdown failed", err)
	}
	if err := tracing.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(shutdownCtx, "tracer shutdown failed", err)
	}

	appLogger.Info(context.Background(), "server stopped")
}
