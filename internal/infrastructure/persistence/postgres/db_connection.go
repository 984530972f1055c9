// Package postgres provides PostgreSQL persistence for the identity provider.
// It manages a pgx connection pool for health checks and a gorm handle for
// the repository implementations.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rbenna1/ferriskey-sub000/internal/config"
	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
	"github.com/rbenna1/ferriskey-sub000/pkg/errors"
	"github.com/rbenna1/ferriskey-sub000/pkg/logger"
)

// DBConnection manages the PostgreSQL connection pool lifecycle. The pgx
// pool backs health checks and pool statistics; gorm rides on the same DSN.
type DBConnection struct {
	pool   *pgxpool.Pool
	gormDB *gorm.DB
	config *config.DatabaseConfig
	logger logger.Logger
}

// NewDBConnection initializes the connection pool and performs an initial
// health check.
func NewDBConnection(ctx context.Context, cfg *config.DatabaseConfig, log logger.Logger) (*DBConnection, error) {
	if cfg == nil {
		return nil, errors.ErrDatabaseConnectionFailed("missing database configuration")
	}

	log.Info(ctx, "initializing postgres connection pool",
		logger.String("host", cfg.Host),
		logger.Int("port", cfg.Port),
		logger.String("database", cfg.Database),
		logger.Int("max_conns", cfg.MaxConns),
	)

	poolConfig, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		return nil, errors.ErrDatabaseConnectionFailed(err.Error())
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = time.Duration(cfg.MaxConnLifetime) * time.Second
	poolConfig.MaxConnIdleTime = time.Duration(cfg.MaxConnIdleTime) * time.Second

	connectCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.ConnTimeout)*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, errors.ErrDatabaseConnectionFailed(err.Error())
	}

	gormDB, err := gorm.Open(gormpostgres.Open(cfg.GetDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		pool.Close()
		return nil, errors.ErrDatabaseConnectionFailed(err.Error())
	}

	conn := &DBConnection{
		pool:   pool,
		gormDB: gormDB,
		config: cfg,
		logger: log,
	}

	if err := conn.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info(ctx, "postgres connection pool initialized",
		logger.Int("total_conns", int(pool.Stat().TotalConns())),
		logger.Int("idle_conns", int(pool.Stat().IdleConns())),
	)

	return conn, nil
}

// Gorm returns the gorm handle used by the repository implementations.
func (db *DBConnection) Gorm() *gorm.DB {
	return db.gormDB
}

// Pool returns the underlying pgx pool.
func (db *DBConnection) Pool() *pgxpool.Pool {
	return db.pool
}

// Ping verifies database connectivity and responsiveness.
func (db *DBConnection) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	startTime := time.Now()
	if err := db.pool.Ping(pingCtx); err != nil {
		db.logger.Error(ctx, "database ping failed", err)
		return errors.ErrDatabaseConnectionFailed(err.Error())
	}

	latency := time.Since(startTime)
	if latency > 100*time.Millisecond {
		db.logger.Warn(ctx, "high database latency",
			logger.Int64("latency_ms", latency.Milliseconds()),
		)
	}

	return nil
}

// HealthCheck reports pool statistics for the readiness endpoint.
func (db *DBConnection) HealthCheck(ctx context.Context) (map[string]interface{}, error) {
	if err := db.Ping(ctx); err != nil {
		return nil, err
	}

	stats := db.pool.Stat()
	healthInfo := map[string]interface{}{
		"status":               "healthy",
		"total_connections":    stats.TotalConns(),
		"idle_connections":     stats.IdleConns(),
		"acquired_connections": stats.AcquiredConns(),
		"max_connections":      db.config.MaxConns,
	}

	if stats.IdleConns() == 0 && stats.TotalConns() >= int32(db.config.MaxConns) {
		healthInfo["warning"] = "connection_pool_near_limit"
	}

	return healthInfo, nil
}

// Migrate creates or updates the schema for all persisted models.
func (db *DBConnection) Migrate(ctx context.Context) error {
	err := db.gormDB.WithContext(ctx).AutoMigrate(
		&models.Realm{},
		&models.RealmSetting{},
		&models.Client{},
		&models.RedirectUri{},
		&models.User{},
		&models.Role{},
		&models.Credential{},
		&models.RefreshToken{},
		&models.RealmKey{},
		&models.AuditEvent{},
	)
	if err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}
	return nil
}

// Close gracefully shuts down the connection pool. Called during shutdown.
func (db *DBConnection) Close() {
	db.logger.Info(context.Background(), "closing postgres connection pool")
	db.pool.Close()
}
