package config

import (
	"context"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/rbenna1/ferriskey-sub000/pkg/constants"
	"github.com/rbenna1/ferriskey-sub000/pkg/errors"
	"github.com/rbenna1/ferriskey-sub000/pkg/logger"
)

// LoadConfig loads the configuration from file and environment variables.
// Environment variables use the IDP_ prefix with underscores, e.g.
// IDP_DATABASE_HOST overrides database.host.
func LoadConfig(log logger.Logger) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/idp/")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.WrapError(err, constants.ErrCodeServerError, "failed to read config file")
		}
	}

	v.SetEnvPrefix("IDP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapError(err, constants.ErrCodeServerError, "failed to unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.WrapError(err, constants.ErrCodeServerError, "invalid configuration")
	}

	// Reload log level on config file changes; everything else requires a
	// restart.
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info(context.Background(), "config file changed",
			logger.String("file", e.Name),
		)
	})
	v.WatchConfig()

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.enable_pprof", false)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "idp")
	v.SetDefault("database.database", "idp")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", 3600)
	v.SetDefault("database.max_conn_idle_time", 600)
	v.SetDefault("database.conn_timeout", 10)

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("redis.min_idle_conns", 2)

	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.mount_path", "secret")

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.topic", "idp.audit.events")

	v.SetDefault("rate_limit.enabled", true)

	v.SetDefault("bootstrap.admin_username", "admin")
	v.SetDefault("bootstrap.admin_client_id", "security-admin-console")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "idp-server")
}
