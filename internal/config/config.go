package config

import (
	"fmt"

	"github.com/rbenna1/ferriskey-sub000/pkg/constants"
)

// Config holds the application's configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Vault     VaultConfig     `mapstructure:"vault"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Bootstrap BootstrapConfig `mapstructure:"bootstrap"`
	Log       LogConfig       `mapstructure:"log"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
}

type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	BaseURL      string `mapstructure:"base_url"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	EnablePprof  bool   `mapstructure:"enable_pprof"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxConns        int    `mapstructure:"max_conns"`
	MinConns        int    `mapstructure:"min_conns"`
	MaxConnLifetime int    `mapstructure:"max_conn_lifetime"` // in seconds
	MaxConnIdleTime int    `mapstructure:"max_conn_idle_time"` // in seconds
	ConnTimeout     int    `mapstructure:"conn_timeout"`       // in seconds
}

func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

type RedisConfig struct {
	Address      string `mapstructure:"address"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

// VaultConfig enables optional escrow of realm private keys in HashiCorp
// Vault. When disabled, keys live only in the database.
type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	MountPath string `mapstructure:"mount_path"`
}

// KafkaConfig configures the audit event producer. When disabled, events
// are logged and dropped.
type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`

	// SigningSecret, when set, attaches an HMAC-SHA256 signature header to
	// every published event so consumers can detect tampering.
	SigningSecret string `mapstructure:"signing_secret"`
}

type RateLimitConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	LoginPerMin   int  `mapstructure:"login_per_min"`
	TokenPerMin   int  `mapstructure:"token_per_min"`
}

// BootstrapConfig seeds the master realm on first start.
type BootstrapConfig struct {
	AdminUsername string `mapstructure:"admin_username"`
	AdminPassword string `mapstructure:"admin_password"`
	AdminClientID string `mapstructure:"admin_client_id"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type TracingConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
	ServiceName    string `mapstructure:"service_name"`
}

// Validate checks for essential configuration values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.BaseURL == "" {
		return fmt.Errorf("server.base_url must be set")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host must be set")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers must be set when kafka is enabled")
	}
	if c.Vault.Enabled && c.Vault.Address == "" {
		return fmt.Errorf("vault.address must be set when vault is enabled")
	}
	return nil
}

// LoginRateLimit returns the configured login budget, falling back to the
// built-in default.
func (c *RateLimitConfig) LoginRateLimit() int {
	if c.LoginPerMin > 0 {
		return c.LoginPerMin
	}
	return constants.LoginRateLimitPerMinute
}

// TokenRateLimit returns the configured token endpoint budget, falling back
// to the built-in default.
func (c *RateLimitConfig) TokenRateLimit() int {
	if c.TokenPerMin > 0 {
		return c.TokenPerMin
	}
	return constants.TokenRateLimitPerMinute
}
