package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Catalog sources.
const (
	CatalogSourcePostgres = "postgres"
	CatalogSourceSnapshot = "snapshot"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	S3       S3Config
	Catalog  CatalogConfig
	Redis    RedisConfig
	Metrics  MetricsConfig
	Pricing  PricingConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds authentication configuration. An empty APIKey disables
// authentication.
type AuthConfig struct {
	APIKey string
}

// S3Config locates a catalog snapshot in object storage.
type S3Config struct {
	Enabled bool
	Bucket  string
	Region  string
	Key     string
}

// CatalogConfig selects where customers and products are read from.
type CatalogConfig struct {
	Source        string // "postgres" or "snapshot"
	SnapshotPath  string
	SeedOnStart   bool
	SeedCustomers int
	SeedProducts  int
}

// RedisConfig configures the optional catalog cache.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool
	Namespace string
}

// PricingConfig holds settings for the pricing clock.
type PricingConfig struct {
	TimeZone string
}

// Load loads configuration from environment variables, reading a .env file
// first when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:            getString(k, "SERVER_HOST", "0.0.0.0"),
			Port:            getInt(k, "SERVER_PORT", 8080),
			ReadTimeout:     getDuration(k, "SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDuration(k, "SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getDuration(k, "SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDuration(k, "SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:            getString(k, "DB_HOST", "localhost"),
			Port:            getInt(k, "DB_PORT", 5432),
			User:            getString(k, "DB_USER", "postgres"),
			Password:        getString(k, "DB_PASSWORD", ""),
			Database:        getString(k, "DB_NAME", "pricebench"),
			MaxConnections:  getInt(k, "DB_MAX_CONNECTIONS", 25),
			MinConnections:  getInt(k, "DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getInt(k, "DB_MAX_CONN_LIFETIME", 300),
		},
		Logger: LoggerConfig{
			Level:  getString(k, "LOG_LEVEL", "info"),
			Format: getString(k, "LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			APIKey: getString(k, "API_KEY", ""),
		},
		S3: S3Config{
			Enabled: getBool(k, "S3_ENABLED", false),
			Bucket:  getString(k, "S3_BUCKET", ""),
			Region:  getString(k, "S3_REGION", "us-east-1"),
			Key:     getString(k, "S3_KEY", "catalog/catalog.gz"),
		},
		Catalog: CatalogConfig{
			Source:        strings.ToLower(getString(k, "CATALOG_SOURCE", CatalogSourcePostgres)),
			SnapshotPath:  getString(k, "CATALOG_SNAPSHOT_PATH", "data/catalog.gz"),
			SeedOnStart:   getBool(k, "CATALOG_SEED_ON_START", true),
			SeedCustomers: getInt(k, "CATALOG_SEED_CUSTOMERS", 1000),
			SeedProducts:  getInt(k, "CATALOG_SEED_PRODUCTS", 100),
		},
		Redis: RedisConfig{
			Enabled:  getBool(k, "REDIS_ENABLED", false),
			Addr:     getString(k, "REDIS_ADDR", "localhost:6379"),
			Password: getString(k, "REDIS_PASSWORD", ""),
			DB:       getInt(k, "REDIS_DB", 0),
			CacheTTL: getDuration(k, "REDIS_CACHE_TTL", 5*time.Minute),
		},
		Metrics: MetricsConfig{
			Enabled:   getBool(k, "METRICS_ENABLED", true),
			Namespace: getString(k, "METRICS_NAMESPACE", "pricebench"),
		},
		Pricing: PricingConfig{
			TimeZone: getString(k, "PRICING_TIMEZONE", "UTC"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	switch c.Catalog.Source {
	case CatalogSourcePostgres:
	case CatalogSourceSnapshot:
		if c.Catalog.SnapshotPath == "" && !c.S3.Enabled {
			return fmt.Errorf("catalog snapshot path is required when source is snapshot")
		}
	default:
		return fmt.Errorf("invalid catalog source: %s (must be postgres or snapshot)", c.Catalog.Source)
	}

	if c.Catalog.SeedCustomers < 0 || c.Catalog.SeedProducts < 0 {
		return fmt.Errorf("catalog seed sizes cannot be negative")
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis address is required when redis is enabled")
	}

	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return fmt.Errorf("metrics namespace is required when metrics are enabled")
	}

	if _, err := c.Pricing.Location(); err != nil {
		return fmt.Errorf("invalid pricing time zone: %s", c.Pricing.TimeZone)
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Location resolves the configured time zone.
func (c *PricingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.TimeZone)
}

func getString(k *koanf.Koanf, key, defaultValue string) string {
	if value := strings.TrimSpace(k.String(key)); value != "" {
		return value
	}
	return defaultValue
}

// getInt returns defaultValue when the key is unset or not an integer.
func getInt(k *koanf.Koanf, key string, defaultValue int) int {
	if value := strings.TrimSpace(k.String(key)); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBool(k *koanf.Koanf, key string, defaultValue bool) bool {
	if value := strings.TrimSpace(k.String(key)); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDuration(k *koanf.Koanf, key string, defaultValue time.Duration) time.Duration {
	if !k.Exists(key) {
		return defaultValue
	}
	if d := k.Duration(key); d > 0 {
		return d
	}
	return defaultValue
}
