package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Database drivers
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Jobs      JobsConfig      `mapstructure:"jobs"`
	Uploads   UploadsConfig   `mapstructure:"uploads"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// DatabaseConfig selects and configures the store
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	URL             string        `mapstructure:"url"` // postgres
	MongoURI        string        `mapstructure:"mongo_uri"`
	MongoDatabase   string        `mapstructure:"mongo_database"`
	MaxConnections  int           `mapstructure:"max_connections"`
	MinConnections  int           `mapstructure:"min_connections"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	// postgres statements slower than this are logged
	SlowQueryThreshold time.Duration `mapstructure:"slow_query_threshold"`
}

// CatalogConfig configures the external catalog API client
type CatalogConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	APIKey            string        `mapstructure:"api_key"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxRetries        int           `mapstructure:"max_retries"`
	InitialBackoff    time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff        time.Duration `mapstructure:"max_backoff"`
	BatchSize         int           `mapstructure:"batch_size"`
	Concurrency       int64         `mapstructure:"concurrency"`
}

// CacheConfig configures the Redis cache in front of the catalog API
type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
	// the cache is bypassed after BreakerMaxFailures consecutive errors, for BreakerResetTimeout
	BreakerMaxFailures  int           `mapstructure:"breaker_max_failures"`
	BreakerResetTimeout time.Duration `mapstructure:"breaker_reset_timeout"`
}

// RateLimitConfig holds inbound rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// JobsConfig holds background job schedules; a zero interval disables the job
type JobsConfig struct {
	WasteRegenerationInterval time.Duration `mapstructure:"waste_regeneration_interval"`
}

// UploadsConfig controls archiving of uploaded index sheets; an empty directory disables it
type UploadsConfig struct {
	ArchiveDir string `mapstructure:"archive_dir"`
}

// TelemetryConfig configures OpenTelemetry export
type TelemetryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	ServiceName string  `mapstructure:"service_name"`
	Environment string  `mapstructure:"environment"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

var globalConfig *Config

// Load loads the configuration from file, .env, and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// .env is optional
	if err := loadEnvFile(); err != nil {
		log.Debug().Err(err).Msg(".env file not loaded")
	}

	v.SetEnvPrefix("ADMIN_SERVICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	globalConfig = &cfg
	return &cfg, nil
}

// Validate checks settings that have no usable default
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMongo:
		if c.Database.MongoURI == "" {
			return errors.New("database.mongo_uri (MONGO_URI) is required for the mongo driver")
		}
	case DriverPostgres:
		if c.Database.URL == "" {
			return errors.New("database.url (DATABASE_URL) is required for the postgres driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown database.driver %q (want mongo, postgres or memory)", c.Database.Driver)
	}
	if c.Cache.Enabled && c.Cache.RedisURL == "" {
		return errors.New("cache.redis_url (REDIS_URL) is required when the cache is enabled")
	}
	if c.Jobs.WasteRegenerationInterval < 0 {
		return errors.New("jobs.waste_regeneration_interval must not be negative")
	}
	return nil
}

// loadEnvFile loads the first .env found; variables already set win
func loadEnvFile() error {
	for _, dir := range []string{".", "./config"} {
		envFile := filepath.Join(dir, ".env")
		if _, err := os.Stat(envFile); err == nil {
			return godotenv.Load(envFile)
		}
	}
	return errors.New("no .env file found")
}

// bindEnvVars binds conventional unprefixed variables to config keys
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("server.port", "ADMIN_SERVICE_SERVER_PORT", "PORT")
	_ = v.BindEnv("server.host", "ADMIN_SERVICE_SERVER_HOST", "HOST")

	_ = v.BindEnv("database.driver", "ADMIN_SERVICE_DATABASE_DRIVER", "DATABASE_DRIVER")
	_ = v.BindEnv("database.url", "ADMIN_SERVICE_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("database.mongo_uri", "ADMIN_SERVICE_DATABASE_MONGO_URI", "MONGO_URI")
	_ = v.BindEnv("database.mongo_database", "ADMIN_SERVICE_DATABASE_MONGO_DATABASE", "MONGO_DATABASE")

	_ = v.BindEnv("catalog.base_url", "ADMIN_SERVICE_CATALOG_BASE_URL", "CATALOG_BASE_URL")
	_ = v.BindEnv("catalog.api_key", "ADMIN_SERVICE_CATALOG_API_KEY", "CATALOG_API_KEY")

	_ = v.BindEnv("cache.redis_url", "ADMIN_SERVICE_CACHE_REDIS_URL", "REDIS_URL")

	_ = v.BindEnv("uploads.archive_dir", "ADMIN_SERVICE_UPLOADS_ARCHIVE_DIR", "UPLOAD_ARCHIVE_DIR")

	_ = v.BindEnv("telemetry.enabled", "ADMIN_SERVICE_TELEMETRY_ENABLED", "OTEL_ENABLED")
	_ = v.BindEnv("telemetry.endpoint", "ADMIN_SERVICE_TELEMETRY_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")

	_ = v.BindEnv("logging.level", "ADMIN_SERVICE_LOGGING_LEVEL", "LOG_LEVEL")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})

	v.SetDefault("database.driver", DriverMongo)
	v.SetDefault("database.mongo_database", "commerce_admin")
	v.SetDefault("database.max_connections", 25)
	v.SetDefault("database.min_connections", 2)
	v.SetDefault("database.max_conn_lifetime", 1*time.Hour)
	v.SetDefault("database.max_conn_idle_time", 30*time.Minute)
	v.SetDefault("database.connect_timeout", 10*time.Second)
	v.SetDefault("database.slow_query_threshold", 500*time.Millisecond)

	v.SetDefault("catalog.base_url", "http://localhost:8080")
	v.SetDefault("catalog.timeout", 30*time.Second)
	v.SetDefault("catalog.requests_per_second", 20)
	v.SetDefault("catalog.burst", 10)
	v.SetDefault("catalog.max_retries", 3)
	v.SetDefault("catalog.initial_backoff", 200*time.Millisecond)
	v.SetDefault("catalog.max_backoff", 10*time.Second)
	v.SetDefault("catalog.batch_size", 100)
	v.SetDefault("catalog.concurrency", 4)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("cache.breaker_max_failures", 5)
	v.SetDefault("cache.breaker_reset_timeout", 30*time.Second)

	v.SetDefault("rate_limit.requests_per_second", 20)
	v.SetDefault("rate_limit.burst", 40)

	v.SetDefault("jobs.waste_regeneration_interval", 0)

	v.SetDefault("uploads.archive_dir", "")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "localhost:4317")
	v.SetDefault("telemetry.service_name", "admin-service")
	v.SetDefault("telemetry.environment", "development")
	v.SetDefault("telemetry.sample_ratio", 1.0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.no_color", false)
}

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}
