package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_DRIVER", "memory")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, "commerce_admin", cfg.Database.MongoDatabase)
	assert.Equal(t, 30*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, 100, cfg.Catalog.BatchSize)
	assert.Equal(t, time.Duration(0), cfg.Jobs.WasteRegenerationInterval)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Uploads.ArchiveDir)
	assert.Same(t, cfg, Get())
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
server:
  port: 8081
  allowed_origins: ["https://admin.example.com"]
database:
  driver: postgres
  url: postgres://file/db
catalog:
  base_url: https://catalog.example.com
  requests_per_second: 5.5
jobs:
  waste_regeneration_interval: 15m
uploads:
  archive_dir: /var/lib/admin/uploads
`)
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("ADMIN_SERVICE_CATALOG_API_KEY", "secret")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, []string{"https://admin.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "postgres://env/db", cfg.Database.URL, "environment overrides the file")
	assert.Equal(t, "https://catalog.example.com", cfg.Catalog.BaseURL)
	assert.Equal(t, 5.5, cfg.Catalog.RequestsPerSecond)
	assert.Equal(t, "secret", cfg.Catalog.APIKey)
	assert.Equal(t, 15*time.Minute, cfg.Jobs.WasteRegenerationInterval)
	assert.Equal(t, "/var/lib/admin/uploads", cfg.Uploads.ArchiveDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, ".env", "DATABASE_DRIVER=mongo\nMONGO_URI=mongodb://dotenv:27017\n")
	// godotenv does not override variables that are already set
	t.Setenv("MONGO_URI", "")
	require.NoError(t, os.Unsetenv("MONGO_URI"))
	t.Setenv("DATABASE_DRIVER", "")
	require.NoError(t, os.Unsetenv("DATABASE_DRIVER"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "mongodb://dotenv:27017", cfg.Database.MongoURI)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"memory ok", func(c *Config) {}, ""},
		{"mongo without uri", func(c *Config) { c.Database.Driver = DriverMongo }, "mongo_uri"},
		{"postgres without url", func(c *Config) { c.Database.Driver = DriverPostgres }, "database.url"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "sqlite" }, "unknown database.driver"},
		{"cache without redis", func(c *Config) { c.Cache.Enabled = true }, "redis_url"},
		{"negative interval", func(c *Config) { c.Jobs.WasteRegenerationInterval = -time.Second }, "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Database: DatabaseConfig{Driver: DriverMemory}}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
