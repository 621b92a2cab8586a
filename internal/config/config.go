package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Database    DatabaseConfig `toml:"database"`
	Storage     StorageConfig `toml:"storage"`
	Auth        AuthConfig    `toml:"auth"`
	Email       EmailConfig   `toml:"email"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// DatabaseConfig contains PostgreSQL settings.
type DatabaseConfig struct {
	URL      string `toml:"url"`
	MaxConns int    `toml:"max_conns"`
}

// StorageConfig contains object-storage (MinIO/S3) settings for dog images.
type StorageConfig struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Bucket    string `toml:"bucket"`
	UseSSL    bool   `toml:"use_ssl"`
}

// AuthConfig contains session and rate-limit settings.
type AuthConfig struct {
	// SessionLifetimeHours is the absolute session lifetime. Sessions are
	// renewed past their half-life on read.
	SessionLifetimeHours int `toml:"session_lifetime_hours"`
	// CacheTTLSeconds bounds how long a cached session lookup is trusted
	// before revalidation against the database.
	CacheTTLSeconds int `toml:"cache_ttl_seconds"`
	// CacheMaxEntries bounds the in-process session cache.
	CacheMaxEntries int `toml:"cache_max_entries"`
	// RateRPS / RateBurst configure the per-IP limiter on auth endpoints.
	RateRPS   float64 `toml:"rate_rps"`
	RateBurst int     `toml:"rate_burst"`
}

// EmailConfig contains outbound email (Resend) settings.
type EmailConfig struct {
	APIKey     string `toml:"api_key"`
	From       string `toml:"from"`
	AdminEmail string `toml:"admin_email"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// IsDevMode returns true unless the environment is set to prod.
func (c *Config) IsDevMode() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env != "prod" && env != "production"
}

// Validate checks mandatory configuration and returns a list of issues.
func (c *Config) Validate() []string {
	var issues []string
	if c.Database.URL == "" {
		issues = append(issues, "database.url is required (KENNEL_DATABASE_URL)")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}
	if c.Storage.Endpoint != "" && c.Storage.Bucket == "" {
		issues = append(issues, "storage.bucket is required when storage.endpoint is set")
	}
	return issues
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies KENNEL_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("KENNEL_ENVIRONMENT"); env != "" {
		config.Environment = env
	}
	if port := os.Getenv("KENNEL_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("KENNEL_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if url := os.Getenv("KENNEL_DATABASE_URL"); url != "" {
		config.Database.URL = url
	}
	if endpoint := os.Getenv("KENNEL_STORAGE_ENDPOINT"); endpoint != "" {
		config.Storage.Endpoint = endpoint
	}
	if key := os.Getenv("KENNEL_STORAGE_ACCESS_KEY"); key != "" {
		config.Storage.AccessKey = key
	}
	if key := os.Getenv("KENNEL_STORAGE_SECRET_KEY"); key != "" {
		config.Storage.SecretKey = key
	}
	if bucket := os.Getenv("KENNEL_STORAGE_BUCKET"); bucket != "" {
		config.Storage.Bucket = bucket
	}
	if ssl := os.Getenv("KENNEL_STORAGE_USE_SSL"); ssl != "" {
		config.Storage.UseSSL = ssl == "true"
	}
	if key := os.Getenv("KENNEL_EMAIL_API_KEY"); key != "" {
		config.Email.APIKey = key
	}
	if from := os.Getenv("KENNEL_EMAIL_FROM"); from != "" {
		config.Email.From = from
	}
	if admin := os.Getenv("KENNEL_EMAIL_ADMIN"); admin != "" {
		config.Email.AdminEmail = admin
	}
	if level := os.Getenv("KENNEL_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if path := os.Getenv("KENNEL_LOG_FILE"); path != "" {
		config.Logging.FilePath = path
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}
