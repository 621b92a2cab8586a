package config

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "dev",
		Server: ServerConfig{
			Port: 4310,
			Host: "localhost",
		},
		Database: DatabaseConfig{
			MaxConns: 8,
		},
		Storage: StorageConfig{
			Bucket: "kennel-media",
		},
		Auth: AuthConfig{
			SessionLifetimeHours: 30 * 24,
			CacheTTLSeconds:      5 * 60,
			CacheMaxEntries:      4096,
			RateRPS:              1,
			RateBurst:            5,
		},
		Email: EmailConfig{
			From: "Sekhon Dog Kennel <noreply@sekhondogkennel.com>",
		},
		Logging: LoggingConfig{
			Level:   "info",
			Outputs: []string{"console", "file"},
		},
	}
}
