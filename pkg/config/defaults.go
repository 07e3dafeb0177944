package config

import (
	"strings"
	"time"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// This function is called after loading configuration from file and environment
// variables to fill in any missing values with sensible defaults.
//
// Default Strategy:
//   - Zero values (0, "", false, nil) are replaced with defaults
//   - Explicit values are preserved
//   - Store-specific defaults are handled by store implementations
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyServerDefaults(&cfg.Server)
	applyIdentityDefaults(&cfg.Identity)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalize log level to uppercase for consistent internal representation
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

// applyServerDefaults sets server defaults.
func applyServerDefaults(cfg *ServerConfig) {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	if cfg.ReaddirBatchSize == 0 {
		cfg.ReaddirBatchSize = 100
	}

	// RateLimit.RequestsPerSecond defaults to 0 (unlimited)

	if cfg.RateLimit.RequestsPerSecond > 0 && cfg.RateLimit.Burst == 0 {
		// A limiter with zero burst rejects everything; match the sustained rate
		cfg.RateLimit.Burst = cfg.RateLimit.RequestsPerSecond
	}
}

// applyIdentityDefaults sets identity store defaults.
func applyIdentityDefaults(cfg *IdentityConfig) {
	if cfg.Type == "" {
		cfg.Type = "memory"
	}

	// Initialize maps if nil
	if cfg.Badger == nil {
		cfg.Badger = make(map[string]any)
	}

	for i := range cfg.Users {
		user := &cfg.Users[i]

		// A user with no explicit grants can still read
		if len(user.Capabilities) == 0 {
			user.Capabilities = []string{"read"}
		}

		// QuotaMaxBytes defaults to 0 (unlimited)
	}
}

// GetDefaultConfig returns a Config struct with all default values applied.
//
// This is useful for:
//   - Generating sample configuration files
//   - Testing
//   - Documentation
func GetDefaultConfig() *Config {
	cfg := &Config{
		Logging: LoggingConfig{},
		Server:  ServerConfig{},
		Identity: IdentityConfig{
			Badger: make(map[string]any),
		},
	}

	ApplyDefaults(cfg)
	return cfg
}
