package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete sandfs configuration.
//
// This structure captures all configurable aspects of the session layer:
//   - Logging configuration
//   - Server-wide settings (shutdown, per-session listing batch, rate limits)
//   - Identity store selection and configuration (store-specific)
//   - The set of provisioned users with their sandbox roots, capabilities,
//     and quotas
//
// Configuration sources (in order of precedence):
//  1. CLI flags (highest priority)
//  2. Environment variables (SANDFS_*)
//  3. Configuration file (YAML or TOML)
//  4. Default values (lowest priority)
//
// Store Configuration Pattern:
// Each identity store implementation defines its own configuration shape.
// The Config struct contains type-specific sections (e.g., identity.badger)
// and only the section matching the selected type is used.
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging"`

	// Server contains server-wide settings
	Server ServerConfig `mapstructure:"server"`

	// Identity specifies the identity store type, type-specific configuration,
	// and the provisioned users
	Identity IdentityConfig `mapstructure:"identity"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized to uppercase)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`

	// Output specifies where logs are written
	// Valid values: stdout, stderr, or a file path
	Output string `mapstructure:"output" validate:"required"`
}

// ServerConfig contains server-wide settings.
type ServerConfig struct {
	// ShutdownTimeout is the maximum time to wait for graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0"`

	// ReaddirBatchSize bounds the number of entries returned per directory
	// listing response
	ReaddirBatchSize int `mapstructure:"readdir_batch_size" validate:"required,gt=0"`

	// RateLimit bounds each session's request rate
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig controls per-session request rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained request rate per session.
	// Zero disables rate limiting.
	RequestsPerSecond uint `mapstructure:"requests_per_second"`

	// Burst is the number of requests that may exceed the sustained rate
	// momentarily. Only used when RequestsPerSecond > 0.
	Burst uint `mapstructure:"burst"`
}

// IdentityConfig specifies identity store configuration.
//
// The Type field determines which store implementation is used.
// Only the corresponding type-specific configuration section is used.
type IdentityConfig struct {
	// Type specifies which identity store implementation to use
	// Valid values: memory, badger
	Type string `mapstructure:"type" validate:"required,oneof=memory badger"`

	// Badger contains BadgerDB-specific configuration
	// Only used when Type = "badger"
	Badger map[string]any `mapstructure:"badger"`

	// Users lists the provisioned users. Each user is seeded into the
	// identity store at startup; persistent stores keep quota usage counters
	// across restarts.
	Users []UserConfig `mapstructure:"users" validate:"dive"`
}

// UserConfig defines a single provisioned user.
type UserConfig struct {
	// Name is the username presented by the authenticated session
	Name string `mapstructure:"name" validate:"required"`

	// Root is the absolute path of the user's sandbox root directory
	Root string `mapstructure:"root" validate:"required"`

	// Capabilities lists the granted actions
	// Valid values: read, write, delete, createdir, rename
	Capabilities []string `mapstructure:"capabilities" validate:"dive,oneof=read write delete createdir rename"`

	// QuotaMaxBytes is the advisory write quota in bytes. Zero means unlimited.
	QuotaMaxBytes uint64 `mapstructure:"quota_max_bytes"`
}

// Load loads configuration from file, environment, and defaults.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (SANDFS_*)
//  2. Configuration file
//  3. Default values
//
// Parameters:
//   - configPath: Path to config file (empty string uses default location)
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: Configuration loading or validation error
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Configure viper
	setupViper(v, configPath)

	// Read configuration file if it exists
	if err := readConfigFile(v, configPath); err != nil {
		return nil, err
	}

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Apply defaults for any missing values
	ApplyDefaults(&cfg)

	// Validate configuration
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures viper with environment variables and config file settings.
func setupViper(v *viper.Viper, configPath string) {
	// Set up environment variable support
	// Environment variables use SANDFS_ prefix and underscores
	// Example: SANDFS_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix("SANDFS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Configure config file search
	if configPath != "" {
		// Use explicitly specified config file
		v.SetConfigFile(configPath)
	} else {
		// Use default location: $XDG_CONFIG_HOME/sandfs/config.{yaml,toml}
		configDir := getConfigDir()
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml") // Primary format
	}
}

// readConfigFile reads the configuration file if it exists.
func readConfigFile(v *viper.Viper, configPath string) error {
	if err := v.ReadInConfig(); err != nil {
		// Check if error is "config file not found"
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found is acceptable - use defaults
			return nil
		}
		// Other errors are problems
		return fmt.Errorf("failed to read config file: %w", err)
	}

	return nil
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to current
// directory (.) if home directory cannot be determined.
func getConfigDir() string {
	// Check XDG_CONFIG_HOME
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "sandfs")
	}

	// Fall back to ~/.config
	home, err := os.UserHomeDir()
	if err != nil {
		// If we can't get home dir, use current directory as last resort
		return "."
	}

	return filepath.Join(home, ".config", "sandfs")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// ConfigExists checks if a config file exists at the default location.
func ConfigExists() bool {
	path := GetDefaultConfigPath()
	_, err := os.Stat(path)
	return err == nil
}
