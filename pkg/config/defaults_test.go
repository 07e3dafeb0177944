package config

import (
	"testing"
	"time"
)

func TestApplyDefaults_Logging(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default log level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default log output 'stdout', got %q", cfg.Logging.Output)
	}
}

func TestApplyDefaults_NormalizesLevel(t *testing.T) {
	cfg := &Config{}
	cfg.Logging.Level = "warn"
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "WARN" {
		t.Errorf("Expected normalized level 'WARN', got %q", cfg.Logging.Level)
	}
}

func TestApplyDefaults_Server(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Server.ShutdownTimeout != 30*time.Second {
		t.Errorf("Expected default shutdown timeout 30s, got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Server.ReaddirBatchSize != 100 {
		t.Errorf("Expected default readdir batch size 100, got %d", cfg.Server.ReaddirBatchSize)
	}
	if cfg.Server.RateLimit.RequestsPerSecond != 0 {
		t.Errorf("Expected rate limiting disabled by default, got %d", cfg.Server.RateLimit.RequestsPerSecond)
	}
}

func TestApplyDefaults_RateLimitBurst(t *testing.T) {
	cfg := &Config{}
	cfg.Server.RateLimit.RequestsPerSecond = 50
	ApplyDefaults(cfg)

	// A configured rate with no burst gets a burst matching the rate,
	// otherwise the limiter would reject everything
	if cfg.Server.RateLimit.Burst != 50 {
		t.Errorf("Expected burst defaulted to 50, got %d", cfg.Server.RateLimit.Burst)
	}

	// An explicit burst is preserved
	cfg = &Config{}
	cfg.Server.RateLimit.RequestsPerSecond = 50
	cfg.Server.RateLimit.Burst = 10
	ApplyDefaults(cfg)
	if cfg.Server.RateLimit.Burst != 10 {
		t.Errorf("Expected explicit burst 10 preserved, got %d", cfg.Server.RateLimit.Burst)
	}
}

func TestApplyDefaults_Identity(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Identity.Type != "memory" {
		t.Errorf("Expected default identity type 'memory', got %q", cfg.Identity.Type)
	}
	if cfg.Identity.Badger == nil {
		t.Error("Expected badger options map to be initialized")
	}
}

func TestApplyDefaults_UserCapabilities(t *testing.T) {
	cfg := &Config{
		Identity: IdentityConfig{
			Users: []UserConfig{
				{Name: "alice", Root: "/srv/a"},
				{Name: "bob", Root: "/srv/b", Capabilities: []string{"write"}},
			},
		},
	}
	ApplyDefaults(cfg)

	// A user with no grants defaults to read-only
	if len(cfg.Identity.Users[0].Capabilities) != 1 || cfg.Identity.Users[0].Capabilities[0] != "read" {
		t.Errorf("Expected default capabilities [read], got %v", cfg.Identity.Users[0].Capabilities)
	}

	// Explicit grants are preserved
	if len(cfg.Identity.Users[1].Capabilities) != 1 || cfg.Identity.Users[1].Capabilities[0] != "write" {
		t.Errorf("Expected explicit capabilities [write], got %v", cfg.Identity.Users[1].Capabilities)
	}
}

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	if err := Validate(cfg); err != nil {
		t.Errorf("Default config should validate, got: %v", err)
	}
}
