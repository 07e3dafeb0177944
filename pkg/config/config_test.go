package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultConfig(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// Write minimal config
	configContent := `
logging:
  level: "INFO"

identity:
  type: "memory"
  users:
    - name: "alice"
      root: "/srv/sandbox/alice"
      capabilities: ["read", "write"]
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	// Load config
	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify defaults were applied
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default output 'stdout', got %q", cfg.Logging.Output)
	}
	if cfg.Server.ShutdownTimeout != 30*time.Second {
		t.Errorf("Expected default shutdown_timeout 30s, got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Server.ReaddirBatchSize != 100 {
		t.Errorf("Expected default readdir_batch_size 100, got %d", cfg.Server.ReaddirBatchSize)
	}

	// Verify file values survived
	if len(cfg.Identity.Users) != 1 {
		t.Fatalf("Expected 1 user, got %d", len(cfg.Identity.Users))
	}
	if cfg.Identity.Users[0].Name != "alice" {
		t.Errorf("Expected user 'alice', got %q", cfg.Identity.Users[0].Name)
	}
	if cfg.Identity.Users[0].Root != "/srv/sandbox/alice" {
		t.Errorf("Expected root '/srv/sandbox/alice', got %q", cfg.Identity.Users[0].Root)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	// Use a temporary directory with a non-existent config file path
	// This ensures we don't load the user's config from ~/.config/sandfs/
	tmpDir := t.TempDir()
	nonExistentPath := filepath.Join(tmpDir, "nonexistent.yaml")

	cfg, err := Load(nonExistentPath)
	if err != nil {
		t.Fatalf("Expected no error with missing config file, got: %v", err)
	}

	// Verify defaults
	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Identity.Type != "memory" {
		t.Errorf("Expected default identity type 'memory', got %q", cfg.Identity.Type)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	// Write invalid YAML
	configContent := `
logging:
  level: INFO
  invalid yaml here [[[
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	// Should return error
	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Expected error with invalid YAML, got nil")
	}
}

func TestLoad_TOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	configContent := `
[logging]
level = "WARN"

[server]
readdir_batch_size = 25

[identity]
type = "memory"

[[identity.users]]
name = "bob"
root = "/srv/sandbox/bob"
capabilities = ["read"]
quota_max_bytes = 4096
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load TOML config: %v", err)
	}

	if cfg.Logging.Level != "WARN" {
		t.Errorf("Expected level 'WARN', got %q", cfg.Logging.Level)
	}
	if cfg.Server.ReaddirBatchSize != 25 {
		t.Errorf("Expected readdir_batch_size 25, got %d", cfg.Server.ReaddirBatchSize)
	}
	if len(cfg.Identity.Users) != 1 || cfg.Identity.Users[0].QuotaMaxBytes != 4096 {
		t.Errorf("User quota not loaded: %+v", cfg.Identity.Users)
	}
}

func TestLoad_NormalizesLogLevel(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
logging:
  level: "debug"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected normalized level 'DEBUG', got %q", cfg.Logging.Level)
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// A user with a relative root must be rejected
	configContent := `
identity:
  type: "memory"
  users:
    - name: "alice"
      root: "relative/path"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Fatal("Expected validation error for relative user root, got nil")
	}
}
