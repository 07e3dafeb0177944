package config

import (
	"context"
	"strings"
	"testing"

	"github.com/marmos91/sandfs/pkg/identity"
)

func TestCreateIdentityStore_Memory(t *testing.T) {
	ctx := context.Background()
	cfg := &IdentityConfig{
		Type: "memory",
		Users: []UserConfig{
			{
				Name:          "alice",
				Root:          "/srv/sandbox/alice",
				Capabilities:  []string{"read", "write", "delete"},
				QuotaMaxBytes: 1024,
			},
		},
	}

	store, err := CreateIdentityStore(ctx, cfg)
	if err != nil {
		t.Fatalf("Failed to create memory identity store: %v", err)
	}
	defer store.Close()

	user, err := store.Lookup(ctx, "alice")
	if err != nil {
		t.Fatalf("Seeded user not found: %v", err)
	}
	if user.Root != "/srv/sandbox/alice" {
		t.Errorf("Expected root '/srv/sandbox/alice', got %q", user.Root)
	}
	if !user.Capabilities.Has(identity.CapDelete) {
		t.Error("Expected delete capability to be granted")
	}
	if user.Capabilities.Has(identity.CapRename) {
		t.Error("Expected rename capability to be absent")
	}
	if user.Quota.MaxBytes != 1024 {
		t.Errorf("Expected quota 1024, got %d", user.Quota.MaxBytes)
	}
}

func TestCreateIdentityStore_Badger(t *testing.T) {
	ctx := context.Background()
	cfg := &IdentityConfig{
		Type: "badger",
		Badger: map[string]any{
			"path": t.TempDir(),
		},
		Users: []UserConfig{
			{Name: "bob", Root: "/srv/sandbox/bob", Capabilities: []string{"read"}},
		},
	}

	store, err := CreateIdentityStore(ctx, cfg)
	if err != nil {
		t.Fatalf("Failed to create badger identity store: %v", err)
	}
	defer store.Close()

	if _, err := store.Lookup(ctx, "bob"); err != nil {
		t.Errorf("Seeded user not found: %v", err)
	}
}

func TestCreateIdentityStore_BadgerMissingPath(t *testing.T) {
	ctx := context.Background()
	cfg := &IdentityConfig{
		Type:   "badger",
		Badger: map[string]any{},
	}

	_, err := CreateIdentityStore(ctx, cfg)
	if err == nil {
		t.Fatal("Expected error for badger store without a path")
	}
	if !strings.Contains(err.Error(), "path is required") {
		t.Errorf("Expected path-required error, got: %v", err)
	}
}

func TestCreateIdentityStore_UnknownType(t *testing.T) {
	ctx := context.Background()
	cfg := &IdentityConfig{Type: "etcd"}

	_, err := CreateIdentityStore(ctx, cfg)
	if err == nil {
		t.Fatal("Expected error for unknown store type")
	}
	if !strings.Contains(err.Error(), "unknown identity store type") {
		t.Errorf("Expected unknown-type error, got: %v", err)
	}
}

func TestCreateIdentityStore_InvalidCapability(t *testing.T) {
	ctx := context.Background()
	cfg := &IdentityConfig{
		Type: "memory",
		Users: []UserConfig{
			{Name: "alice", Root: "/srv/a", Capabilities: []string{"fly"}},
		},
	}

	_, err := CreateIdentityStore(ctx, cfg)
	if err == nil {
		t.Fatal("Expected error for invalid capability name")
	}
}

func TestCreateIdentityStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CreateIdentityStore(ctx, &IdentityConfig{Type: "memory"})
	if err == nil {
		t.Fatal("Expected error with cancelled context")
	}
}

func TestUserFromConfig(t *testing.T) {
	user, err := UserFromConfig(&UserConfig{
		Name:          "carol",
		Root:          "/srv/sandbox/carol",
		Capabilities:  []string{"read", "write", "createdir", "rename"},
		QuotaMaxBytes: 2048,
	})
	if err != nil {
		t.Fatalf("UserFromConfig failed: %v", err)
	}

	if user.Name != "carol" {
		t.Errorf("Expected name 'carol', got %q", user.Name)
	}
	for _, cap := range []identity.Capability{
		identity.CapRead, identity.CapWrite, identity.CapCreateDir, identity.CapRename,
	} {
		if !user.Capabilities.Has(cap) {
			t.Errorf("Expected capability %q to be granted", cap)
		}
	}
	if user.Capabilities.Has(identity.CapDelete) {
		t.Error("Expected delete capability to be absent")
	}
	if user.Quota.Unlimited() {
		t.Error("Expected bounded quota")
	}
}
