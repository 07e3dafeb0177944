package config

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/marmos91/sandfs/internal/logger"
	"github.com/marmos91/sandfs/pkg/identity"
	identityBadger "github.com/marmos91/sandfs/pkg/identity/badger"
	identityMemory "github.com/marmos91/sandfs/pkg/identity/memory"
)

// CreateIdentityStore creates an identity store based on configuration.
//
// This factory function uses the Type field to determine which store
// implementation to create, then decodes the type-specific configuration
// from the corresponding map and passes it to the store's constructor.
//
// Supported types:
//   - "memory": Uses pkg/identity/memory (in-memory storage, ephemeral)
//   - "badger": Uses pkg/identity/badger (BadgerDB storage, persistent)
//
// Parameters:
//   - ctx: Context for initialization operations
//   - cfg: Identity store configuration
//
// Returns:
//   - identity.Store: Initialized identity store
//   - error: Configuration or initialization error
func CreateIdentityStore(ctx context.Context, cfg *IdentityConfig) (identity.Store, error) {
	var store identity.Store
	var err error

	switch cfg.Type {
	case "memory":
		store, err = createMemoryIdentityStore(ctx)
	case "badger":
		store, err = createBadgerIdentityStore(ctx, cfg.Badger)
	default:
		return nil, fmt.Errorf("unknown identity store type: %q (supported: memory, badger)", cfg.Type)
	}
	if err != nil {
		return nil, err
	}

	// Seed provisioned users. Put preserves existing usage counters, so
	// re-seeding a persistent store on restart keeps quota accounting intact.
	for i, userCfg := range cfg.Users {
		user, err := UserFromConfig(&userCfg)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("identity.users[%d] %q: %w", i, userCfg.Name, err)
		}
		if err := store.Put(ctx, user); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to seed user %q: %w", userCfg.Name, err)
		}
		logger.Info("Provisioned user: name=%s root=%s capabilities=%v quota=%d",
			user.Name, user.Root, user.Capabilities.List(), user.Quota.MaxBytes)
	}

	return store, nil
}

// createMemoryIdentityStore creates an in-memory identity store.
func createMemoryIdentityStore(ctx context.Context) (identity.Store, error) {
	// Check context before creating store
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return identityMemory.NewMemoryStore(nil), nil
}

// createBadgerIdentityStore creates a BadgerDB-based persistent identity store.
func createBadgerIdentityStore(ctx context.Context, options map[string]any) (identity.Store, error) {
	// Check context before creating store
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Decode store-specific options
	type BadgerIdentityStoreOptions struct {
		Path string `mapstructure:"path"`
	}

	var storeOpts BadgerIdentityStoreOptions
	if err := mapstructure.Decode(options, &storeOpts); err != nil {
		return nil, fmt.Errorf("failed to decode badger identity store options: %w", err)
	}

	// Validate required fields
	if storeOpts.Path == "" {
		return nil, fmt.Errorf("badger identity store: path is required")
	}

	store, err := identityBadger.NewBadgerStore(storeOpts.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create badger identity store: %w", err)
	}

	return store, nil
}

// UserFromConfig converts a user configuration entry into an identity.User.
func UserFromConfig(cfg *UserConfig) (*identity.User, error) {
	capabilities := make([]identity.Capability, 0, len(cfg.Capabilities))
	for _, name := range cfg.Capabilities {
		capability, err := identity.ParseCapability(name)
		if err != nil {
			return nil, err
		}
		capabilities = append(capabilities, capability)
	}

	return &identity.User{
		Name:         cfg.Name,
		Root:         cfg.Root,
		Capabilities: identity.NewCapabilitySet(capabilities...),
		Quota:        identity.Quota{MaxBytes: cfg.QuotaMaxBytes},
	}, nil
}
