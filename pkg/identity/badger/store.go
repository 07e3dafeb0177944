// Package badger provides a persistent identity store backed by BadgerDB.
//
// It is suitable for deployments where user records and quota-usage counters
// must survive server restarts. Records are JSON values under prefixed keys
// (see keys.go); usage counters are updated inside Badger transactions with
// conflict retry, which gives the atomic-increment semantics the session
// core requires for concurrent sessions of the same user.
package badger

import (
	"context"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/marmos91/sandfs/internal/logger"
	"github.com/marmos91/sandfs/pkg/identity"
)

// usageRetryLimit bounds the conflict-retry loop in AddUsage. Conflicts only
// occur between concurrent increments for the same user, so a handful of
// retries is plenty.
const usageRetryLimit = 32

// BadgerStore implements identity.Store on top of a BadgerDB database.
type BadgerStore struct {
	db *badger.DB
}

var _ identity.Store = (*BadgerStore)(nil)

// NewBadgerStore opens (or creates) the database at path.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // badger's own logger is too chatty; we log at this layer

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open identity database at %q: %w", path, err)
	}

	logger.Info("Identity store opened: path=%s", path)
	return &BadgerStore{db: db}, nil
}

// Lookup returns the user record for name, or identity.ErrUserNotFound.
func (s *BadgerStore) Lookup(ctx context.Context, name string) (*identity.User, error) {
	var user *identity.User

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(name))
		if err != nil {
			return err
		}
		return item.Value(func(raw []byte) error {
			user, err = decodeUser(raw)
			return err
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, identity.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user %q: %w", name, err)
	}

	return user, nil
}

// Usage returns the persisted usage counter for name. A missing counter for
// an existing user reads as zero.
func (s *BadgerStore) Usage(ctx context.Context, name string) (uint64, error) {
	var used uint64

	err := s.db.View(func(txn *badger.Txn) error {
		if _, err := txn.Get(userKey(name)); err != nil {
			return err
		}

		item, err := txn.Get(usageKey(name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			used = 0
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(raw []byte) error {
			used, err = decodeUsage(raw)
			return err
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, identity.ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read usage for %q: %w", name, err)
	}

	return used, nil
}

// AddUsage increments the usage counter for name by delta inside a
// transaction. Badger detects write conflicts between concurrent
// transactions touching the same key, so a conflicted increment is retried
// rather than lost.
func (s *BadgerStore) AddUsage(ctx context.Context, name string, delta uint64) (uint64, error) {
	var total uint64

	for attempt := 0; attempt < usageRetryLimit; attempt++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		err := s.db.Update(func(txn *badger.Txn) error {
			if _, err := txn.Get(userKey(name)); err != nil {
				return err
			}

			var used uint64
			item, err := txn.Get(usageKey(name))
			switch {
			case errors.Is(err, badger.ErrKeyNotFound):
				used = 0
			case err != nil:
				return err
			default:
				if verr := item.Value(func(raw []byte) error {
					used, err = decodeUsage(raw)
					return err
				}); verr != nil {
					return verr
				}
			}

			total = used + delta
			return txn.Set(usageKey(name), encodeUsage(total))
		})
		if errors.Is(err, badger.ErrConflict) {
			logger.Debug("Usage update conflict for %q, retrying (attempt %d)", name, attempt+1)
			continue
		}
		if errors.Is(err, badger.ErrKeyNotFound) {
			return 0, identity.ErrUserNotFound
		}
		if err != nil {
			return 0, fmt.Errorf("failed to update usage for %q: %w", name, err)
		}
		return total, nil
	}

	return 0, fmt.Errorf("failed to update usage for %q: too many conflicts", name)
}

// Put creates or replaces a user record. The usage counter, if any, is left
// untouched so re-provisioning a user does not reset their accounting.
func (s *BadgerStore) Put(ctx context.Context, user *identity.User) error {
	encoded, err := encodeUser(user)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(userKey(user.Name), encoded)
	})
	if err != nil {
		return fmt.Errorf("failed to store user %q: %w", user.Name, err)
	}

	return nil
}

// Close flushes and closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
