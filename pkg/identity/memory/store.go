// Package memory provides an in-memory identity store, typically seeded from
// configuration. Suitable for development, testing, and small deployments
// where user records do not need to survive restarts.
package memory

import (
	"context"
	"sync"

	"github.com/marmos91/sandfs/pkg/identity"
)

// entry pairs a user record with its live usage counter.
type entry struct {
	user identity.User
	used uint64
}

// MemoryStore implements identity.Store backed by a mutex-guarded map.
//
// Thread safety: all operations take the store mutex, which also gives
// AddUsage its atomic-increment guarantee across concurrent sessions.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*entry
}

var _ identity.Store = (*MemoryStore)(nil)

// NewMemoryStore creates a store pre-populated with the given users.
// Usage counters start at zero.
func NewMemoryStore(users []identity.User) *MemoryStore {
	s := &MemoryStore{users: make(map[string]*entry, len(users))}
	for _, u := range users {
		s.users[u.Name] = &entry{user: cloneUser(&u)}
	}
	return s
}

// Lookup returns a copy of the user record for name.
func (s *MemoryStore) Lookup(ctx context.Context, name string) (*identity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.users[name]
	if !ok {
		return nil, identity.ErrUserNotFound
	}
	u := cloneUser(&e.user)
	return &u, nil
}

// Usage returns the current usage counter for name.
func (s *MemoryStore) Usage(ctx context.Context, name string) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.users[name]
	if !ok {
		return 0, identity.ErrUserNotFound
	}
	return e.used, nil
}

// AddUsage increments the usage counter for name under the store lock.
func (s *MemoryStore) AddUsage(ctx context.Context, name string, delta uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.users[name]
	if !ok {
		return 0, identity.ErrUserNotFound
	}
	e.used += delta
	return e.used, nil
}

// Put creates or replaces a user record, preserving any existing counter.
func (s *MemoryStore) Put(ctx context.Context, user *identity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.users[user.Name]; ok {
		existing.user = cloneUser(user)
		return nil
	}
	s.users[user.Name] = &entry{user: cloneUser(user)}
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// cloneUser deep-copies a user record so callers cannot mutate store state.
func cloneUser(u *identity.User) identity.User {
	caps := make(identity.CapabilitySet, len(u.Capabilities))
	for c, ok := range u.Capabilities {
		caps[c] = ok
	}
	return identity.User{
		Name:         u.Name,
		Root:         u.Root,
		Capabilities: caps,
		Quota:        u.Quota,
	}
}
