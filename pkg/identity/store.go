package identity

import (
	"context"
	"errors"
)

// ErrUserNotFound is returned by Lookup for unknown account names.
var ErrUserNotFound = errors.New("user not found")

// Store is the identity collaborator: it owns authenticated user records and
// their persisted storage-usage counters.
//
// Usage accounting contract:
// Counters are advisory and incremental. The session core calls AddUsage with
// the payload length of each completed write; the store must apply the
// increment with at-least atomic-increment semantics so that concurrent
// sessions for the same user never lose updates. A crash between a write
// being admitted and its increment being persisted leaves the counter
// transiently low (and rewriting existing bytes counts them again, leaving it
// high); this drift is an accepted property of the scheme, not a bug.
type Store interface {
	// Lookup returns the user record for name, or ErrUserNotFound.
	// The returned record is a copy; callers must not expect live updates.
	Lookup(ctx context.Context, name string) (*User, error)

	// Usage returns the persisted byte-usage counter for name.
	Usage(ctx context.Context, name string) (uint64, error)

	// AddUsage atomically increments the usage counter for name by delta
	// bytes and returns the new total.
	AddUsage(ctx context.Context, name string, delta uint64) (uint64, error)

	// Put creates or replaces a user record. Used for provisioning; the
	// usage counter is preserved if the user already exists.
	Put(ctx context.Context, user *User) error

	// Close releases any resources held by the store.
	Close() error
}
