// Package access evaluates a user's capability set and storage budget before
// the dispatcher performs a mutating filesystem action.
package access

import (
	"context"
	"fmt"

	"github.com/marmos91/sandfs/pkg/identity"
)

// Action is one operation class gated by a user capability.
type Action = identity.Capability

const (
	ActionRead      = identity.CapRead
	ActionWrite     = identity.CapWrite
	ActionDelete    = identity.CapDelete
	ActionCreateDir = identity.CapCreateDir
	ActionRename    = identity.CapRename
)

// Gate answers allow/deny questions against user records and the identity
// store's usage counters. It has no side effects and keeps no state of its
// own; every quota decision re-reads the persisted counter so that
// concurrent sessions of the same user see each other's writes.
type Gate struct {
	store identity.Store
}

// NewGate creates a gate backed by the given identity store.
func NewGate(store identity.Store) *Gate {
	return &Gate{store: store}
}

// Allow reports whether the user's capability set grants the action.
// Pure lookup, no side effects.
func (g *Gate) Allow(user *identity.User, action Action) bool {
	return user.Capabilities.Has(action)
}

// AllowWrite reports whether writing additionalBytes stays within the user's
// quota. The check runs before the write: persisted usage plus the incoming
// payload must not exceed the maximum. An unlimited quota bypasses the
// numeric check entirely.
//
// Accounting is advisory-incremental (see identity.Store): the counter read
// here can lag a concurrent in-flight write, so two racing writes near the
// ceiling may both be admitted. That drift is documented and accepted.
func (g *Gate) AllowWrite(ctx context.Context, user *identity.User, additionalBytes uint64) (bool, error) {
	if user.Quota.Unlimited() {
		return true, nil
	}

	used, err := g.store.Usage(ctx, user.Name)
	if err != nil {
		return false, fmt.Errorf("failed to read usage for %q: %w", user.Name, err)
	}

	return used+additionalBytes <= user.Quota.MaxBytes, nil
}

// RecordWrite charges completed write bytes against the user's counter.
// Called after the filesystem write succeeds; a crash between the write and
// this increment under-counts, which the accounting scheme tolerates.
func (g *Gate) RecordWrite(ctx context.Context, user *identity.User, bytes uint64) (uint64, error) {
	if bytes == 0 {
		return g.store.Usage(ctx, user.Name)
	}
	return g.store.AddUsage(ctx, user.Name, bytes)
}
