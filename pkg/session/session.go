// Package session owns the per-connection state of the server: one Session
// per authenticated connection, each exclusively owning a HandleTable that in
// turn owns every open descriptor and directory cursor until explicit close
// or session teardown.
package session

import (
	"sync/atomic"

	"github.com/marmos91/sandfs/internal/logger"
	"github.com/marmos91/sandfs/pkg/identity"
)

// sessionCounter hands out process-unique session identifiers for logging.
var sessionCounter atomic.Uint64

// Session binds one authenticated user to one handle table for the lifetime
// of a connection. The dispatcher itself is stateless; everything that must
// survive between requests lives here.
type Session struct {
	// ID identifies the session in log output.
	ID uint64

	// User is the authenticated account record, read-only for the session's
	// lifetime.
	User *identity.User

	// Handles is the session's handle table. Exclusively owned: no other
	// session can reach these records.
	Handles *HandleTable
}

// New creates a session for an authenticated user.
func New(user *identity.User) *Session {
	s := &Session{
		ID:      sessionCounter.Add(1),
		User:    user,
		Handles: NewHandleTable(),
	}
	logger.Debug("Session %d started: user=%s root=%s", s.ID, user.Name, user.Root)
	return s
}

// Close releases every handle the session still owns. It must complete
// before the connection close is acknowledged; release errors are logged by
// the table and never propagate.
func (s *Session) Close() {
	open := s.Handles.Len()
	s.Handles.ReleaseAll()
	logger.Debug("Session %d closed: user=%s released=%d", s.ID, s.User.Name, open)
}
