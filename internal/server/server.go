// Package server runs the session layer: it accepts authenticated session
// connections from the transport collaborator, binds each to a user record
// and a fresh handle table, and drives the request/response loop with one
// worker per session.
package server

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/marmos91/sandfs/internal/logger"
	"github.com/marmos91/sandfs/internal/protocol/sftp"
	"github.com/marmos91/sandfs/pkg/access"
	"github.com/marmos91/sandfs/pkg/identity"
)

// RequestSource is the inbound half of one session's connection: a typed
// stream of decoded operations produced by the transport collaborator.
// Next returns io.EOF when the client ends the session.
type RequestSource interface {
	Next(ctx context.Context) (sftp.Request, error)
}

// Responder is the outbound half: it serializes and sends one response.
// The server guarantees Send is never called concurrently for one session.
type Responder interface {
	Send(resp sftp.Response) error
}

// SessionConn is one authenticated connection handed over by the transport.
// Authentication itself (credential checks, key exchange) already happened
// at the transport; only the resulting username crosses this boundary.
type SessionConn struct {
	Username  string
	Source    RequestSource
	Responder Responder
}

// Transport produces authenticated session connections. Accept blocks until
// a connection arrives, the context is cancelled, or the transport shuts
// down (any terminal error ends the accept loop).
type Transport interface {
	Accept(ctx context.Context) (*SessionConn, error)
}

// Options tunes per-session behavior.
type Options struct {
	// ReaddirBatchSize bounds entries per READDIR response.
	ReaddirBatchSize int

	// RateLimitPerSecond and RateLimitBurst bound each session's request
	// rate. Zero disables limiting.
	RateLimitPerSecond uint
	RateLimitBurst     uint
}

// Server owns the identity store and permission gate shared by all sessions.
// Sessions share no other mutable state: each gets its own handle table, and
// quota counters are the store's concern.
type Server struct {
	store identity.Store
	gate  *access.Gate
	opts  Options
}

// New creates a server backed by the given identity store.
func New(store identity.Store, opts Options) *Server {
	return &Server{
		store: store,
		gate:  access.NewGate(store),
		opts:  opts,
	}
}

// Run accepts sessions from the transport until the context is cancelled or
// the transport fails, then waits for every running session to finish its
// teardown (which releases all handles) before returning.
func (s *Server) Run(ctx context.Context, transport Transport) error {
	g, ctx := errgroup.WithContext(ctx)

	var acceptErr error
	for {
		conn, err := transport.Accept(ctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				acceptErr = err
			}
			break
		}

		g.Go(func() error {
			if err := s.ServeSession(ctx, conn); err != nil {
				logger.Warn("Session ended with error: user=%s error=%v", conn.Username, err)
			}
			// Session failures never tear down the whole server.
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if acceptErr != nil {
		return fmt.Errorf("transport accept failed: %w", acceptErr)
	}
	return nil
}
