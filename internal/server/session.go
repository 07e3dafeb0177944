package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/marmos91/sandfs/internal/logger"
	"github.com/marmos91/sandfs/internal/protocol/sftp"
	"github.com/marmos91/sandfs/internal/protocol/sftp/handlers"
	"github.com/marmos91/sandfs/internal/ratelimiter"
	"github.com/marmos91/sandfs/pkg/session"
)

// ServeSession runs one session to completion.
//
// Requests may be pipelined: each decoded request dispatches on its own
// goroutine so a slow filesystem call does not stall later requests, and the
// handle table synchronizes cross-request state. Responses are serialized
// through a mutex since the Responder contract is single-writer. Blocking
// filesystem calls therefore block only this session's request goroutines,
// never other sessions.
//
// Teardown order matters: when the stream ends (client EOF, transport error,
// or context cancellation) the worker first drains every in-flight request,
// then releases all handles, and only then returns — so the session close is
// acknowledged strictly after its descriptors are gone.
func (s *Server) ServeSession(ctx context.Context, conn *SessionConn) error {
	user, err := s.store.Lookup(ctx, conn.Username)
	if err != nil {
		return fmt.Errorf("session rejected for %q: %w", conn.Username, err)
	}

	sess := session.New(user)
	handler := handlers.New(sess, s.gate, s.opts.ReaddirBatchSize)
	limiter := ratelimiter.New(s.opts.RateLimitPerSecond, s.opts.RateLimitBurst)

	var (
		wg     sync.WaitGroup
		sendMu sync.Mutex
	)

	send := func(resp sftp.Response) {
		sendMu.Lock()
		defer sendMu.Unlock()
		if err := conn.Responder.Send(resp); err != nil {
			logger.Warn("Session %d: failed to send response: reqid=%d error=%v",
				sess.ID, resp.ResponseID(), err)
		}
	}

	var streamErr error
	for {
		req, err := conn.Source.Next(ctx)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
				streamErr = err
			}
			break
		}

		if !limiter.Allow() {
			logger.Warn("Session %d: request rate limit exceeded: reqid=%d method=%s",
				sess.ID, req.RequestID(), req.Method())
			send(&sftp.StatusResponse{
				ID:      req.RequestID(),
				Code:    sftp.StatusFailure,
				Message: "rate limit exceeded",
			})
			continue
		}

		wg.Add(1)
		go func(req sftp.Request) {
			defer wg.Done()
			send(handler.Dispatch(ctx, req))
		}(req)
	}

	wg.Wait()
	sess.Close()

	if streamErr != nil {
		return fmt.Errorf("request stream failed: %w", streamErr)
	}
	return nil
}
