// Package handlers translates decoded protocol requests into sandboxed
// filesystem actions for one session.
//
// Every operation follows the same shape: validate the client path against
// the user's sandbox root, check the user's capability (and quota, for
// writes), check operation-specific preconditions, perform the filesystem
// call, and emit exactly one protocol response per request identifier. The
// handler itself is stateless between requests; all cross-request state
// lives in the session's handle table.
package handlers

import (
	"github.com/marmos91/sandfs/internal/logger"
	"github.com/marmos91/sandfs/internal/protocol/sftp"
	"github.com/marmos91/sandfs/pkg/access"
	"github.com/marmos91/sandfs/pkg/identity"
	"github.com/marmos91/sandfs/pkg/sandbox"
	"github.com/marmos91/sandfs/pkg/session"
)

// DefaultReaddirBatchSize bounds how many directory entries one READDIR
// response carries when the server config does not say otherwise.
const DefaultReaddirBatchSize = 100

// Handler processes decoded requests for a single session.
//
// Safe for concurrent use: pipelined requests dispatch on separate
// goroutines, and all shared state (the handle table, directory cursors,
// usage counters) synchronizes internally.
type Handler struct {
	session   *session.Session
	gate      *access.Gate
	batchSize int
}

// New creates a handler bound to one session.
func New(sess *session.Session, gate *access.Gate, readdirBatchSize int) *Handler {
	if readdirBatchSize <= 0 {
		readdirBatchSize = DefaultReaddirBatchSize
	}
	return &Handler{
		session:   sess,
		gate:      gate,
		batchSize: readdirBatchSize,
	}
}

func (h *Handler) user() *identity.User {
	return h.session.User
}

// resolvePath confines a client path to the session user's root. On a
// sandbox violation it returns a ready PERMISSION_DENIED response: the
// violation detail (including the attempted path) goes to the server log
// only, never into client-facing text.
func (h *Handler) resolvePath(reqID uint32, clientPath string) (sandbox.Result, sftp.Response) {
	res := sandbox.Resolve(h.user().Root, clientPath)
	if !res.Valid {
		logger.Warn("Session %d: sandbox violation: user=%s reason=%s",
			h.session.ID, h.user().Name, res.Reason)
		return res, denied(reqID)
	}
	return res, nil
}

// verifyReal rejects paths whose on-disk real location (after symlink
// resolution) escapes the sandbox. Required before every destructive
// operation; syntactic resolution alone cannot see planted symlinks.
func (h *Handler) verifyReal(reqID uint32, abs string) sftp.Response {
	if err := sandbox.VerifyReal(h.user().Root, abs); err != nil {
		logger.Warn("Session %d: real-path check failed: user=%s error=%v",
			h.session.ID, h.user().Name, err)
		return denied(reqID)
	}
	return nil
}

func ok(reqID uint32) *sftp.StatusResponse {
	return &sftp.StatusResponse{ID: reqID, Code: sftp.StatusOK, Message: "OK"}
}

func eof(reqID uint32) *sftp.StatusResponse {
	return &sftp.StatusResponse{ID: reqID, Code: sftp.StatusEOF, Message: "end of file"}
}

func denied(reqID uint32) *sftp.StatusResponse {
	return &sftp.StatusResponse{ID: reqID, Code: sftp.StatusPermissionDenied, Message: "permission denied"}
}

func noSuchFile(reqID uint32) *sftp.StatusResponse {
	return &sftp.StatusResponse{ID: reqID, Code: sftp.StatusNoSuchFile, Message: "no such file"}
}

func failure(reqID uint32, message string) *sftp.StatusResponse {
	return &sftp.StatusResponse{ID: reqID, Code: sftp.StatusFailure, Message: message}
}
