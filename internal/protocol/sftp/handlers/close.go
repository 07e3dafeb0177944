package handlers

import (
	"context"
	"errors"

	"github.com/marmos91/sandfs/internal/logger"
	"github.com/marmos91/sandfs/internal/protocol/sftp"
	"github.com/marmos91/sandfs/pkg/session"
)

// Close releases a handle. A stale or unknown token is FAILURE; a close
// error on the descriptor itself is also FAILURE, but the binding is removed
// either way so the token cannot be reused against a half-closed record.
func (h *Handler) Close(ctx context.Context, req *sftp.CloseRequest) sftp.Response {
	logger.Debug("CLOSE: reqid=%d handle=%x user=%s",
		req.ID, []byte(req.Handle), h.user().Name)

	err := h.session.Handles.Release(req.Handle)
	if errors.Is(err, session.ErrHandleNotFound) {
		return failure(req.ID, "invalid handle")
	}
	if err != nil {
		logger.Error("CLOSE failed: reqid=%d handle=%x error=%v",
			req.ID, []byte(req.Handle), err)
		return failure(req.ID, "close failed")
	}

	return ok(req.ID)
}
