package handlers

import (
	"context"
	"os"

	"github.com/marmos91/sandfs/internal/logger"
	"github.com/marmos91/sandfs/internal/protocol/sftp"
	"github.com/marmos91/sandfs/pkg/access"
)

// Remove deletes a file. Requires the delete capability; the target must
// exist (NO_SUCH_FILE) and must not be a directory (FAILURE — rmdir is the
// operation for directories).
func (h *Handler) Remove(ctx context.Context, req *sftp.RemoveRequest) sftp.Response {
	logger.Info("REMOVE: reqid=%d path=%q user=%s", req.ID, req.Path, h.user().Name)

	res, errResp := h.resolvePath(req.ID, req.Path)
	if errResp != nil {
		return errResp
	}

	if !h.gate.Allow(h.user(), access.ActionDelete) {
		return denied(req.ID)
	}
	if resp := h.verifyReal(req.ID, res.AbsolutePath); resp != nil {
		return resp
	}

	fi, err := os.Lstat(res.AbsolutePath)
	if err != nil {
		return fsError(req.ID, "REMOVE", err)
	}
	if fi.IsDir() {
		return failure(req.ID, "target is a directory")
	}

	if err := os.Remove(res.AbsolutePath); err != nil {
		return fsError(req.ID, "REMOVE", err)
	}

	return ok(req.ID)
}
