package handlers

import (
	"context"
	"os"

	"github.com/marmos91/sandfs/internal/logger"
	"github.com/marmos91/sandfs/internal/protocol/sftp"
	"github.com/marmos91/sandfs/pkg/access"
)

// Rmdir removes an empty directory. Requires the delete capability; the
// target must exist (NO_SUCH_FILE) and must be a directory (FAILURE
// otherwise). A non-empty directory fails at the filesystem and maps to
// FAILURE as well.
func (h *Handler) Rmdir(ctx context.Context, req *sftp.RmdirRequest) sftp.Response {
	logger.Info("RMDIR: reqid=%d path=%q user=%s", req.ID, req.Path, h.user().Name)

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
		return fsError(req.ID, "RMDIR", err)
	}
	if !fi.IsDir() {
		return failure(req.ID, "target is not a directory")
	}

	if err := os.Remove(res.AbsolutePath); err != nil {
		return fsError(req.ID, "RMDIR", err)
	}

	return ok(req.ID)
}
