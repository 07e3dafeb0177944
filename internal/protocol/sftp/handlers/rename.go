package handlers

import (
	"context"
	"os"
	"path/filepath"

	"github.com/marmos91/sandfs/internal/logger"
	"github.com/marmos91/sandfs/internal/protocol/sftp"
	"github.com/marmos91/sandfs/pkg/access"
)

// Rename moves a file or directory. Both paths are validated independently
// against the sandbox; the source must exist (NO_SUCH_FILE) and the
// destination's parent chain is created if missing.
//
// Renaming mutates the tree at two points, so it requires both the write and
// rename capabilities: rename is the grant for moving entries, write covers
// the materialization of the destination.
func (h *Handler) Rename(ctx context.Context, req *sftp.RenameRequest) sftp.Response {
	logger.Info("RENAME: reqid=%d old=%q new=%q user=%s",
		req.ID, req.OldPath, req.NewPath, h.user().Name)

	oldRes, errResp := h.resolvePath(req.ID, req.OldPath)
	if errResp != nil {
		return errResp
	}
	newRes, errResp := h.resolvePath(req.ID, req.NewPath)
	if errResp != nil {
		return errResp
	}

	if !h.gate.Allow(h.user(), access.ActionWrite) || !h.gate.Allow(h.user(), access.ActionRename) {
		return denied(req.ID)
	}
	if resp := h.verifyReal(req.ID, oldRes.AbsolutePath); resp != nil {
		return resp
	}
	if resp := h.verifyReal(req.ID, newRes.AbsolutePath); resp != nil {
		return resp
	}

	if _, err := os.Lstat(oldRes.AbsolutePath); err != nil {
		return fsError(req.ID, "RENAME", err)
	}

	if err := os.MkdirAll(filepath.Dir(newRes.AbsolutePath), 0755); err != nil {
		return fsError(req.ID, "RENAME", err)
	}

	if err := os.Rename(oldRes.AbsolutePath, newRes.AbsolutePath); err != nil {
		return fsError(req.ID, "RENAME", err)
	}

	return ok(req.ID)
}
