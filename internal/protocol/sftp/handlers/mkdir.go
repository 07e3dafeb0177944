package handlers

import (
	"context"
	"os"

	"github.com/marmos91/sandfs/internal/logger"
	"github.com/marmos91/sandfs/internal/protocol/sftp"
	"github.com/marmos91/sandfs/pkg/access"
)

// Mkdir creates a directory, including any missing intermediates. Requires
// the create-directory capability. An existing target of any type is
// FAILURE.
func (h *Handler) Mkdir(ctx context.Context, req *sftp.MkdirRequest) sftp.Response {
	logger.Info("MKDIR: reqid=%d path=%q user=%s", req.ID, req.Path, h.user().Name)

	res, errResp := h.resolvePath(req.ID, req.Path)
	if errResp != nil {
		return errResp
	}

	if !h.gate.Allow(h.user(), access.ActionCreateDir) {
		return denied(req.ID)
	}
	if resp := h.verifyReal(req.ID, res.AbsolutePath); resp != nil {
		return resp
	}

	if _, err := os.Lstat(res.AbsolutePath); err == nil {
		return failure(req.ID, "target already exists")
	}

	if err := os.MkdirAll(res.AbsolutePath, 0755); err != nil {
		return fsError(req.ID, "MKDIR", err)
	}

	return ok(req.ID)
}
