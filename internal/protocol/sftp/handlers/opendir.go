package handlers

import (
	"context"
	"os"

	"github.com/marmos91/sandfs/internal/logger"
	"github.com/marmos91/sandfs/internal/protocol/sftp"
	"github.com/marmos91/sandfs/pkg/access"
	"github.com/marmos91/sandfs/pkg/session"
)

// Opendir opens a directory-listing cursor. Listing is a read operation, so
// the read capability is required. The target must exist and be a directory;
// no descriptor is held — the snapshot is taken lazily on first READDIR.
func (h *Handler) Opendir(ctx context.Context, req *sftp.OpendirRequest) sftp.Response {
	logger.Info("OPENDIR: reqid=%d path=%q user=%s", req.ID, req.Path, h.user().Name)

	res, errResp := h.resolvePath(req.ID, req.Path)
	if errResp != nil {
		return errResp
	}

	if !h.gate.Allow(h.user(), access.ActionRead) {
		return denied(req.ID)
	}

	fi, err := os.Stat(res.AbsolutePath)
	if err != nil {
		return fsError(req.ID, "OPENDIR", err)
	}
	if !fi.IsDir() {
		return failure(req.ID, "not a directory")
	}

	handle := h.session.Handles.Open(&session.DirRecord{Path: res.AbsolutePath})

	logger.Debug("OPENDIR successful: reqid=%d handle=%x", req.ID, []byte(handle))
	return &sftp.HandleResponse{ID: req.ID, Handle: handle}
}
