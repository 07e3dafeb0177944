package handlers

import (
	"context"
	"os"

	"github.com/marmos91/sandfs/internal/logger"
	"github.com/marmos91/sandfs/internal/protocol/sftp"
)

// Stat returns attributes for a path, following symlinks.
//
// Metadata reads carry no capability gate beyond path validity: any path
// inside the sandbox may be statted. (Whether this should require the read
// capability is an open design question; the permissive behavior is kept.)
func (h *Handler) Stat(ctx context.Context, req *sftp.StatRequest) sftp.Response {
	logger.Debug("STAT: reqid=%d path=%q user=%s", req.ID, req.Path, h.user().Name)

	res, errResp := h.resolvePath(req.ID, req.Path)
	if errResp != nil {
		return errResp
	}

	fi, err := os.Stat(res.AbsolutePath)
	if err != nil {
		return fsError(req.ID, "STAT", err)
	}

	return &sftp.AttrsResponse{ID: req.ID, Attrs: sftp.AttrFromFileInfo(fi)}
}

// Lstat is Stat without following symlinks at the final component.
func (h *Handler) Lstat(ctx context.Context, req *sftp.LstatRequest) sftp.Response {
	logger.Debug("LSTAT: reqid=%d path=%q user=%s", req.ID, req.Path, h.user().Name)

	res, errResp := h.resolvePath(req.ID, req.Path)
	if errResp != nil {
		return errResp
	}

	fi, err := os.Lstat(res.AbsolutePath)
	if err != nil {
		return fsError(req.ID, "LSTAT", err)
	}

	return &sftp.AttrsResponse{ID: req.ID, Attrs: sftp.AttrFromFileInfo(fi)}
}
