package handlers

import (
	"context"
	"os"
	"path/filepath"

	"github.com/marmos91/sandfs/internal/logger"
	"github.com/marmos91/sandfs/internal/protocol/sftp"
	"github.com/marmos91/sandfs/pkg/access"
	"github.com/marmos91/sandfs/pkg/session"
)

// Open opens a file (or, with read-oriented flags, a directory path) and
// returns a new handle token.
//
// Policy:
//   - Read-only opens require the read capability and an existing target.
//   - Write-intent opens (any of WRITE, APPEND, CREATE, TRUNCATE) require
//     the write capability, pass the real-path hardening check, and create
//     missing parent directories.
//   - A missing target is created whenever write intent is present, even if
//     the CREATE flag is absent. This is deliberate historical leniency
//     carried for client compatibility; strict protocol semantics would
//     reject such opens.
//   - Any write-intent flag against an existing directory path is
//     PERMISSION_DENIED, never a handle.
func (h *Handler) Open(ctx context.Context, req *sftp.OpenRequest) sftp.Response {
	logger.Info("OPEN: reqid=%d path=%q flags=%#x user=%s",
		req.ID, req.Path, req.Flags, h.user().Name)

	res, errResp := h.resolvePath(req.ID, req.Path)
	if errResp != nil {
		return errResp
	}

	writeIntent := sftp.WriteIntent(req.Flags)

	// An existing directory may only be opened read-oriented.
	if fi, err := os.Stat(res.AbsolutePath); err == nil && fi.IsDir() {
		if writeIntent {
			logger.Warn("OPEN denied: write intent on directory: reqid=%d path=%q user=%s",
				req.ID, req.Path, h.user().Name)
			return denied(req.ID)
		}
		if !h.gate.Allow(h.user(), access.ActionRead) {
			return denied(req.ID)
		}

		f, err := os.Open(res.AbsolutePath)
		if err != nil {
			return fsError(req.ID, "OPEN", err)
		}
		return h.bindFile(req, f, res.AbsolutePath)
	}

	if writeIntent {
		if !h.gate.Allow(h.user(), access.ActionWrite) {
			return denied(req.ID)
		}
		if resp := h.verifyReal(req.ID, res.AbsolutePath); resp != nil {
			return resp
		}
		if err := os.MkdirAll(filepath.Dir(res.AbsolutePath), 0755); err != nil {
			return fsError(req.ID, "OPEN", err)
		}

		f, err := os.OpenFile(res.AbsolutePath, osOpenFlags(req.Flags), 0644)
		if err != nil {
			return fsError(req.ID, "OPEN", err)
		}
		return h.bindFile(req, f, res.AbsolutePath)
	}

	if !h.gate.Allow(h.user(), access.ActionRead) {
		return denied(req.ID)
	}

	f, err := os.Open(res.AbsolutePath)
	if err != nil {
		return fsError(req.ID, "OPEN", err)
	}
	return h.bindFile(req, f, res.AbsolutePath)
}

func (h *Handler) bindFile(req *sftp.OpenRequest, f *os.File, abs string) sftp.Response {
	handle := h.session.Handles.Open(&session.FileRecord{
		File:  f,
		Path:  abs,
		Flags: req.Flags,
	})

	logger.Debug("OPEN successful: reqid=%d handle=%x open_handles=%d",
		req.ID, []byte(handle), h.session.Handles.Len())

	return &sftp.HandleResponse{ID: req.ID, Handle: handle}
}

// osOpenFlags maps protocol flag bits onto os.OpenFile flags.
func osOpenFlags(flags uint32) int {
	var mode int
	switch {
	case flags&sftp.FlagRead != 0 && sftp.WriteIntent(flags):
		mode = os.O_RDWR
	case sftp.WriteIntent(flags):
		mode = os.O_WRONLY
	default:
		mode = os.O_RDONLY
	}

	if flags&sftp.FlagAppend != 0 {
		mode |= os.O_APPEND
	}
	if flags&sftp.FlagTruncate != 0 {
		mode |= os.O_TRUNC
	}
	if flags&sftp.FlagExcl != 0 {
		mode |= os.O_EXCL
	}
	// CREATE, or any write intent at all (see Open doc).
	if sftp.WriteIntent(flags) {
		mode |= os.O_CREATE
	}

	return mode
}
