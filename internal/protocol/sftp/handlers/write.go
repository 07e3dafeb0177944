package handlers

import (
	"context"

	"github.com/marmos91/sandfs/internal/logger"
	"github.com/marmos91/sandfs/internal/protocol/sftp"
	"github.com/marmos91/sandfs/pkg/session"
)

// Write stores req.Data at req.Offset through an open file handle.
//
// Ordering is quota-check, filesystem write, usage commit:
//
//  1. The gate evaluates persisted usage + the exact incoming payload length
//     against the user's maximum before any byte touches disk. Quota denial
//     is FAILURE (not PERMISSION_DENIED), matching the reference behavior.
//  2. The data is written at the requested offset (or appended, for handles
//     opened with APPEND, whose descriptors reject positioned writes).
//  3. The payload length is charged against the user's persisted counter.
//
// The accounting is advisory: a crash between steps 2 and 3 leaves the
// counter low, and rewriting existing bytes counts them twice. Both drifts
// are documented properties of the incremental scheme. A failed usage commit
// after a successful write is logged and the write still answers OK; the
// bytes are on disk and claiming failure would desynchronize the client.
func (h *Handler) Write(ctx context.Context, req *sftp.WriteRequest) sftp.Response {
	logger.Debug("WRITE: reqid=%d handle=%x offset=%d bytes=%d user=%s",
		req.ID, []byte(req.Handle), req.Offset, len(req.Data), h.user().Name)

	rec, err := h.session.Handles.Lookup(req.Handle)
	if err != nil {
		return failure(req.ID, "invalid handle")
	}

	file, fileOK := rec.(*session.FileRecord)
	if !fileOK {
		return denied(req.ID)
	}

	allowed, err := h.gate.AllowWrite(ctx, h.user(), uint64(len(req.Data)))
	if err != nil {
		logger.Error("WRITE quota check failed: reqid=%d user=%s error=%v",
			req.ID, h.user().Name, err)
		return failure(req.ID, "quota check failed")
	}
	if !allowed {
		logger.Warn("WRITE rejected: quota exceeded: reqid=%d user=%s bytes=%d max=%d",
			req.ID, h.user().Name, len(req.Data), h.user().Quota.MaxBytes)
		return failure(req.ID, "quota exceeded")
	}

	if file.Flags&sftp.FlagAppend != 0 {
		_, err = file.File.Write(req.Data)
	} else {
		_, err = file.File.WriteAt(req.Data, int64(req.Offset))
	}
	if err != nil {
		return fsError(req.ID, "WRITE", err)
	}

	total, err := h.gate.RecordWrite(ctx, h.user(), uint64(len(req.Data)))
	if err != nil {
		logger.Error("WRITE usage commit failed (bytes written, counter stale): reqid=%d user=%s error=%v",
			req.ID, h.user().Name, err)
		return ok(req.ID)
	}

	logger.Debug("WRITE successful: reqid=%d bytes=%d used=%d", req.ID, len(req.Data), total)
	return ok(req.ID)
}
