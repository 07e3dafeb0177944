package handlers

import (
	"context"

	"github.com/marmos91/sandfs/internal/logger"
	"github.com/marmos91/sandfs/internal/protocol/sftp"
)

// Dispatch routes one decoded request to its operation handler and always
// returns exactly one response for the request's identifier.
//
// The switch is the single entry point for every operation the protocol
// defines; adding a request variant without a case here is caught by the
// default arm at runtime and by the dispatcher tests.
func (h *Handler) Dispatch(ctx context.Context, req sftp.Request) sftp.Response {
	if err := ctx.Err(); err != nil {
		logger.Warn("Session %d: %s cancelled before dispatch: reqid=%d error=%v",
			h.session.ID, req.Method(), req.RequestID(), err)
		return failure(req.RequestID(), "request cancelled")
	}

	switch r := req.(type) {
	case *sftp.OpenRequest:
		return h.Open(ctx, r)
	case *sftp.CloseRequest:
		return h.Close(ctx, r)
	case *sftp.ReadRequest:
		return h.Read(ctx, r)
	case *sftp.WriteRequest:
		return h.Write(ctx, r)
	case *sftp.StatRequest:
		return h.Stat(ctx, r)
	case *sftp.LstatRequest:
		return h.Lstat(ctx, r)
	case *sftp.OpendirRequest:
		return h.Opendir(ctx, r)
	case *sftp.ReaddirRequest:
		return h.Readdir(ctx, r)
	case *sftp.RealpathRequest:
		return h.Realpath(ctx, r)
	case *sftp.RemoveRequest:
		return h.Remove(ctx, r)
	case *sftp.RmdirRequest:
		return h.Rmdir(ctx, r)
	case *sftp.MkdirRequest:
		return h.Mkdir(ctx, r)
	case *sftp.RenameRequest:
		return h.Rename(ctx, r)
	default:
		logger.Warn("Session %d: unsupported request type %T: reqid=%d",
			h.session.ID, req, req.RequestID())
		return failure(req.RequestID(), "unsupported operation")
	}
}
