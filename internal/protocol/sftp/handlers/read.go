package handlers

import (
	"context"
	"errors"
	"io"

	"github.com/marmos91/sandfs/internal/logger"
	"github.com/marmos91/sandfs/internal/protocol/sftp"
	"github.com/marmos91/sandfs/pkg/session"
)

// maxReadLength caps a single READ to keep one request from forcing an
// arbitrarily large allocation. Reads past the cap are truncated; the client
// simply issues the next read at the advanced offset.
const maxReadLength = 1 << 20 // 1MB

// Read returns up to req.Length bytes at req.Offset from an open file
// handle. Reading a directory handle is PERMISSION_DENIED; an unknown handle
// is FAILURE; reading at or past end-of-file answers the EOF status.
func (h *Handler) Read(ctx context.Context, req *sftp.ReadRequest) sftp.Response {
	logger.Debug("READ: reqid=%d handle=%x offset=%d length=%d user=%s",
		req.ID, []byte(req.Handle), req.Offset, req.Length, h.user().Name)

	rec, err := h.session.Handles.Lookup(req.Handle)
	if err != nil {
		return failure(req.ID, "invalid handle")
	}

	file, fileOK := rec.(*session.FileRecord)
	if !fileOK {
		return denied(req.ID)
	}

	length := req.Length
	if length > maxReadLength {
		length = maxReadLength
	}

	buf := make([]byte, length)
	n, err := file.File.ReadAt(buf, int64(req.Offset))
	if n > 0 {
		// Partial reads at EOF still return the bytes; the client's next
		// read gets the EOF status.
		return &sftp.DataResponse{ID: req.ID, Data: buf[:n]}
	}
	if errors.Is(err, io.EOF) {
		return eof(req.ID)
	}
	if err != nil {
		return fsError(req.ID, "READ", err)
	}

	return &sftp.DataResponse{ID: req.ID, Data: buf[:0]}
}
