package handlers

import (
	"context"
	"errors"

	"github.com/marmos91/sandfs/internal/logger"
	"github.com/marmos91/sandfs/internal/protocol/sftp"
	"github.com/marmos91/sandfs/pkg/session"
)

// Readdir returns the next bounded batch of entries from a directory handle.
//
// The first request against a fresh handle snapshots the directory's entries
// at that instant; later requests page through the immutable snapshot. The
// request that finds the cursor exhausted is answered with the EOF status and
// the snapshot is discarded — a further READDIR on the same handle snapshots
// again rather than erroring. Compatibility behavior, preserved on purpose.
//
// Readdir against a file handle is FAILURE, matching unknown-handle handling:
// the token simply does not reference a listing cursor.
func (h *Handler) Readdir(ctx context.Context, req *sftp.ReaddirRequest) sftp.Response {
	logger.Debug("READDIR: reqid=%d handle=%x user=%s",
		req.ID, []byte(req.Handle), h.user().Name)

	rec, err := h.session.Handles.Lookup(req.Handle)
	if err != nil {
		return failure(req.ID, "invalid handle")
	}

	dir, dirOK := rec.(*session.DirRecord)
	if !dirOK {
		return failure(req.ID, "not a directory handle")
	}

	batch, err := dir.NextBatch(h.batchSize)
	if errors.Is(err, session.ErrEndOfListing) {
		return eof(req.ID)
	}
	if err != nil {
		return fsError(req.ID, "READDIR", err)
	}

	logger.Debug("READDIR batch: reqid=%d entries=%d", req.ID, len(batch))
	return &sftp.NameResponse{ID: req.ID, Entries: batch}
}
