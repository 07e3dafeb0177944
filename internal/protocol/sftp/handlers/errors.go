package handlers

import (
	"errors"
	"io/fs"

	"github.com/marmos91/sandfs/internal/logger"
	"github.com/marmos91/sandfs/internal/protocol/sftp"
)

// mapFSError converts an unexpected filesystem error into a protocol status.
//
// Taxonomy: a missing target is NO_SUCH_FILE; everything else (disk full,
// OS-level permission bits, I/O faults, type mismatches surfaced by the
// kernel) collapses to FAILURE. Capability and sandbox denials never reach
// this function; they are answered PERMISSION_DENIED at the gate.
func mapFSError(err error) sftp.Status {
	if errors.Is(err, fs.ErrNotExist) {
		return sftp.StatusNoSuchFile
	}
	return sftp.StatusFailure
}

// fsError logs the full error server-side and builds the client response
// with only the generic code and operation name, never the underlying
// detail or any resolved absolute path.
func fsError(reqID uint32, op string, err error) *sftp.StatusResponse {
	code := mapFSError(err)
	logger.Error("%s failed: reqid=%d status=%s error=%v", op, reqID, code, err)

	if code == sftp.StatusNoSuchFile {
		return noSuchFile(reqID)
	}
	return failure(reqID, op+" failed")
}
