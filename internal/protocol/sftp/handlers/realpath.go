package handlers

import (
	"context"
	"os"

	"github.com/marmos91/sandfs/internal/logger"
	"github.com/marmos91/sandfs/internal/protocol/sftp"
)

// Realpath canonicalizes a client path relative to the sandbox root.
//
// The root itself ("", ".", "/") always resolves to the "/" marker without
// touching the filesystem. Any other path must exist (NO_SUCH_FILE
// otherwise) and is returned relative to the root with a single leading
// separator — the server-side absolute path is never exposed.
func (h *Handler) Realpath(ctx context.Context, req *sftp.RealpathRequest) sftp.Response {
	logger.Debug("REALPATH: reqid=%d path=%q user=%s", req.ID, req.Path, h.user().Name)

	res, errResp := h.resolvePath(req.ID, req.Path)
	if errResp != nil {
		return errResp
	}

	if res.RelativePath == "/" {
		return &sftp.NameResponse{ID: req.ID, Entries: []sftp.DirEntry{{
			Filename: "/",
			Longname: "/",
		}}}
	}

	fi, err := os.Stat(res.AbsolutePath)
	if err != nil {
		return fsError(req.ID, "REALPATH", err)
	}

	return &sftp.NameResponse{ID: req.ID, Entries: []sftp.DirEntry{{
		Filename: res.RelativePath,
		Longname: res.RelativePath,
		Attrs:    sftp.AttrFromFileInfo(fi),
	}}}
}
