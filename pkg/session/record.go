package session

import (
	"errors"
	"io/fs"
	"os"
	"sync"

	"github.com/marmos91/sandfs/internal/protocol/sftp"
)

// ErrEndOfListing is returned by DirRecord.NextBatch when the snapshot
// cursor has passed the last entry. The caller answers EOF for that request;
// the record itself re-enters the unread state (see NextBatch).
var ErrEndOfListing = errors.New("end of directory listing")

// Record is one open resource owned by a handle table: either an open file
// descriptor or a directory-listing cursor.
type Record interface {
	// Close releases the underlying resource. Closing a directory record is
	// a no-op since no descriptor is held between listing batches.
	Close() error

	isRecord()
}

// FileRecord owns an open file descriptor.
type FileRecord struct {
	// File is the open descriptor. os.File read/write-at calls are safe for
	// concurrent use, so pipelined requests against the same handle need no
	// extra locking here.
	File *os.File

	// Path is the resolved absolute path, kept for logging.
	Path string

	// Flags are the protocol open-flag bits the handle was opened with.
	Flags uint32
}

func (r *FileRecord) Close() error {
	return r.File.Close()
}

func (r *FileRecord) isRecord() {}

// DirRecord is a directory-listing cursor.
//
// Listing state machine: Unread -> Snapshotted -> Exhausted. The first batch
// request takes one atomic snapshot of the directory's entries and caches an
// immutable ordered list with a zero cursor. Subsequent requests return
// bounded batches and advance the cursor. The request that finds the cursor
// at the end gets ErrEndOfListing and the snapshot is discarded: a later
// request against the same handle re-enters Unread and snapshots again.
// That re-snapshot mirrors the reference server's behavior and is kept for
// compatibility even though a strict one-shot cursor would error instead.
type DirRecord struct {
	// Path is the resolved absolute directory path.
	Path string

	mu       sync.Mutex
	snapshot []sftp.DirEntry // nil while unread
	cursor   int
}

func (r *DirRecord) Close() error {
	return nil
}

func (r *DirRecord) isRecord() {}

// NextBatch returns up to batchSize entries from the snapshot, taking the
// snapshot first if the record is unread. Entries that vanish between the
// directory scan and the per-entry stat are skipped rather than failing the
// whole listing.
func (r *DirRecord) NextBatch(batchSize int) ([]sftp.DirEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.snapshot == nil {
		entries, err := os.ReadDir(r.Path)
		if err != nil {
			return nil, err
		}

		snapshot := make([]sftp.DirEntry, 0, len(entries))
		for _, entry := range entries {
			info, err := entry.Info()
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					continue
				}
				return nil, err
			}
			snapshot = append(snapshot, sftp.EntryFromFileInfo(info))
		}
		r.snapshot = snapshot
		r.cursor = 0
	}

	if r.cursor >= len(r.snapshot) {
		// Exhausted: discard the snapshot so the next request re-reads.
		r.snapshot = nil
		r.cursor = 0
		return nil, ErrEndOfListing
	}

	end := r.cursor + batchSize
	if end > len(r.snapshot) {
		end = len(r.snapshot)
	}
	batch := r.snapshot[r.cursor:end]
	r.cursor = end

	return batch, nil
}
