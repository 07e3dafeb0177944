package session

import (
	"encoding/binary"
	"errors"
	"sync"

	"github.com/marmos91/sandfs/internal/logger"
	"github.com/marmos91/sandfs/internal/protocol/sftp"
)

// ErrHandleNotFound is returned for tokens that were never bound, were
// already released, or belong to another session. Stale tokens must fail:
// a released token is removed from the table and the monotonic allocator
// never hands it out again within the session, so a late request can never
// silently operate on a different resource.
var ErrHandleNotFound = errors.New("handle not found")

// HandleTable maps opaque handle tokens to open records for one session.
//
// Tokens are a per-session monotonically increasing counter encoded as a
// fixed 4-byte big-endian value. The counter is never reset; after 2^32
// allocations it wraps, at which point the allocator skips any token still
// bound so a live record cannot be aliased (a session performing four
// billion opens is not a practical concern, but the behavior is defined
// rather than accidental).
//
// Thread safety: table mutations (allocate, bind, lookup, release) take the
// table mutex, since pipelined requests within one session may race on the
// same handle. Operations on the records themselves (file I/O, directory
// batches) synchronize independently, so requests against distinct handles
// do not serialize on the table beyond the map access.
type HandleTable struct {
	mu      sync.Mutex
	next    uint32
	records map[sftp.Handle]Record
}

// NewHandleTable creates an empty table.
func NewHandleTable() *HandleTable {
	return &HandleTable{records: make(map[sftp.Handle]Record)}
}

// Allocate reserves and returns the next handle token. The token is not yet
// bound; a lookup before Bind reports not-found.
func (t *HandleTable) Allocate() sftp.Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.allocateLocked()
}

func (t *HandleTable) allocateLocked() sftp.Handle {
	for {
		t.next++
		h := encodeToken(t.next)
		if _, bound := t.records[h]; !bound {
			return h
		}
		// Wrapped onto a still-open handle; keep scanning.
	}
}

// Bind associates a record with a previously allocated token.
func (t *HandleTable) Bind(h sftp.Handle, rec Record) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records[h] = rec
}

// Open allocates a token and binds the record in one step.
func (t *HandleTable) Open(rec Record) sftp.Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	h := t.allocateLocked()
	t.records[h] = rec
	return h
}

// Lookup returns the record bound to h, or ErrHandleNotFound.
func (t *HandleTable) Lookup(h sftp.Handle) (Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[h]
	if !ok {
		return nil, ErrHandleNotFound
	}
	return rec, nil
}

// Release removes the binding for h and closes its record.
func (t *HandleTable) Release(h sftp.Handle) error {
	t.mu.Lock()
	rec, ok := t.records[h]
	if ok {
		delete(t.records, h)
	}
	t.mu.Unlock()

	if !ok {
		return ErrHandleNotFound
	}
	return rec.Close()
}

// ReleaseAll closes every open record, best effort. Called on session
// teardown or stream error; close failures are logged and swallowed so
// teardown always completes.
func (t *HandleTable) ReleaseAll() {
	t.mu.Lock()
	records := t.records
	t.records = make(map[sftp.Handle]Record)
	t.mu.Unlock()

	for h, rec := range records {
		if err := rec.Close(); err != nil {
			logger.Warn("Failed to close record for handle %x during teardown: %v", []byte(h), err)
		}
	}
}

// Len returns the number of currently bound handles.
func (t *HandleTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}

// encodeToken renders the counter as the fixed-width wire token.
func encodeToken(n uint32) sftp.Handle {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], n)
	return sftp.Handle(buf[:])
}
