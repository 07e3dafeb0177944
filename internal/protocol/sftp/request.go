package sftp

// Handle is an opaque token referencing an open file or directory-listing
// cursor within one session. Tokens are allocated by the session's handle
// table and are meaningless outside that session.
type Handle string

// Request is the sum type of all decoded protocol operations.
//
// The transport collaborator parses raw bytes into exactly one of the
// concrete request structs below and hands it to the dispatcher. Using a
// closed set of typed variants (instead of one callback per operation name)
// keeps dispatch exhaustive and testable: a switch over Request covers every
// operation the protocol defines.
type Request interface {
	// RequestID returns the client-assigned identifier echoed back in the
	// response. Requests may be pipelined, so identifiers are the only
	// correlation between a request and its response.
	RequestID() uint32

	// Method returns the protocol operation name, for logging.
	Method() string
}

// OpenRequest opens a file (or a directory, with read-oriented flags) at a
// sandbox-relative path.
type OpenRequest struct {
	ID    uint32
	Path  string
	Flags uint32
}

func (r *OpenRequest) RequestID() uint32 { return r.ID }
func (r *OpenRequest) Method() string    { return "OPEN" }

// CloseRequest releases a handle previously returned by OPEN or OPENDIR.
type CloseRequest struct {
	ID     uint32
	Handle Handle
}

func (r *CloseRequest) RequestID() uint32 { return r.ID }
func (r *CloseRequest) Method() string    { return "CLOSE" }

// ReadRequest reads up to Length bytes at Offset from an open file handle.
type ReadRequest struct {
	ID     uint32
	Handle Handle
	Offset uint64
	Length uint32
}

func (r *ReadRequest) RequestID() uint32 { return r.ID }
func (r *ReadRequest) Method() string    { return "READ" }

// WriteRequest writes Data at Offset through an open file handle.
type WriteRequest struct {
	ID     uint32
	Handle Handle
	Offset uint64
	Data   []byte
}

func (r *WriteRequest) RequestID() uint32 { return r.ID }
func (r *WriteRequest) Method() string    { return "WRITE" }

// StatRequest retrieves attributes for a path, following symlinks.
type StatRequest struct {
	ID   uint32
	Path string
}

func (r *StatRequest) RequestID() uint32 { return r.ID }
func (r *StatRequest) Method() string    { return "STAT" }

// LstatRequest retrieves attributes for a path without following symlinks.
type LstatRequest struct {
	ID   uint32
	Path string
}

func (r *LstatRequest) RequestID() uint32 { return r.ID }
func (r *LstatRequest) Method() string    { return "LSTAT" }

// OpendirRequest opens a directory-listing cursor for a path.
type OpendirRequest struct {
	ID   uint32
	Path string
}

func (r *OpendirRequest) RequestID() uint32 { return r.ID }
func (r *OpendirRequest) Method() string    { return "OPENDIR" }

// ReaddirRequest returns the next batch of entries from a directory handle.
type ReaddirRequest struct {
	ID     uint32
	Handle Handle
}

func (r *ReaddirRequest) RequestID() uint32 { return r.ID }
func (r *ReaddirRequest) Method() string    { return "READDIR" }

// RealpathRequest canonicalizes a path relative to the sandbox root.
type RealpathRequest struct {
	ID   uint32
	Path string
}

func (r *RealpathRequest) RequestID() uint32 { return r.ID }
func (r *RealpathRequest) Method() string    { return "REALPATH" }

// RemoveRequest deletes a file.
type RemoveRequest struct {
	ID   uint32
	Path string
}

func (r *RemoveRequest) RequestID() uint32 { return r.ID }
func (r *RemoveRequest) Method() string    { return "REMOVE" }

// RmdirRequest removes an empty directory.
type RmdirRequest struct {
	ID   uint32
	Path string
}

func (r *RmdirRequest) RequestID() uint32 { return r.ID }
func (r *RmdirRequest) Method() string    { return "RMDIR" }

// MkdirRequest creates a directory, including missing intermediates.
type MkdirRequest struct {
	ID   uint32
	Path string
}

func (r *MkdirRequest) RequestID() uint32 { return r.ID }
func (r *MkdirRequest) Method() string    { return "MKDIR" }

// RenameRequest moves a file or directory to a new path.
type RenameRequest struct {
	ID      uint32
	OldPath string
	NewPath string
}

func (r *RenameRequest) RequestID() uint32 { return r.ID }
func (r *RenameRequest) Method() string    { return "RENAME" }
