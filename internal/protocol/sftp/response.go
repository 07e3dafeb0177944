package sftp

// Response is the sum type of everything the dispatcher can hand back to the
// transport collaborator. Every request yields exactly one response carrying
// the originating request identifier.
type Response interface {
	ResponseID() uint32
}

// StatusResponse reports the outcome of an operation that returns no data.
// It is also the error form for every other operation.
//
// Message is advisory, human-readable text. It must never contain resolved
// absolute server paths; sandbox violations are reported with a generic
// message and the detail stays in the server log.
type StatusResponse struct {
	ID      uint32
	Code    Status
	Message string
}

func (r *StatusResponse) ResponseID() uint32 { return r.ID }

// HandleResponse returns a freshly allocated handle token for OPEN/OPENDIR.
type HandleResponse struct {
	ID     uint32
	Handle Handle
}

func (r *HandleResponse) ResponseID() uint32 { return r.ID }

// DataResponse carries bytes read from a file handle.
type DataResponse struct {
	ID   uint32
	Data []byte
}

func (r *DataResponse) ResponseID() uint32 { return r.ID }

// AttrsResponse carries file attributes for STAT/LSTAT.
type AttrsResponse struct {
	ID    uint32
	Attrs FileAttr
}

func (r *AttrsResponse) ResponseID() uint32 { return r.ID }

// NameResponse carries a batch of directory entries for READDIR, or the
// single canonicalized name for REALPATH.
type NameResponse struct {
	ID      uint32
	Entries []DirEntry
}

func (r *NameResponse) ResponseID() uint32 { return r.ID }
