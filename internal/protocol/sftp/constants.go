package sftp

// Status codes returned to the transport collaborator. The numeric values
// are fixed by the wire protocol and must not be reordered.
type Status uint32

const (
	StatusOK               Status = 0
	StatusEOF              Status = 1
	StatusNoSuchFile       Status = 2
	StatusPermissionDenied Status = 3
	StatusFailure          Status = 4
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusEOF:
		return "EOF"
	case StatusNoSuchFile:
		return "NO_SUCH_FILE"
	case StatusPermissionDenied:
		return "PERMISSION_DENIED"
	case StatusFailure:
		return "FAILURE"
	default:
		return "UNKNOWN"
	}
}

// Open-flag bits carried by OPEN requests. The bit assignments are fixed by
// the wire protocol.
const (
	FlagRead     uint32 = 0x00000001
	FlagWrite    uint32 = 0x00000002
	FlagAppend   uint32 = 0x00000004
	FlagCreate   uint32 = 0x00000008
	FlagTruncate uint32 = 0x00000010
	FlagExcl     uint32 = 0x00000020
)

// WriteIntent reports whether any of the flag bits imply an intent to
// modify the target (write, append, create, or truncate).
func WriteIntent(flags uint32) bool {
	return flags&(FlagWrite|FlagAppend|FlagCreate|FlagTruncate) != 0
}

// POSIX file type bits used in the Mode field of FileAttr.
const (
	ModeRegular uint32 = 0100000
	ModeDir     uint32 = 0040000
)
