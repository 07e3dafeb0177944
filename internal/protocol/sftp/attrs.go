package sftp

import (
	"fmt"
	"os"
)

// FileAttr is the attribute blob returned for STAT/LSTAT and embedded in
// directory entries. Times are Unix seconds.
type FileAttr struct {
	Mode  uint32
	UID   uint32
	GID   uint32
	Size  uint64
	Atime int64
	Mtime int64
}

// DirEntry is one row of a directory listing: the bare filename, an
// ls -l style presentation line, and the entry's attributes at snapshot time.
type DirEntry struct {
	Filename string
	Longname string
	Attrs    FileAttr
}

// AttrFromFileInfo converts os.FileInfo into the protocol attribute blob.
//
// Ownership is reported as the server process identity (0/0 placeholder);
// per-user ownership mapping is the identity store's concern, not the
// filesystem's. Access time is approximated by the modification time since
// many server filesystems mount noatime.
func AttrFromFileInfo(fi os.FileInfo) FileAttr {
	mode := uint32(fi.Mode().Perm())
	if fi.IsDir() {
		mode |= ModeDir
	} else if fi.Mode().IsRegular() {
		mode |= ModeRegular
	}

	var size uint64
	if fi.Size() > 0 {
		size = uint64(fi.Size())
	}

	mtime := fi.ModTime().Unix()

	return FileAttr{
		Mode:  mode,
		UID:   0,
		GID:   0,
		Size:  size,
		Atime: mtime,
		Mtime: mtime,
	}
}

// EntryFromFileInfo builds a directory entry with a formatted longname.
func EntryFromFileInfo(fi os.FileInfo) DirEntry {
	attrs := AttrFromFileInfo(fi)
	return DirEntry{
		Filename: fi.Name(),
		Longname: formatLongname(fi),
		Attrs:    attrs,
	}
}

// formatLongname renders an ls -l style line for a directory entry.
// The exact column layout is presentational; clients treat it as opaque text.
func formatLongname(fi os.FileInfo) string {
	return fmt.Sprintf("%s %8d %s %s",
		fi.Mode().String(),
		fi.Size(),
		fi.ModTime().Format("Jan _2 15:04"),
		fi.Name(),
	)
}
