// Package sandbox confines client-supplied paths to a user's root directory.
//
// Resolution is purely syntactic: the resolver normalizes the client path and
// proves, before any filesystem call, that the joined result cannot leave the
// root. Because the underlying filesystem may still contain symlinks planted
// by earlier writes, VerifyReal additionally checks the resolved real path
// before destructive operations; callers must treat that second check as
// mandatory hardening, not an optional extra.
package sandbox

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
)

// Result is the outcome of resolving one client path. It is recomputed per
// request and never mutated.
//
// When Valid is false, Reason describes the violation for server-side
// logging only. Client-facing responses must report PERMISSION_DENIED
// without echoing Reason or any resolved absolute path.
type Result struct {
	Valid        bool
	AbsolutePath string
	RelativePath string
	Reason       string
}

// windowsReserved are characters that cannot appear in filenames on Windows
// volumes. They are rejected only when the server runs on Windows; on POSIX
// hosts they are legal filename bytes.
const windowsReserved = `\:*?"<>|`

// Resolve converts a client-supplied POSIX-style path into an absolute path
// confined to root.
//
// The client path may be empty, relative, or rooted with a single leading
// separator; all three address the same tree. "." and "/" resolve to the
// sandbox root itself. Any normalized form that begins with a
// parent-directory traversal, or any path containing control characters or
// NUL bytes, is invalid.
func Resolve(root, clientPath string) Result {
	if reason := checkCharacters(clientPath); reason != "" {
		return Result{Valid: false, Reason: reason}
	}

	// A single leading separator means "relative to the sandbox root".
	trimmed := strings.TrimPrefix(clientPath, "/")

	// Client paths are POSIX-style regardless of host platform.
	rel := path.Clean(trimmed)
	if rel == "" || rel == "." || rel == "/" {
		return Result{
			Valid:        true,
			AbsolutePath: root,
			RelativePath: "/",
		}
	}

	if rel == ".." || strings.HasPrefix(rel, "../") {
		return Result{Valid: false, Reason: fmt.Sprintf("parent traversal in %q", clientPath)}
	}

	abs := filepath.Join(root, filepath.FromSlash(rel))

	// Joining a cleaned relative path cannot escape, but prove it anyway:
	// the absolute result must be the root or strictly below it.
	if abs != root && !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return Result{Valid: false, Reason: fmt.Sprintf("resolved outside root: %q", clientPath)}
	}

	return Result{
		Valid:        true,
		AbsolutePath: abs,
		RelativePath: "/" + rel,
	}
}

// checkCharacters rejects bytes that are never legal in a client path:
// NUL, ASCII control characters, and DEL. On Windows hosts the
// filesystem-reserved set is rejected as well.
func checkCharacters(clientPath string) string {
	for _, r := range clientPath {
		if r == 0 {
			return "null byte in path"
		}
		if r < 0x20 || r == 0x7f {
			return fmt.Sprintf("control character %#x in path", r)
		}
		if runtime.GOOS == "windows" && strings.ContainsRune(windowsReserved, r) {
			return fmt.Sprintf("reserved character %q in path", r)
		}
	}
	return ""
}

// VerifyReal checks that the real (symlink-resolved) location of abs is still
// confined to root. It must be called before any destructive operation, since
// syntactic resolution cannot see symlinks already present on disk.
//
// For targets that do not exist yet (creates, rename destinations) the check
// walks up to the deepest existing ancestor and verifies that instead.
func VerifyReal(root, abs string) error {
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return fmt.Errorf("failed to resolve sandbox root %q: %w", root, err)
	}

	probe := abs
	for {
		resolved, err := filepath.EvalSymlinks(probe)
		if err == nil {
			if resolved != realRoot && !strings.HasPrefix(resolved, realRoot+string(filepath.Separator)) {
				return fmt.Errorf("real path of %q escapes sandbox", abs)
			}
			return nil
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to resolve %q: %w", probe, err)
		}

		parent := filepath.Dir(probe)
		if parent == probe {
			// Walked to the filesystem root without finding an existing
			// ancestor; the sandbox root itself is missing.
			return fmt.Errorf("no existing ancestor for %q", abs)
		}
		probe = parent
	}
}
