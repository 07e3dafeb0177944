package sandbox

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolve_ValidPaths(t *testing.T) {
	root := "/srv/sandbox/alice"

	tests := []struct {
		name       string
		clientPath string
		wantAbs    string
		wantRel    string
	}{
		{
			name:       "simple file",
			clientPath: "file.txt",
			wantAbs:    filepath.Join(root, "file.txt"),
			wantRel:    "/file.txt",
		},
		{
			name:       "leading separator",
			clientPath: "/docs/report.pdf",
			wantAbs:    filepath.Join(root, "docs", "report.pdf"),
			wantRel:    "/docs/report.pdf",
		},
		{
			name:       "empty path is root",
			clientPath: "",
			wantAbs:    root,
			wantRel:    "/",
		},
		{
			name:       "dot is root",
			clientPath: ".",
			wantAbs:    root,
			wantRel:    "/",
		},
		{
			name:       "slash is root",
			clientPath: "/",
			wantAbs:    root,
			wantRel:    "/",
		},
		{
			name:       "internal dotdot that stays inside",
			clientPath: "docs/../file.txt",
			wantAbs:    filepath.Join(root, "file.txt"),
			wantRel:    "/file.txt",
		},
		{
			name:       "redundant separators",
			clientPath: "docs//nested///file.txt",
			wantAbs:    filepath.Join(root, "docs", "nested", "file.txt"),
			wantRel:    "/docs/nested/file.txt",
		},
		{
			name:       "trailing separator",
			clientPath: "docs/",
			wantAbs:    filepath.Join(root, "docs"),
			wantRel:    "/docs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(root, tt.clientPath)
			if !res.Valid {
				t.Fatalf("Resolve(%q) invalid: %s", tt.clientPath, res.Reason)
			}
			if res.AbsolutePath != tt.wantAbs {
				t.Errorf("AbsolutePath = %q, want %q", res.AbsolutePath, tt.wantAbs)
			}
			if res.RelativePath != tt.wantRel {
				t.Errorf("RelativePath = %q, want %q", res.RelativePath, tt.wantRel)
			}
		})
	}
}

func TestResolve_InvalidPaths(t *testing.T) {
	root := "/srv/sandbox/alice"

	tests := []struct {
		name       string
		clientPath string
	}{
		{
			name:       "plain parent traversal",
			clientPath: "..",
		},
		{
			name:       "traversal to system file",
			clientPath: "../../etc/passwd",
		},
		{
			name:       "rooted traversal",
			clientPath: "/../escape",
		},
		{
			name:       "traversal after normalization",
			clientPath: "docs/../../escape",
		},
		{
			name:       "null byte",
			clientPath: "file\x00.txt",
		},
		{
			name:       "control character",
			clientPath: "file\x01name",
		},
		{
			name:       "newline",
			clientPath: "file\nname",
		},
		{
			name:       "delete character",
			clientPath: "file\x7fname",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(root, tt.clientPath)
			if res.Valid {
				t.Fatalf("Resolve(%q) = valid (abs %q), want invalid", tt.clientPath, res.AbsolutePath)
			}
			if res.Reason == "" {
				t.Error("invalid result should carry a reason for server-side logging")
			}
		})
	}
}

// TestResolve_AnyRoot verifies confinement holds regardless of the root the
// user was provisioned with.
func TestResolve_AnyRoot(t *testing.T) {
	roots := []string{
		"/srv/sandbox/alice",
		"/home/bob",
		"/data",
	}

	for _, root := range roots {
		res := Resolve(root, "../../../etc/shadow")
		if res.Valid {
			t.Errorf("root %q: traversal resolved to %q, want invalid", root, res.AbsolutePath)
		}
	}
}

func TestVerifyReal_InsideRoot(t *testing.T) {
	root := t.TempDir()

	target := filepath.Join(root, "docs", "file.txt")
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(target, []byte("content"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if err := VerifyReal(root, target); err != nil {
		t.Errorf("VerifyReal on in-root file failed: %v", err)
	}
}

func TestVerifyReal_MissingTarget(t *testing.T) {
	root := t.TempDir()

	// Create targets walk up to the deepest existing ancestor
	target := filepath.Join(root, "new", "deep", "file.txt")
	if err := VerifyReal(root, target); err != nil {
		t.Errorf("VerifyReal on missing in-root target failed: %v", err)
	}
}

func TestVerifyReal_SymlinkEscape(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "root")
	outside := filepath.Join(base, "outside")

	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatalf("failed to create root: %v", err)
	}
	if err := os.MkdirAll(outside, 0755); err != nil {
		t.Fatalf("failed to create outside dir: %v", err)
	}

	// A symlink inside the root pointing out of it
	link := filepath.Join(root, "escape")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	if err := VerifyReal(root, filepath.Join(link, "victim.txt")); err == nil {
		t.Error("VerifyReal should reject a path under an escaping symlink")
	}
}

func TestVerifyReal_SymlinkInsideRoot(t *testing.T) {
	root := t.TempDir()

	dir := filepath.Join(root, "real")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	link := filepath.Join(root, "alias")
	if err := os.Symlink(dir, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	if err := VerifyReal(root, filepath.Join(link, "file.txt")); err != nil {
		t.Errorf("VerifyReal rejected an in-root symlink: %v", err)
	}
}
