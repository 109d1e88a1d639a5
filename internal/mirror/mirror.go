// Package mirror provides the content-level copy and compare primitives the
// sync engine is built on: single-file and directory-tree copies, tilde-path
// expansion, and byte-exact comparison. Nothing in this package deletes
// files; the only writes happen inside SyncFile.
package mirror

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// SyncFile copies src to dst, creating any missing parent directories of
// dst. When src is a directory the whole tree is mirrored recursively. The
// same primitive serves both sync directions (import and export).
func SyncFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", dst, err)
	}

	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}

	if info.IsDir() {
		return syncDirectory(src, dst)
	}
	return copyFile(src, dst)
}

// syncDirectory mirrors the tree rooted at src into dst.
func syncDirectory(src, dst string) error {
	if err := os.MkdirAll(dst, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dst, err)
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed while walking %s: %w", src, err)
		}
		if path == src {
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}

		// Skip irregular files such as sockets, pipes, devices, etc.
		if !d.Type().IsRegular() {
			return nil
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}
	// #nosec G306 -- Mirrored dotfiles must stay editable by the user.
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}

// ExpandTilde resolves a tracked path against the given home directory.
// Absolute paths pass through unchanged, "~/"-prefixed paths resolve under
// home, and bare relative paths are treated as home-relative (tolerant
// legacy behavior for stub database entries written without a prefix).
func ExpandTilde(path, home string) string {
	switch {
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(home, path[2:])
	case filepath.IsAbs(path):
		return path
	default:
		return filepath.Join(home, path)
	}
}

// StripTilde maps an absolute path under home back to its "~/" form for
// display. Returns ok=false when the path is outside home.
func StripTilde(path, home string) (string, bool) {
	rel, err := filepath.Rel(home, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return "~/" + filepath.ToSlash(rel), true
}

// RepoRelative converts a tracked home path ("~/x" or "/x") into its
// location relative to the repository root. The mapping is invertible: the
// relative path joined back under "~/" recovers the home-side name.
func RepoRelative(homePath string) string {
	p := strings.TrimPrefix(homePath, "~/")
	return strings.TrimPrefix(p, "/")
}

// ContentEqual reports whether a and b have byte-identical content. Two
// directories compare equal by existence alone; their contents are not
// diffed recursively (a known simplification). A directory never equals a
// regular file.
func ContentEqual(a, b string) (bool, error) {
	infoA, err := os.Stat(a)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", a, err)
	}
	infoB, err := os.Stat(b)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", b, err)
	}

	if infoA.IsDir() != infoB.IsDir() {
		return false, nil
	}
	if infoA.IsDir() {
		return true, nil
	}

	dataA, err := os.ReadFile(a)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", a, err)
	}
	dataB, err := os.ReadFile(b)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", b, err)
	}
	return bytes.Equal(dataA, dataB), nil
}

// Exists reports whether path exists on the filesystem.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
