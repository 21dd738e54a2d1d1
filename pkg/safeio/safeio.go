// Package safeio holds the file-writing discipline for manifest
// patching: verbatim backups, atomic replacement, and permission
// preservation. Nothing here knows about manifest structure.
package safeio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CleanUserPath cleans a user-provided path and rejects traversal
// attempts. Returns forward slashes for cross-platform consistency.
func CleanUserPath(p string) (string, error) {
	c := filepath.Clean(p)
	if strings.Contains(c, "..") {
		return "", errors.New("path traversal detected")
	}
	return filepath.ToSlash(c), nil
}

// fileMode returns the mode of path, or a sane default when it does
// not exist yet.
func fileMode(path string) os.FileMode {
	if st, err := os.Stat(path); err == nil {
		if mode := st.Mode() & 0o777; mode != 0 {
			return mode
		}
	}
	return 0o644
}

// WriteFileAtomic writes data to a temp file in the target directory
// and renames it over path, so readers never observe a partial write.
// The existing file mode is preserved.
func WriteFileAtomic(path string, data []byte) error {
	mode := fileMode(path)

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(tmpName)
		if werr != nil {
			return fmt.Errorf("writing temp file: %w", werr)
		}
		return fmt.Errorf("closing temp file: %w", cerr)
	}

	if err := os.Chmod(tmpName, mode); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("setting mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// CopyFile copies src to dst verbatim, preserving src's mode. Used for
// the pre-mutation backup and for restoring it.
func CopyFile(src, dst string) error {
	data, err := os.ReadFile(src) // #nosec G304 -- caller supplies both endpoints
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}
	st, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}
	if err := os.WriteFile(dst, data, st.Mode()&0o777); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return nil
}
