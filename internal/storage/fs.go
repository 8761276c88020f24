package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/paperfront/internal/apperr"
)

const (
	markdownExt = ".md"
	tempPattern = ".paperfront-tmp-*"
	filePerm    = 0o644
)

// FS implements Provider backed by a single local directory.
type FS struct {
	root string // absolute path to content directory
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: %s: %w", abs, apperr.ErrNotDirectory)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute content directory path.
func (f *FS) Root() string { return f.root }

// safePath resolves name against the root and rejects anything that is not a
// plain file name inside it.
func (f *FS) safePath(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("storage: invalid file name: %q", name)
	}
	abs := filepath.Join(f.root, name)
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: path escapes content root: %s", name)
	}
	return abs, nil
}

// List reads the content directory (non-recursively) and returns the name of
// every .md entry that is not a directory, in directory order. File contents
// are not read.
func (f *FS) List() ([]string, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), markdownExt) {
			continue
		}
		out = append(out, e.Name())
	}
	return out, nil
}

// Read returns the raw bytes of a content file.
func (f *FS) Read(name string) ([]byte, error) {
	abs, err := f.safePath(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", name, err)
	}
	return data, nil
}

// Write atomically writes content: tmp file → fsync → rename. An existing
// target keeps its permissions and must be writable by the caller.
func (f *FS) Write(name string, content []byte) error {
	abs, err := f.safePath(name)
	if err != nil {
		return err
	}
	perm, err := targetPerm(abs)
	if err != nil {
		return fmt.Errorf("storage: write %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(f.root, tempPattern)
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("storage: chmod temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("storage: rename %s: %w", name, err)
	}
	success = true
	return nil
}

// targetPerm returns the mode for the replacement of abs: the existing file's
// permissions, or filePerm for a new file. A target that cannot be opened for
// writing is an error, as it would be for an in-place write.
func targetPerm(abs string) (os.FileMode, error) {
	info, err := os.Stat(abs)
	if errors.Is(err, os.ErrNotExist) {
		return filePerm, nil
	}
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%s is a directory", abs)
	}
	fh, err := os.OpenFile(abs, os.O_WRONLY, 0)
	if err != nil {
		return 0, err
	}
	_ = fh.Close()
	return info.Mode().Perm(), nil
}

// Checksum returns the hex-encoded SHA-256 digest of data.
func Checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
