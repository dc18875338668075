// Package fsops provides the filesystem operations used to persist plans.
//
// All plan file access in dateplan goes through the FS interface so the
// store can be exercised against MemFS in tests without touching disk.
//
// Key features:
//   - Atomic writes using temp file + rename
//   - Plain truncating writes for the non-atomic mode
//   - Directory listing of regular files
//   - Identifier validation for configured names
package fsops

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FS provides an abstraction for filesystem operations.
type FS interface {
	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// WriteFile truncates and writes path in place.
	WriteFile(path string, data []byte, perm os.FileMode) error

	// AtomicWrite writes data to path atomically using temp file + rename.
	AtomicWrite(path string, data []byte, perm os.FileMode) error

	// Remove removes a file.
	Remove(path string) error

	// Exists checks if a path exists.
	Exists(path string) (bool, error)

	// ListFiles returns the names of the regular files directly inside dir.
	// A missing directory yields an empty list.
	ListFiles(dir string) ([]string, error)
}

// RealFS implements FS using actual OS operations.
type RealFS struct{}

// NewRealFS creates a new RealFS.
func NewRealFS() *RealFS {
	return &RealFS{}
}

// ReadFile reads the entire contents of a file.
func (fs *RealFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile truncates and writes path in place.
func (fs *RealFS) WriteFile(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}
	return os.WriteFile(path, data, perm)
}

// AtomicWrite writes data to path atomically using temp file + rename.
func (fs *RealFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	// Dot prefix keeps the temp file out of plan listings.
	tmpFile, err := os.CreateTemp(dir, ".dateplan-tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	tmpFile = nil
	return nil
}

// Remove removes a file.
func (fs *RealFS) Remove(path string) error {
	return os.Remove(path)
}

// Exists checks if a path exists.
func (fs *RealFS) Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// ListFiles returns the names of the regular files directly inside dir,
// in the order the directory listing reports them.
func (fs *RealFS) ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// ValidateIdentifier validates a name that becomes part of a filename.
// Returns an error if the name is empty, contains path separators, or
// attempts traversal.
func ValidateIdentifier(id string) error {
	if id == "" {
		return fmt.Errorf("invalid identifier: empty")
	}

	if strings.ContainsAny(id, `/\`) || strings.ContainsRune(id, filepath.Separator) {
		return fmt.Errorf("invalid identifier: must not contain path separators")
	}

	if id == "." || id == ".." || strings.HasPrefix(id, "..") {
		return fmt.Errorf("invalid identifier: path traversal not allowed")
	}

	return nil
}

// MemFS is an in-memory FS. Paths are cleaned and kept flat; ListFiles
// returns the files whose parent is dir, sorted by name.
type MemFS struct {
	files map[string][]byte

	// Fail maps a path to the error returned by any operation on it.
	Fail map[string]error
}

// NewMemFS creates an empty MemFS.
func NewMemFS() *MemFS {
	return &MemFS{files: map[string][]byte{}, Fail: map[string]error{}}
}

func (m *MemFS) failure(path string) error {
	return m.Fail[filepath.Clean(path)]
}

// ReadFile returns a copy of the stored contents.
func (m *MemFS) ReadFile(path string) ([]byte, error) {
	if err := m.failure(path); err != nil {
		return nil, err
	}
	data, ok := m.files[filepath.Clean(path)]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

// WriteFile stores a copy of data at path.
func (m *MemFS) WriteFile(path string, data []byte, _ os.FileMode) error {
	if err := m.failure(path); err != nil {
		return err
	}
	m.files[filepath.Clean(path)] = append([]byte(nil), data...)
	return nil
}

// AtomicWrite behaves like WriteFile.
func (m *MemFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	return m.WriteFile(path, data, perm)
}

// Remove deletes path.
func (m *MemFS) Remove(path string) error {
	if err := m.failure(path); err != nil {
		return err
	}
	clean := filepath.Clean(path)
	if _, ok := m.files[clean]; !ok {
		return &os.PathError{Op: "remove", Path: path, Err: os.ErrNotExist}
	}
	delete(m.files, clean)
	return nil
}

// Exists reports whether path is stored.
func (m *MemFS) Exists(path string) (bool, error) {
	if err := m.failure(path); err != nil {
		return false, err
	}
	_, ok := m.files[filepath.Clean(path)]
	return ok, nil
}

// ListFiles returns the sorted names of files stored directly under dir.
func (m *MemFS) ListFiles(dir string) ([]string, error) {
	if err := m.failure(dir); err != nil {
		return nil, err
	}
	clean := filepath.Clean(dir)
	names := []string{}
	for path := range m.files {
		if filepath.Dir(path) == clean {
			names = append(names, filepath.Base(path))
		}
	}
	sort.Strings(names)
	return names, nil
}
