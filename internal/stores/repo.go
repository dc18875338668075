// Package stores persists plans as flat text files.
//
// Each plan lives in its own file inside the plan directory, named
// {DD_MM_YYYY}_{base}.txt, with one task per line. The temporary buffer
// used while no date is active is stored as temp_{base}.txt.
//
// Key components:
//   - PlanRepo: Interface for loading, saving, deleting and listing plans
//   - FilePlanRepo: PlanRepo backed by an fsops.FS
package stores

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danieljhkim/dateplan/internal/fsops"
	"github.com/danieljhkim/dateplan/internal/plan"
)

var (
	// ErrStorageRead indicates a plan file exists but could not be read.
	ErrStorageRead = errors.New("storage read failed")

	// ErrStorageWrite indicates a plan file could not be written or removed.
	ErrStorageWrite = errors.New("storage write failed")
)

// PlanRepo provides an interface for persisting plans.
type PlanRepo interface {
	// Load returns the tasks of the plan for d. A plan without a file is empty.
	Load(d plan.Date) ([]string, error)

	// Save replaces the plan file for d with tasks.
	Save(d plan.Date, tasks []string) error

	// Delete removes the plan file for d. Deleting a missing plan is not an error.
	Delete(d plan.Date) error

	// List returns the dates of all persisted plans in directory listing order.
	List() ([]plan.Date, error)

	// Path returns the file path of the plan for d.
	Path(d plan.Date) string
}

// FilePlanRepo implements PlanRepo using one text file per plan.
type FilePlanRepo struct {
	fs     fsops.FS
	dir    string
	base   string
	atomic bool
}

// NewFilePlanRepo creates a new FilePlanRepo. When atomic is set, plan
// files are replaced via temp file + rename instead of truncated in place.
func NewFilePlanRepo(fs fsops.FS, dir, base string, atomic bool) *FilePlanRepo {
	return &FilePlanRepo{
		fs:     fs,
		dir:    dir,
		base:   base,
		atomic: atomic,
	}
}

// Path returns the file path of the plan for d.
func (r *FilePlanRepo) Path(d plan.Date) string {
	return filepath.Join(r.dir, plan.FileName(d, r.base))
}

// Load returns the tasks of the plan for d.
func (r *FilePlanRepo) Load(d plan.Date) ([]string, error) {
	data, err := r.fs.ReadFile(r.Path(d))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrStorageRead, err)
	}
	return plan.Decode(data), nil
}

// Save replaces the plan file for d with tasks.
func (r *FilePlanRepo) Save(d plan.Date, tasks []string) error {
	path := r.Path(d)
	data := plan.Encode(tasks)

	write := r.fs.WriteFile
	if r.atomic {
		write = r.fs.AtomicWrite
	}
	if err := write(path, data, 0644); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageWrite, err)
	}
	return nil
}

// Delete removes the plan file for d.
func (r *FilePlanRepo) Delete(d plan.Date) error {
	if err := r.fs.Remove(r.Path(d)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %w", ErrStorageWrite, err)
	}
	return nil
}

// List returns the dates of all persisted plans. Files carrying the plan
// suffix whose prefix is not a valid date are skipped.
func (r *FilePlanRepo) List() ([]plan.Date, error) {
	names, err := r.fs.ListFiles(r.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageRead, err)
	}

	dates := []plan.Date{}
	for _, name := range names {
		if d, ok := plan.DateFromFileName(name, r.base); ok {
			dates = append(dates, d)
		}
	}
	return dates, nil
}
