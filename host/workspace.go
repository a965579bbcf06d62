package host

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// ErrBadName is returned for component names which don't resolve to a direct child of the workspace.
var ErrBadName = errors.New("bad component name")

// Workspace is a scratch directory where scenarios clone and create components.
// It is shared by scenarios in a cooperative way, no locking.
type Workspace struct {
	dir string
}

// NewWorkspace makes a workspace rooted at dir, or at a fresh uuid-named temp directory if dir is empty.
// The directory is not created until Ensure or Reset is called.
func NewWorkspace(dir string) (*Workspace, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "openshift-uitest-"+uuid.NewString())
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %s: %w", dir, err)
	}
	return &Workspace{dir: abs}, nil
}

// Dir returns the workspace root.
func (w *Workspace) Dir() string { return w.dir }

// Ensure creates the workspace directory if missing.
func (w *Workspace) Ensure() error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create workspace %s: %w", w.dir, err)
	}
	return nil
}

// Reset removes everything in the workspace and leaves it empty.
func (w *Workspace) Reset() error {
	if err := os.RemoveAll(w.dir); err != nil {
		return fmt.Errorf("failed to clear workspace %s: %w", w.dir, err)
	}
	return w.Ensure()
}

// Clear removes the workspace directory. Missing directory is not an error.
func (w *Workspace) Clear() error {
	if err := os.RemoveAll(w.dir); err != nil {
		return fmt.Errorf("failed to remove workspace %s: %w", w.dir, err)
	}
	return nil
}

// Path returns location of the named entry inside the workspace.
func (w *Workspace) Path(name string) (string, error) {
	if name == "" || name == "." || !filepath.IsLocal(name) || filepath.Base(name) != name {
		return "", fmt.Errorf("%w: %q", ErrBadName, name)
	}
	return filepath.Join(w.dir, name), nil
}

// Remove deletes the named component directory recursively. Missing directory is not an error.
func (w *Workspace) Remove(name string) error {
	path, err := w.Path(name)
	if err != nil {
		return err
	}
	size := dirSize(path)
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	if size > 0 {
		log.Printf("[DEBUG] removed %s, %s reclaimed", path, humanize.Bytes(uint64(size))) //nolint:gosec // size is never negative
	}
	return nil
}

// Entries lists names of the top level entries, empty if the workspace doesn't exist.
func (w *Workspace) Entries() ([]string, error) {
	des, err := os.ReadDir(w.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read workspace %s: %w", w.dir, err)
	}
	res := make([]string, 0, len(des))
	for _, de := range des {
		res = append(res, de.Name())
	}
	return res, nil
}

// dirSize sums sizes of regular files under path, unreadable entries are skipped
func dirSize(path string) int64 {
	var size int64
	_ = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // best effort, size is informational only
		}
		if d.Type().IsRegular() {
			if info, e := d.Info(); e == nil {
				size += info.Size()
			}
		}
		return nil
	})
	return size
}
