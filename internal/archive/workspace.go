package archive

import (
	"fmt"
	"os"
	"path/filepath"
)

// stagingDirName is the subdirectory archive plugins populate. It also
// becomes the top-level directory name inside the bundled tar, which the
// companion script's unpack step relies on.
const stagingDirName = "archive"

// Workspace is the transient per-run directory tree: a staging subdirectory
// that archive plugins fill, and after encryption the two output artifacts.
type Workspace struct {
	// Root is the workspace directory itself.
	Root string

	// Staging is the archive/ subdirectory holding cleartext files to be
	// backed up. It exists only between the archive stage and encryption.
	Staging string
}

// NewWorkspace creates a fresh workspace named name under dataDir. A stale
// workspace of the same name from an aborted earlier run is removed first.
func NewWorkspace(dataDir, name string) (*Workspace, error) {
	if name == "" {
		return nil, fmt.Errorf("workspace name is empty")
	}
	root := filepath.Join(dataDir, name)
	if err := os.RemoveAll(root); err != nil {
		return nil, fmt.Errorf("removing stale workspace: %w", err)
	}

	staging := filepath.Join(root, stagingDirName)
	if err := os.MkdirAll(staging, 0700); err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}

	return &Workspace{Root: root, Staging: staging}, nil
}

// Remove deletes the entire workspace tree. Safe to call more than once.
func (w *Workspace) Remove() error {
	return os.RemoveAll(w.Root)
}

// RemoveStaging deletes only the cleartext staging subdirectory.
func (w *Workspace) RemoveStaging() error {
	return os.RemoveAll(w.Staging)
}
