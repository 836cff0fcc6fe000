package archive

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewWorkspaceCreatesStaging(t *testing.T) {
	dataDir := t.TempDir()

	w, err := NewWorkspace(dataDir, "laptop")
	if err != nil {
		t.Fatalf("NewWorkspace failed: %v", err)
	}

	if w.Root != filepath.Join(dataDir, "laptop") {
		t.Errorf("Root = %q", w.Root)
	}
	info, err := os.Stat(w.Staging)
	if err != nil {
		t.Fatalf("staging directory missing: %v", err)
	}
	if !info.IsDir() {
		t.Error("staging is not a directory")
	}
}

func TestNewWorkspaceRemovesStaleRun(t *testing.T) {
	dataDir := t.TempDir()

	stale := filepath.Join(dataDir, "laptop", "archive", "leftover")
	if err := os.MkdirAll(filepath.Dir(stale), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte("old cleartext"), 0600); err != nil {
		t.Fatal(err)
	}

	w, err := NewWorkspace(dataDir, "laptop")
	if err != nil {
		t.Fatalf("NewWorkspace failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(w.Staging, "leftover")); !os.IsNotExist(err) {
		t.Error("stale workspace content survived")
	}
}

func TestNewWorkspaceRejectsEmptyName(t *testing.T) {
	if _, err := NewWorkspace(t.TempDir(), ""); err == nil {
		t.Error("expected an error for an empty workspace name")
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	w, err := NewWorkspace(t.TempDir(), "run")
	if err != nil {
		t.Fatal(err)
	}

	if err := w.Remove(); err != nil {
		t.Fatalf("first Remove failed: %v", err)
	}
	if err := w.Remove(); err != nil {
		t.Fatalf("second Remove failed: %v", err)
	}
	if _, err := os.Stat(w.Root); !os.IsNotExist(err) {
		t.Error("workspace still exists")
	}
}
