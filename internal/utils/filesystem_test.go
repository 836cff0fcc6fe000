package utils

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestCopyFilePreservesMode(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "id_ed25519")
	dest := filepath.Join(tempDir, "out", "id_ed25519")

	if err := os.WriteFile(src, []byte("secret key material"), 0600); err != nil {
		t.Fatalf("writing source: %v", err)
	}

	if err := CopyFile(src, dest); err != nil {
		t.Fatalf("CopyFile failed: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading destination: %v", err)
	}
	if string(data) != "secret key material" {
		t.Errorf("content mismatch: %q", data)
	}

	info, err := os.Stat(dest)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %o", info.Mode().Perm())
	}
}

func TestCopyFileRejectsDirectories(t *testing.T) {
	tempDir := t.TempDir()
	if err := CopyFile(tempDir, filepath.Join(tempDir, "copy")); err == nil {
		t.Error("expected an error copying a directory")
	}
}

func TestCopyTreeWithSkipFilter(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "gnupg")
	dest := filepath.Join(tempDir, "staging")

	files := map[string]string{
		"pubring.kbx":       "keys",
		"private/secring":   "more keys",
		"S.gpg-agent":       "socket stand-in",
		"private/S.hidden":  "socket stand-in",
	}
	for name, content := range files {
		path := filepath.Join(src, name)
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}

	skipSockets := func(name string) bool {
		return len(name) > 2 && name[:2] == "S."
	}
	if err := CopyTree(src, dest, skipSockets); err != nil {
		t.Fatalf("CopyTree failed: %v", err)
	}

	got, err := ListFiles(dest)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"private/secring", "pubring.kbx"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListFiles = %v, want %v", got, want)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}

	cases := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/.ssh", filepath.Join(home, ".ssh")},
		{"/etc/hosts", "/etc/hosts"},
		{"relative/path", "relative/path"},
	}
	for _, tc := range cases {
		got, err := ExpandHome(tc.in)
		if err != nil {
			t.Errorf("ExpandHome(%q) failed: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
