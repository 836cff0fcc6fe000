package archive

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	kerrors "github.com/tmacey/keystash/internal/errors"
)

func TestSealOpenRoundTrip(t *testing.T) {
	plaintext := []byte("the quick brown fox")
	passcode := []byte("secret123")

	sealed, err := Seal(plaintext, passcode)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if bytes.Contains(sealed, plaintext) {
		t.Error("ciphertext contains the plaintext")
	}

	opened, err := Open(sealed, passcode)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !bytes.Equal(opened, plaintext) {
		t.Errorf("round trip mismatch: %q", opened)
	}
}

func TestSealIsRandomizedButBothDecrypt(t *testing.T) {
	plaintext := []byte("identical input")
	passcode := []byte("secret123")

	first, err := Seal(plaintext, passcode)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Seal(plaintext, passcode)
	if err != nil {
		t.Fatal(err)
	}

	// Fresh salt and nonce each time; the ciphertexts differ but both
	// recover the identical plaintext.
	if bytes.Equal(first, second) {
		t.Error("two seals of the same input produced identical ciphertext")
	}
	for i, sealed := range [][]byte{first, second} {
		opened, err := Open(sealed, passcode)
		if err != nil {
			t.Fatalf("Open of seal %d failed: %v", i, err)
		}
		if !bytes.Equal(opened, plaintext) {
			t.Errorf("seal %d did not round trip", i)
		}
	}
}

func TestOpenRejectsWrongPasscode(t *testing.T) {
	sealed, err := Seal([]byte("data"), []byte("right"))
	if err != nil {
		t.Fatal(err)
	}

	_, err = Open(sealed, []byte("wrong"))
	if err == nil {
		t.Fatal("expected authentication failure")
	}
	if k, ok := kerrors.KindOf(err); !ok || k != kerrors.KindEncryption {
		t.Errorf("expected an encryption error, got %v", err)
	}
}

func TestOpenRejectsTamperedCiphertext(t *testing.T) {
	sealed, err := Seal([]byte("data"), []byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	sealed[len(sealed)-1] ^= 0xff

	if _, err := Open(sealed, []byte("secret")); err == nil {
		t.Error("expected tampering to be detected")
	}
}

func TestOpenRejectsForeignData(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("short"), make([]byte, 128)} {
		if _, err := Open(data, []byte("secret")); err == nil {
			t.Errorf("expected an error for %d-byte non-archive data", len(data))
		}
	}
}

func stageFiles(t *testing.T, w *Workspace, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(w.Staging, name)
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}
}

func TestEncryptProducesOnlyCiphertextAndScript(t *testing.T) {
	w, err := NewWorkspace(t.TempDir(), "run")
	if err != nil {
		t.Fatal(err)
	}
	stageFiles(t, w, map[string]string{
		".ssh/id_ed25519": "private key",
		".ssh/config":     "Host *",
	})

	if err := Encrypt(w, "secret123"); err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	// Cleartext is gone.
	if _, err := os.Stat(w.Staging); !os.IsNotExist(err) {
		t.Error("staging directory survived encryption")
	}
	if _, err := os.Stat(filepath.Join(w.Root, BundleName)); !os.IsNotExist(err) {
		t.Error("plaintext tar survived encryption")
	}

	// Artifacts exist with owner-only permissions.
	for _, name := range []string{EncryptedName, ScriptName} {
		info, err := os.Stat(filepath.Join(w.Root, name))
		if err != nil {
			t.Fatalf("missing artifact %s: %v", name, err)
		}
		if info.Mode().Perm() != 0700 {
			t.Errorf("%s has mode %o, want 0700", name, info.Mode().Perm())
		}
	}
}

func TestEncryptDecryptUnpackRoundTrip(t *testing.T) {
	w, err := NewWorkspace(t.TempDir(), "run")
	if err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		".ssh/id_ed25519":     "private key",
		".gnupg/pubring.kbx":  "keyring",
		"deep/nested/secret":  "value",
	}
	stageFiles(t, w, files)

	if err := Encrypt(w, "secret123"); err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	tarPath, err := DecryptFile(filepath.Join(w.Root, EncryptedName), []byte("secret123"))
	if err != nil {
		t.Fatalf("DecryptFile failed: %v", err)
	}

	restoreDir := t.TempDir()
	if err := Unpack(tarPath, restoreDir); err != nil {
		t.Fatalf("Unpack failed: %v", err)
	}

	for name, want := range files {
		got, err := os.ReadFile(filepath.Join(restoreDir, stagingDirName, name))
		if err != nil {
			t.Errorf("restored file %s missing: %v", name, err)
			continue
		}
		if string(got) != want {
			t.Errorf("restored %s = %q, want %q", name, got, want)
		}
	}
}
