package archive

import (
	"bytes"
	"crypto/rand"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"

	kerrors "github.com/tmacey/keystash/internal/errors"
)

const (
	// EncryptedName is the ciphertext artifact at the workspace root.
	EncryptedName = "archive.tar.kst"

	// ScriptName is the companion script that reverses the encryption.
	ScriptName = "decrypt.sh"
)

// File format: magic, 16-byte scrypt salt, 24-byte secretbox nonce,
// then the sealed payload.
var fileMagic = []byte("KSTASH1\n")

const (
	saltSize = 16

	// Interactive-grade scrypt cost. The passcode is entered by hand once
	// per backup, so a sub-second derivation is acceptable.
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

const decryptScript = `#!/bin/sh
# Decrypts and unpacks the archive.

keystash decrypt archive.tar.kst
tar xvf archive.tar
`

// deriveKey stretches a passcode into a secretbox key.
func deriveKey(passcode, salt []byte) (*[32]byte, error) {
	raw, err := scrypt.Key(passcode, salt, scryptN, scryptR, scryptP, 32)
	if err != nil {
		return nil, err
	}
	var key [32]byte
	copy(key[:], raw)
	return &key, nil
}

// Seal symmetrically encrypts data with a passcode.
func Seal(data, passcode []byte) ([]byte, error) {
	var salt [saltSize]byte
	if _, err := io.ReadFull(rand.Reader, salt[:]); err != nil {
		return nil, kerrors.Encryptionf("generating salt: %v", err)
	}
	var nonce [24]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, kerrors.Encryptionf("generating nonce: %v", err)
	}

	key, err := deriveKey(passcode, salt[:])
	if err != nil {
		return nil, kerrors.Encryptionf("deriving key: %v", err)
	}

	out := make([]byte, 0, len(fileMagic)+saltSize+24+len(data)+secretbox.Overhead)
	out = append(out, fileMagic...)
	out = append(out, salt[:]...)
	out = append(out, nonce[:]...)
	return secretbox.Seal(out, data, &nonce, key), nil
}

// Open reverses Seal. A wrong passcode or tampered ciphertext fails
// authentication.
func Open(data, passcode []byte) ([]byte, error) {
	header := len(fileMagic) + saltSize + 24
	if len(data) < header+secretbox.Overhead {
		return nil, kerrors.Encryptionf("ciphertext too short")
	}
	if !bytes.Equal(data[:len(fileMagic)], fileMagic) {
		return nil, kerrors.Encryptionf("not a keystash archive")
	}

	salt := data[len(fileMagic) : len(fileMagic)+saltSize]
	var nonce [24]byte
	copy(nonce[:], data[len(fileMagic)+saltSize:header])

	key, err := deriveKey(passcode, salt)
	if err != nil {
		return nil, kerrors.Encryptionf("deriving key: %v", err)
	}

	plaintext, ok := secretbox.Open(nil, data[header:], &nonce, key)
	if !ok {
		return nil, kerrors.Encryptionf("wrong passcode or corrupted archive")
	}
	return plaintext, nil
}

// Encrypt packages the workspace's staging tree into a single encrypted
// artifact. It bundles the tree into a tar at the workspace root, seals it
// with the passcode, writes the ciphertext and the companion decryption
// script with owner-only permissions, and deletes the cleartext tar and the
// staging directory. The cleartext container exists on disk only within
// this function.
func Encrypt(w *Workspace, passcode string) error {
	tarPath, err := Bundle(w)
	if err != nil {
		return err
	}
	defer os.Remove(tarPath)

	cleartext, err := os.ReadFile(tarPath)
	if err != nil {
		return err
	}

	sealed, err := Seal(cleartext, []byte(passcode))
	if err != nil {
		return err
	}

	encPath := filepath.Join(w.Root, EncryptedName)
	if err := os.WriteFile(encPath, sealed, 0700); err != nil {
		return err
	}

	if err := os.Remove(tarPath); err != nil {
		return err
	}
	if err := w.RemoveStaging(); err != nil {
		return err
	}

	scriptPath := filepath.Join(w.Root, ScriptName)
	if err := os.WriteFile(scriptPath, []byte(decryptScript), 0700); err != nil {
		return err
	}
	return nil
}

// DecryptFile reverses Encrypt's seal for a .kst file, writing the
// recovered tar next to it and returning the tar's path.
func DecryptFile(path string, passcode []byte) (string, error) {
	sealed, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	plaintext, err := Open(sealed, passcode)
	if err != nil {
		return "", err
	}

	tarPath := strings.TrimSuffix(path, ".kst")
	if tarPath == path {
		tarPath = path + ".tar"
	}
	if err := os.WriteFile(tarPath, plaintext, 0600); err != nil {
		return "", err
	}
	return tarPath, nil
}
