package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CopyFile copies a single file, preserving its permission bits.
func CopyFile(src, dest string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("cannot copy %s: not a regular file", src)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0700); err != nil {
		return err
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// CopyTree recursively copies src into dest. Non-regular entries other than
// directories (sockets, devices, symlink targets that vanished) are skipped
// by the filter; symlinks to regular files are followed.
func CopyTree(src, dest string, skip func(name string) bool) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if skip != nil && skip(info.Name()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)

		if info.IsDir() {
			return os.MkdirAll(target, info.Mode().Perm())
		}

		// Resolve symlinks; copy whatever they point at.
		resolved, err := filepath.EvalSymlinks(path)
		if err != nil {
			return nil // dangling link, nothing to archive
		}
		ri, err := os.Stat(resolved)
		if err != nil || !ri.Mode().IsRegular() {
			return nil // sockets, fifos and friends don't belong in a backup
		}
		return CopyFile(resolved, target)
	})
}

// StagingPath maps a source path to its location inside the staging tree:
// paths under the user's home keep their home-relative layout, anything
// else lands under its base name.
func StagingPath(src, staging string) string {
	if home, err := os.UserHomeDir(); err == nil {
		if rel, err := filepath.Rel(home, src); err == nil &&
			rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return filepath.Join(staging, rel)
		}
	}
	return filepath.Join(staging, filepath.Base(src))
}

// CopyToStaging copies a file or directory tree into the staging tree,
// preserving home-relative layout via StagingPath.
func CopyToStaging(src, staging string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	dest := StagingPath(src, staging)
	if info.IsDir() {
		return CopyTree(src, dest, nil)
	}
	return CopyFile(src, dest)
}

// ListFiles returns the paths of every regular file under root, relative to
// root, in lexical walk order.
func ListFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			files = append(files, rel)
		}
		return nil
	})
	return files, err
}
