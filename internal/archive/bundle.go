package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// BundleName is the uncompressed container holding the staging tree. It
// exists on disk only within the encryption step.
const BundleName = "archive.tar"

// Bundle packs the workspace's staging tree into a single uncompressed tar
// at the workspace root and returns its path. Entries are stored under the
// staging directory name so unpacking recreates archive/.
func Bundle(w *Workspace) (string, error) {
	tarPath := filepath.Join(w.Root, BundleName)

	out, err := os.OpenFile(tarPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return "", err
	}

	tw := tar.NewWriter(out)
	err = filepath.Walk(w.Staging, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(w.Staging, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(filepath.Join(stagingDirName, rel))

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = name
		if info.IsDir() {
			header.Name += "/"
		}

		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		tw.Close()
		out.Close()
		os.Remove(tarPath)
		return "", fmt.Errorf("bundling staging tree: %w", err)
	}

	if err := tw.Close(); err != nil {
		out.Close()
		os.Remove(tarPath)
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(tarPath)
		return "", err
	}
	return tarPath, nil
}

// Unpack extracts a tar produced by Bundle into destDir. Entry paths are
// confined to destDir; anything trying to escape is rejected.
func Unpack(tarPath, destDir string) error {
	f, err := os.Open(tarPath)
	if err != nil {
		return err
	}
	defer f.Close()

	tr := tar.NewReader(f)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading archive: %w", err)
		}

		target := filepath.Join(destDir, filepath.FromSlash(header.Name))
		rel, err := filepath.Rel(destDir, target)
		if err != nil || rel == ".." || filepath.IsAbs(rel) ||
			len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator) {
			return fmt.Errorf("archive entry %q escapes the destination", header.Name)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(header.Mode).Perm()); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0700); err != nil {
				return err
			}
			out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(header.Mode).Perm())
			if err != nil {
				return err
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
		default:
			// Staging trees only contain files and directories.
		}
	}
}
