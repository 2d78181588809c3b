// Package publish moves a finished temp archive to its final destination.
package publish

import (
	"fmt"
	"io"
	"path/filepath"

	"distzip/internal/ports"
)

// Publish relocates the temp archive at tempPath to finalPath, creating
// the destination directory first. It tries an atomic rename and falls
// back to copy+delete when the rename fails (e.g. crossing a device
// boundary). Returns the absolute final path.
//
// If the fallback copy fails, the temp file is preserved so the data is
// not lost; a partially copied destination file is removed best-effort.
func Publish(fsys ports.FileSystem, tempPath, finalPath string) (string, error) {
	abs, err := filepath.Abs(finalPath)
	if err != nil {
		return "", fmt.Errorf("resolving destination path: %w", err)
	}

	if err := fsys.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return "", fmt.Errorf("creating destination directory: %w", err)
	}

	if err := fsys.Rename(tempPath, abs); err != nil {
		if copyErr := copyFile(fsys, tempPath, abs); copyErr != nil {
			_ = fsys.Remove(abs) // drop the partial copy, keep the temp file
			return "", fmt.Errorf("relocating archive: rename failed (%v); copy failed: %w", err, copyErr)
		}
		if rmErr := fsys.Remove(tempPath); rmErr != nil {
			return "", fmt.Errorf("removing temp archive after copy: %w", rmErr)
		}
	}

	return abs, nil
}

// copyFile copies src to dst byte for byte.
func copyFile(fsys ports.FileSystem, src, dst string) error {
	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := fsys.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
