// Package storage holds the durable-write primitives used by the on-disk
// automaton store: atomic file replacement, fsync, checksums and directory
// listing.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	DirPerm  os.FileMode = 0755
	FilePerm os.FileMode = 0644
)

// FsyncDir opens the directory at path and calls fsync on it, making renames
// and removals inside it durable.
func FsyncDir(path string) error {
	d, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("fsync dir open %s: %w", path, err)
	}
	if err := d.Sync(); err != nil {
		d.Close()
		return fmt.Errorf("fsync dir sync %s: %w", path, err)
	}
	if err := d.Close(); err != nil {
		return fmt.Errorf("fsync dir close %s: %w", path, err)
	}
	return nil
}

// AtomicWriteFile replaces finalPath with data. The bytes are first written
// and fsynced in a temporary file inside tmpDir, which must be on the same
// filesystem, then renamed over finalPath; the parent directory is fsynced
// last. Readers see either the old content or the new, never a mix.
func AtomicWriteFile(finalPath string, data []byte, tmpDir string) error {
	tmp, err := os.CreateTemp(tmpDir, filepath.Base(finalPath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("atomic write create temp in %s: %w", tmpDir, err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("atomic write data: %w", err)
	}
	if err := tmp.Chmod(FilePerm); err != nil {
		tmp.Close()
		return fmt.Errorf("atomic write chmod: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("atomic write fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("atomic write close: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return fmt.Errorf("atomic write rename %s → %s: %w", tmpPath, finalPath, err)
	}
	committed = true

	if err := FsyncDir(filepath.Dir(finalPath)); err != nil {
		return fmt.Errorf("atomic write fsync parent dir: %w", err)
	}
	return nil
}

// RemoveFile deletes path and fsyncs its parent directory. A missing file is
// not an error.
func RemoveFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return FsyncDir(filepath.Dir(path))
}

// EnsureDir creates a directory (and parents) if it does not exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, DirPerm)
}
