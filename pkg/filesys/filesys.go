// Package filesys provides the small set of directory-bootstrap utilities
// seqlogctl's init command uses to prepare a store directory before the
// first Open, trimmed from the teacher's broader file-system helper
// collection down to what this store's single-directory layout needs.
package filesys

import (
	"errors"
	"os"
)

// ErrIsNotDir is returned when a path exists but is not a directory.
var ErrIsNotDir = errors.New("path isn't a directory")

// EnsureDir creates dirPath with permission if it does not already exist.
// If it exists and is a directory, this is a no-op; if it exists and is a
// file, ErrIsNotDir is returned.
func EnsureDir(dirPath string, permission os.FileMode) error {
	stat, err := os.Stat(dirPath)
	if err == nil {
		if !stat.IsDir() {
			return ErrIsNotDir
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}
	return os.MkdirAll(dirPath, permission)
}

// Exists reports whether a file or directory at path exists.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
