package filepair

import (
	"os"
	"path/filepath"

	"github.com/iamNilotpal/seqlog/internal/codec"
	"github.com/iamNilotpal/seqlog/pkg/errors"
	"github.com/iamNilotpal/seqlog/pkg/options"
	"go.uber.org/multierr"
)

// filePerm is the permission mode new data/index/tmp files are created
// with, matching teacher's segment-file permission choice.
const filePerm = 0644

// Pair bundles a store's data file, index file, and the directory/name they
// were derived from.
type Pair struct {
	Directory string
	Name      string
	Dat       *File
	Idx       *File
}

// DatPath / IdxPath / TmpPath return the three file paths derived from
// directory and name, per spec.md §6.
func DatPath(directory, name string) string { return filepath.Join(directory, name+".dat") }
func IdxPath(directory, name string) string { return filepath.Join(directory, name+".idx") }
func TmpPath(directory, name string) string { return filepath.Join(directory, name+".tmp") }

// Validate checks the directory and name before any filesystem mutation,
// per spec.md §4.5's ordering requirement.
func Validate(directory, name string) error {
	if !options.ValidName(name) {
		return errors.NewNameError(name)
	}

	info, err := os.Stat(directory)
	if err != nil {
		return errors.NewPathError(directory, err)
	}
	if !info.IsDir() {
		return errors.NewPathError(directory, os.ErrInvalid)
	}
	return nil
}

// Exists reports whether path exists.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// OpenOrCreateDat opens the data file, writing a fresh header if it did not
// already exist. Returns the pair member and whether the file was freshly
// created.
func OpenOrCreateDat(directory, name string) (*File, bool, error) {
	path := DatPath(directory, name)
	existed, err := Exists(path)
	if err != nil {
		return nil, false, errors.ClassifyFileOpenError(err, path, filepath.Base(path), false)
	}

	f, err := Open(path, filePerm)
	if err != nil {
		return nil, false, errors.ClassifyFileOpenError(err, path, filepath.Base(path), false)
	}

	if !existed {
		header := codec.NewDataHeader()
		if _, err := f.WriteAt(0, header.Encode()); err != nil {
			f.Close()
			return nil, false, errors.ClassifyIOError(err, filepath.Base(path), path, 0, false, true)
		}
		if err := f.Flush(); err != nil {
			f.Close()
			return nil, false, errors.ClassifyIOError(err, filepath.Base(path), path, 0, false, true)
		}
	}

	return f, !existed, nil
}

// OpenOrCreateIdx opens the index file, writing a fresh header if it did
// not already exist.
func OpenOrCreateIdx(directory, name string) (*File, bool, error) {
	path := IdxPath(directory, name)
	existed, err := Exists(path)
	if err != nil {
		return nil, false, errors.ClassifyFileOpenError(err, path, filepath.Base(path), true)
	}

	f, err := Open(path, filePerm)
	if err != nil {
		return nil, false, errors.ClassifyFileOpenError(err, path, filepath.Base(path), true)
	}

	if !existed {
		header := codec.NewIndexHeader()
		if _, err := f.WriteAt(0, header.Encode()); err != nil {
			f.Close()
			return nil, false, errors.ClassifyIOError(err, filepath.Base(path), path, 0, true, true)
		}
		if err := f.Flush(); err != nil {
			f.Close()
			return nil, false, errors.ClassifyIOError(err, filepath.Base(path), path, 0, true, true)
		}
	}

	return f, !existed, nil
}

// RemoveIdx deletes the index file, used by the opener (spec.md §4.5 step 1
// and step 12) and by purge (spec.md §4.11 step 5) to force a rebuild.
func RemoveIdx(directory, name string) error {
	err := os.Remove(IdxPath(directory, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Close closes both files in the pair, aggregating errors from both closes
// so a failure on one handle never masks a failure on the other.
func (p *Pair) Close() error {
	var err error
	if p.Dat != nil {
		err = multierr.Append(err, p.Dat.Close())
	}
	if p.Idx != nil {
		err = multierr.Append(err, p.Idx.Close())
	}
	return err
}
