// Package filepair implements spec.md §4.2's file-pair abstraction: each of
// a store's two files (<name>.dat, <name>.idx) is opened twice — once as a
// seekable read-write handle used solely by write-type operations, once as
// a read-only handle used solely by read-type operations — so that readers
// can seek and read without disturbing the writer's file position. This
// generalizes the teacher's internal/storage.openSegmentFile, which opens a
// single O_APPEND write handle per active segment; here every file needs
// an independent read cursor too, since reads and writes interleave on the
// same pair of files for the life of the store rather than rotating to a
// fresh segment.
package filepair

import (
	"io"
	"os"

	"go.uber.org/multierr"
)

// File wraps one physical file with its two independent OS handles.
type File struct {
	path  string
	write *os.File // Used solely by write-type operations (append, rollback, purge, milestone).
	read  *os.File // Used solely by read-type operations (read, search, stats).
}

// Open opens path for both handles, creating it with perm if it does not
// exist. The write handle is opened O_RDWR|O_CREATE (no O_APPEND: every
// writer seeks explicitly, since rollback and purge need to write at
// arbitrary offsets, not only at the end). The read handle is opened
// O_RDONLY against the same path, giving it an independent file
// description and seek cursor per POSIX semantics.
func Open(path string, perm os.FileMode) (*File, error) {
	write, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, perm)
	if err != nil {
		return nil, err
	}

	read, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		write.Close()
		return nil, err
	}

	return &File{path: path, write: write, read: read}, nil
}

// Path returns the file's path on disk.
func (f *File) Path() string {
	return f.path
}

// Size returns the file's current size in bytes.
func (f *File) Size() (int64, error) {
	info, err := f.write.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// WriteAt seeks the write handle to offset and writes p, returning the
// number of bytes written. Only the write handle's cursor is disturbed.
func (f *File) WriteAt(offset int64, p []byte) (int, error) {
	if _, err := f.write.Seek(offset, io.SeekStart); err != nil {
		return 0, err
	}
	return f.write.Write(p)
}

// ReadAt reads len(p) bytes at offset through the read handle, returning an
// error if fewer bytes are available. It does not move any cursor, so
// concurrent readers and the writer's position are unaffected.
func (f *File) ReadAt(offset int64, p []byte) (int, error) {
	return f.read.ReadAt(p, offset)
}

// Truncate resizes the underlying file. Rollback, purge and recovery do not
// call it: they zeroise tails in place and keep the file size.
func (f *File) Truncate(size int64) error {
	return f.write.Truncate(size)
}

// Flush pushes any OS-buffered writes out. os.File writes are unbuffered
// syscalls, so this is a structural placeholder matching spec.md §4.6's
// "flush data file; flush index file" step — it exists so call sites read
// the same way the spec's pseudocode does, and is where a future buffered
// writer would hook in.
func (f *File) Flush() error {
	return nil
}

// Sync calls fsync on the write handle. Go's standard library has no
// portable fdatasync; File.Sync is the idiomatic substitute other pack
// examples reach for (e.g. xik938's JournalEngine.Sync).
func (f *File) Sync() error {
	return f.write.Sync()
}

// Close closes both handles. Safe to call once; a second call returns the
// OS's already-closed errors for both handles, combined.
func (f *File) Close() error {
	return multierr.Append(f.write.Close(), f.read.Close())
}
