// Package tailutil implements the two small file primitives spec.md §4.3
// builds rollback and purge on: zeroising a file from some offset to its
// current end, and a bounded file-to-file copy. Grounded in the teacher's
// pkg/filesys copy/IO helpers, generalized from whole-file copies to the
// byte-range copies rollback and purge need.
package tailutil

import (
	"bytes"
	"fmt"
)

// zeroChunk is reused across Zeroise calls to avoid reallocating a
// same-sized buffer of zero bytes on every invocation.
var zeroChunk = make([]byte, 64*1024)

// writerAtReaderAt is satisfied by *filepair.File without importing it,
// avoiding an import cycle (filepair is a lower-level package than the
// callers of tailutil).
type writerAtReaderAt interface {
	WriteAt(offset int64, p []byte) (int, error)
	ReadAt(offset int64, p []byte) (int, error)
	Size() (int64, error)
	Flush() error
}

// Zeroise implements spec.md §4.3's zeroise-from-offset: starting at
// offset, it checks whether the file is already entirely zero from there
// to its current end. If so it does nothing. Otherwise it overwrites every
// byte from offset to the end with zero, in place, leaving the file size
// unchanged, and flushes.
func Zeroise(f writerAtReaderAt, offset int64) error {
	size, err := f.Size()
	if err != nil {
		return fmt.Errorf("stat file for zeroise: %w", err)
	}
	if offset >= size {
		return nil
	}

	alreadyZero, err := isZeroFrom(f, offset, size)
	if err != nil {
		return fmt.Errorf("scan file for zeroise: %w", err)
	}
	if alreadyZero {
		return nil
	}

	remaining := size - offset
	pos := offset
	for remaining > 0 {
		n := int64(len(zeroChunk))
		if remaining < n {
			n = remaining
		}
		if _, err := f.WriteAt(pos, zeroChunk[:n]); err != nil {
			return fmt.Errorf("zeroise write at %d: %w", pos, err)
		}
		pos += n
		remaining -= n
	}

	return f.Flush()
}

// isZeroFrom reports whether f is entirely zero bytes in [offset, size).
func isZeroFrom(f writerAtReaderAt, offset, size int64) (bool, error) {
	remaining := size - offset
	pos := offset
	buf := make([]byte, 64*1024)

	for remaining > 0 {
		chunkLen := int64(len(buf))
		if remaining < chunkLen {
			chunkLen = remaining
		}
		if _, err := f.ReadAt(pos, buf[:chunkLen]); err != nil {
			return false, err
		}
		if !bytes.Equal(buf[:chunkLen], zeroChunk[:chunkLen]) {
			return false, nil
		}
		pos += chunkLen
		remaining -= chunkLen
	}
	return true, nil
}

// srcReaderAt is the minimal surface BoundedCopy needs from its source —
// separate from writerAtReaderAt because the source in purge is the old
// data file, read-only for the duration of the copy.
type srcReaderAt interface {
	ReadAt(offset int64, p []byte) (int, error)
}

type dstWriterAt interface {
	WriteAt(offset int64, p []byte) (int, error)
	Flush() error
}

// BoundedCopy implements spec.md §4.3's bounded copy: copies bytes
// [pos0, pos1) from src starting at pos2 in dst, in fixed-size chunks so
// arbitrarily large ranges don't require a single huge allocation. Returns
// an error if the range is invalid (pos1 < pos0) or a short read/write
// occurs. Flushes dst on success.
func BoundedCopy(dst dstWriterAt, src srcReaderAt, pos0, pos1, pos2 int64) error {
	if pos1 < pos0 {
		return fmt.Errorf("invalid copy range [%d, %d)", pos0, pos1)
	}

	const chunkSize = 256 * 1024
	buf := make([]byte, chunkSize)

	remaining := pos1 - pos0
	srcPos := pos0
	dstPos := pos2

	for remaining > 0 {
		n := int64(len(buf))
		if remaining < n {
			n = remaining
		}

		read, err := src.ReadAt(srcPos, buf[:n])
		if err != nil {
			return fmt.Errorf("bounded copy read at %d: %w", srcPos, err)
		}
		if int64(read) != n {
			return fmt.Errorf("short read at %d: got %d, want %d", srcPos, read, n)
		}

		written, err := dst.WriteAt(dstPos, buf[:n])
		if err != nil {
			return fmt.Errorf("bounded copy write at %d: %w", dstPos, err)
		}
		if int64(written) != n {
			return fmt.Errorf("short write at %d: got %d, want %d", dstPos, written, n)
		}

		srcPos += n
		dstPos += n
		remaining -= n
	}

	return dst.Flush()
}
