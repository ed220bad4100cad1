package tailutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memFile is an in-memory stand-in for *filepair.File satisfying every
// interface tailutil needs, so these tests exercise pure byte-arithmetic
// behavior without touching the filesystem.
type memFile struct {
	buf []byte
}

func (m *memFile) Size() (int64, error) { return int64(len(m.buf)), nil }

func (m *memFile) ReadAt(offset int64, p []byte) (int, error) {
	n := copy(p, m.buf[offset:])
	return n, nil
}

func (m *memFile) WriteAt(offset int64, p []byte) (int, error) {
	end := offset + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[offset:end], p)
	return len(p), nil
}

func (m *memFile) Flush() error { return nil }

func TestZeroiseFillsTail(t *testing.T) {
	f := &memFile{buf: []byte{1, 2, 3, 4, 5, 6}}
	require.NoError(t, Zeroise(f, 2))
	assert.Equal(t, []byte{1, 2, 0, 0, 0, 0}, f.buf)
}

func TestZeroiseNoOpWhenAlreadyZero(t *testing.T) {
	f := &memFile{buf: []byte{1, 2, 0, 0, 0, 0}}
	require.NoError(t, Zeroise(f, 2))
	assert.Equal(t, []byte{1, 2, 0, 0, 0, 0}, f.buf)
}

func TestZeroiseOffsetAtOrPastEndIsNoOp(t *testing.T) {
	f := &memFile{buf: []byte{1, 2, 3}}
	require.NoError(t, Zeroise(f, 3))
	assert.Equal(t, []byte{1, 2, 3}, f.buf)

	require.NoError(t, Zeroise(f, 10))
	assert.Equal(t, []byte{1, 2, 3}, f.buf)
}

func TestZeroisePreservesFileSize(t *testing.T) {
	f := &memFile{buf: []byte{1, 2, 3, 4, 5}}
	before := len(f.buf)
	require.NoError(t, Zeroise(f, 1))
	assert.Equal(t, before, len(f.buf))
}

func TestBoundedCopyRange(t *testing.T) {
	src := &memFile{buf: []byte("0123456789")}
	dst := &memFile{buf: make([]byte, 4)}

	require.NoError(t, BoundedCopy(dst, src, 2, 7, 0))
	assert.Equal(t, []byte("23456"), dst.buf[:5])
}

func TestBoundedCopyInvalidRange(t *testing.T) {
	src := &memFile{buf: []byte("abc")}
	dst := &memFile{buf: make([]byte, 4)}
	err := BoundedCopy(dst, src, 5, 2, 0)
	assert.Error(t, err)
}

func TestBoundedCopyEmptyRangeIsNoOp(t *testing.T) {
	src := &memFile{buf: []byte("abc")}
	dst := &memFile{buf: []byte{9, 9, 9}}
	require.NoError(t, BoundedCopy(dst, src, 1, 1, 0))
	assert.Equal(t, []byte{9, 9, 9}, dst.buf)
}
