package filepair

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRejectsBadName(t *testing.T) {
	dir := t.TempDir()
	err := Validate(dir, "bad name!")
	assert.Error(t, err)
}

func TestValidateRejectsMissingDirectory(t *testing.T) {
	err := Validate(filepath.Join(t.TempDir(), "does-not-exist"), "store")
	assert.Error(t, err)
}

func TestValidateAcceptsGoodInput(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, Validate(dir, "store_1"))
}

func TestOpenOrCreateDatWritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()

	f, created, err := OpenOrCreateDat(dir, "store")
	require.NoError(t, err)
	assert.True(t, created)
	require.NoError(t, f.Close())

	f2, created2, err := OpenOrCreateDat(dir, "store")
	require.NoError(t, err)
	assert.False(t, created2)
	require.NoError(t, f2.Close())
}

func TestFileWriteAtReadAtIndependentCursors(t *testing.T) {
	dir := t.TempDir()
	f, err := Open(filepath.Join(dir, "x.bin"), 0644)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.WriteAt(0, []byte("hello world"))
	require.NoError(t, err)

	buf := make([]byte, 5)
	n, err := f.ReadAt(6, buf)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "world", string(buf))

	// Reading again from a different offset must not be affected by the
	// previous read's cursor position.
	buf2 := make([]byte, 5)
	_, err = f.ReadAt(0, buf2)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf2))
}

func TestRemoveIdxIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, RemoveIdx(dir, "store"))

	f, _, err := OpenOrCreateIdx(dir, "store")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.NoError(t, RemoveIdx(dir, "store"))
	assert.NoError(t, RemoveIdx(dir, "store"))
}

func TestPairCloseSucceedsForOpenPair(t *testing.T) {
	dir := t.TempDir()
	dat, _, err := OpenOrCreateDat(dir, "store")
	require.NoError(t, err)
	idx, _, err := OpenOrCreateIdx(dir, "store")
	require.NoError(t, err)

	p := &Pair{Directory: dir, Name: "store", Dat: dat, Idx: idx}
	require.NoError(t, p.Close())
}
