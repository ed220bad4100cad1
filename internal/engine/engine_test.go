package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iamNilotpal/seqlog/internal/codec"
	"github.com/iamNilotpal/seqlog/pkg/errors"
	"github.com/iamNilotpal/seqlog/pkg/logger"
	"github.com/iamNilotpal/seqlog/pkg/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock lets tests assign deterministic, ascending timestamps instead
// of depending on wall-clock resolution.
func fixedClock(start uint64) func() uint64 {
	n := start
	return func() uint64 {
		n++
		return n
	}
}

func openTestEngine(t *testing.T, dir, name string, check bool) *Engine {
	t.Helper()
	opts := options.NewDefaultOptions()
	opts.Directory = dir
	opts.Name = name
	opts.CheckOnOpen = check
	opts.Clock = fixedClock(100)

	e, err := New(&Config{
		Directory: dir,
		Name:      name,
		Options:   &opts,
		Logger:    logger.Discard(),
	})
	require.NoError(t, err)
	return e
}

func TestAppendAndReadBasic(t *testing.T) {
	dir := t.TempDir()
	e := openTestEngine(t, dir, "store", false)
	defer e.Close()

	n, err := e.Append([]Entry{
		{Metadata: []byte("m1"), Data: []byte("d1")},
		{Metadata: []byte("m2"), Data: []byte("d2")},
		{Data: []byte("d3")},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	st := e.State()
	assert.Equal(t, uint64(1), st.FirstSeqnum)
	assert.Equal(t, uint64(3), st.LastSeqnum)

	entries, err := e.Read(1, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, uint64(1), entries[0].Seqnum)
	assert.Equal(t, []byte("m1"), entries[0].Metadata)
	assert.Equal(t, []byte("d1"), entries[0].Data)
	assert.Equal(t, uint64(3), entries[2].Seqnum)
	assert.Nil(t, entries[2].Metadata)
	assert.Equal(t, []byte("d3"), entries[2].Data)
}

func TestReadOutOfRangeIsNotFound(t *testing.T) {
	dir := t.TempDir()
	e := openTestEngine(t, dir, "store", false)
	defer e.Close()

	_, err := e.Append([]Entry{{Data: []byte("x")}})
	require.NoError(t, err)

	_, err = e.Read(0, 1)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	_, err = e.Read(99, 1)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestAppendRejectsNonCorrelativeSeqnum(t *testing.T) {
	dir := t.TempDir()
	e := openTestEngine(t, dir, "store", false)
	defer e.Close()

	_, err := e.Append([]Entry{{Seqnum: 1, Timestamp: 10, Data: []byte("a")}})
	require.NoError(t, err)

	n, err := e.Append([]Entry{{Seqnum: 3, Timestamp: 20, Data: []byte("b")}})
	assert.Equal(t, 0, n)
	assert.Equal(t, errors.CodeInvalidArgument, errors.GetCode(err))

	st := e.State()
	assert.Equal(t, uint64(1), st.LastSeqnum)
}

func TestAppendRejectsTimestampRegression(t *testing.T) {
	dir := t.TempDir()
	e := openTestEngine(t, dir, "store", false)
	defer e.Close()

	_, err := e.Append([]Entry{{Seqnum: 1, Timestamp: 100, Data: []byte("a")}})
	require.NoError(t, err)

	_, err = e.Append([]Entry{{Seqnum: 2, Timestamp: 50, Data: []byte("b")}})
	assert.Equal(t, errors.CodeInvalidArgument, errors.GetCode(err))
}

func TestAppendPartialBatchStopsOnFirstFailure(t *testing.T) {
	dir := t.TempDir()
	e := openTestEngine(t, dir, "store", false)
	defer e.Close()

	n, err := e.Append([]Entry{
		{Seqnum: 1, Timestamp: 10, Data: []byte("a")},
		{Seqnum: 2, Timestamp: 20, Data: []byte("b")},
		{Seqnum: 5, Timestamp: 30, Data: []byte("c")},
	})
	assert.Equal(t, 2, n)
	assert.Error(t, err)

	st := e.State()
	assert.Equal(t, uint64(2), st.LastSeqnum)
}

func TestSearchLowerAndUpperBound(t *testing.T) {
	dir := t.TempDir()
	e := openTestEngine(t, dir, "store", false)
	defer e.Close()

	_, err := e.Append([]Entry{
		{Seqnum: 1, Timestamp: 10, Data: []byte("a")},
		{Seqnum: 2, Timestamp: 10, Data: []byte("b")},
		{Seqnum: 3, Timestamp: 20, Data: []byte("c")},
		{Seqnum: 4, Timestamp: 30, Data: []byte("d")},
	})
	require.NoError(t, err)

	sn, err := e.Search(10, SearchLower)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), sn, "lower bound for a repeated timestamp should land on the first record")

	sn, err = e.Search(15, SearchLower)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), sn)

	_, err = e.Search(31, SearchLower)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	_, err = e.Search(30, SearchUpper)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestStatRange(t *testing.T) {
	dir := t.TempDir()
	e := openTestEngine(t, dir, "store", false)
	defer e.Close()

	_, err := e.Append([]Entry{
		{Seqnum: 1, Timestamp: 10, Data: []byte("aa")},
		{Seqnum: 2, Timestamp: 20, Data: []byte("bb")},
		{Seqnum: 3, Timestamp: 30, Data: []byte("cc")},
	})
	require.NoError(t, err)

	stats, err := e.Stat(1, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), stats.NumEntries)
	assert.Equal(t, int64(3*codec.IndexRecordSize), stats.IndexSize)

	stats, err = e.Stat(0, 1000)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), stats.NumEntries, "range should clamp to store bounds")

	stats, err = e.Stat(5, 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), stats.NumEntries)
}

func TestRollbackAndReopen(t *testing.T) {
	dir := t.TempDir()
	e := openTestEngine(t, dir, "store", false)

	_, err := e.Append([]Entry{
		{Seqnum: 1, Timestamp: 10, Data: []byte("a")},
		{Seqnum: 2, Timestamp: 20, Data: []byte("b")},
		{Seqnum: 3, Timestamp: 30, Data: []byte("c")},
	})
	require.NoError(t, err)

	removed, err := e.Rollback(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), removed)

	st := e.State()
	assert.Equal(t, uint64(1), st.LastSeqnum)

	require.NoError(t, e.Close())

	reopened := openTestEngine(t, dir, "store", false)
	defer reopened.Close()

	st = reopened.State()
	assert.Equal(t, uint64(1), st.FirstSeqnum)
	assert.Equal(t, uint64(1), st.LastSeqnum)

	entries, err := reopened.Read(1, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, []byte("a"), entries[0].Data)
}

func TestRollbackToZeroEmptiesStore(t *testing.T) {
	dir := t.TempDir()
	e := openTestEngine(t, dir, "store", false)
	defer e.Close()

	_, err := e.Append([]Entry{
		{Seqnum: 1, Timestamp: 10, Data: []byte("a")},
		{Seqnum: 2, Timestamp: 20, Data: []byte("b")},
	})
	require.NoError(t, err)

	removed, err := e.Rollback(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), removed)
	assert.True(t, e.State().Empty())
}

func TestPurgePrefixAndReopen(t *testing.T) {
	dir := t.TempDir()
	e := openTestEngine(t, dir, "store", false)

	_, err := e.Append([]Entry{
		{Seqnum: 1, Timestamp: 10, Data: []byte("a")},
		{Seqnum: 2, Timestamp: 20, Data: []byte("b")},
		{Seqnum: 3, Timestamp: 30, Data: []byte("c")},
		{Seqnum: 4, Timestamp: 40, Data: []byte("d")},
	})
	require.NoError(t, err)

	const milestone = 77
	require.NoError(t, e.UpdateMilestone(milestone))

	removed, err := e.Purge(3)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), removed)

	st := e.State()
	assert.Equal(t, uint64(3), st.FirstSeqnum)
	assert.Equal(t, uint64(4), st.LastSeqnum)
	assert.Equal(t, uint64(milestone), e.Milestone(), "purge must preserve the milestone across the rewrite")

	entries, err := e.Read(3, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, []byte("c"), entries[0].Data)

	require.NoError(t, e.Close())

	reopened := openTestEngine(t, dir, "store", false)
	defer reopened.Close()
	st = reopened.State()
	assert.Equal(t, uint64(3), st.FirstSeqnum)
	assert.Equal(t, uint64(4), st.LastSeqnum)
	assert.Equal(t, uint64(milestone), reopened.Milestone())
}

func TestPurgeEverything(t *testing.T) {
	dir := t.TempDir()
	e := openTestEngine(t, dir, "store", false)
	defer e.Close()

	_, err := e.Append([]Entry{
		{Seqnum: 1, Timestamp: 10, Data: []byte("a")},
		{Seqnum: 2, Timestamp: 20, Data: []byte("b")},
	})
	require.NoError(t, err)

	removed, err := e.Purge(100)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), removed)
	assert.True(t, e.State().Empty())
}

func TestIndexRebuildAfterIndexFileDeleted(t *testing.T) {
	dir := t.TempDir()
	e := openTestEngine(t, dir, "store", false)

	_, err := e.Append([]Entry{
		{Seqnum: 1, Timestamp: 10, Metadata: []byte("m"), Data: []byte("a")},
		{Seqnum: 2, Timestamp: 20, Data: []byte("bb")},
		{Seqnum: 3, Timestamp: 30, Data: []byte("ccc")},
	})
	require.NoError(t, err)
	require.NoError(t, e.Close())

	require.NoError(t, os.Remove(filepath.Join(dir, "store.idx")))

	reopened := openTestEngine(t, dir, "store", false)
	defer reopened.Close()

	assert.True(t, reopened.LastOpenReport().IndexRebuilt)

	st := reopened.State()
	assert.Equal(t, uint64(1), st.FirstSeqnum)
	assert.Equal(t, uint64(3), st.LastSeqnum)

	entries, err := reopened.Read(1, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []byte("a"), entries[0].Data)
	assert.Equal(t, []byte("ccc"), entries[2].Data)
}

func TestReadDetectsCorruptedChecksum(t *testing.T) {
	dir := t.TempDir()
	e := openTestEngine(t, dir, "store", false)

	_, err := e.Append([]Entry{
		{Seqnum: 1, Timestamp: 10, Data: []byte("a")},
		{Seqnum: 2, Timestamp: 20, Data: []byte("bbbb")},
	})
	require.NoError(t, err)
	require.NoError(t, e.Close())

	// Flip a byte inside the second record's data payload, past the first
	// record and the second record's header, corrupting its checksum.
	path := filepath.Join(dir, "store.dat")
	f, err := os.OpenFile(path, os.O_RDWR, 0644)
	require.NoError(t, err)
	firstRecSize := int64(codec.RecordHeaderSize + 1)
	corruptOffset := int64(codec.DataHeaderSize) + firstRecSize + int64(codec.RecordHeaderSize)
	_, err = f.WriteAt([]byte{'X'}, corruptOffset)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	reopened := openTestEngine(t, dir, "store", false)
	defer reopened.Close()

	_, err = reopened.Read(2, 1)
	assert.Equal(t, errors.CodeChecksum, errors.GetCode(err))
}

func TestCloseIsIdempotentAndBlocksFurtherUse(t *testing.T) {
	dir := t.TempDir()
	e := openTestEngine(t, dir, "store", false)

	require.NoError(t, e.Close())
	assert.Equal(t, ErrEngineClosed, e.Close())

	_, err := e.Append([]Entry{{Data: []byte("x")}})
	assert.Equal(t, ErrEngineClosed, err)
}

func TestMilestonePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	e := openTestEngine(t, dir, "store", false)

	_, err := e.Append([]Entry{{Seqnum: 1, Timestamp: 10, Data: []byte("a")}})
	require.NoError(t, err)
	require.NoError(t, e.UpdateMilestone(9000))
	require.NoError(t, e.Close())

	reopened := openTestEngine(t, dir, "store", false)
	defer reopened.Close()
	assert.Equal(t, uint64(9000), reopened.Milestone())
}
