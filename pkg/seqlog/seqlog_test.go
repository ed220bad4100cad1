package seqlog_test

import (
	"testing"

	"github.com/iamNilotpal/seqlog/pkg/options"
	"github.com/iamNilotpal/seqlog/pkg/seqlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, dir string) *seqlog.Store {
	t.Helper()
	n := uint64(0)
	clock := func() uint64 {
		n++
		return n
	}
	s, err := seqlog.Open("seqlog-test",
		options.WithDirectory(dir),
		options.WithName("store"),
		options.WithClock(clock),
	)
	require.NoError(t, err)
	return s
}

func TestOpenAppendReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := openStore(t, dir)
	defer s.Close()

	n, err := s.Append([]seqlog.Entry{
		{Data: []byte("one")},
		{Data: []byte("two")},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, uint64(2), s.Count())
	assert.Equal(t, uint64(1), s.FirstSeqnum())
	assert.Equal(t, uint64(2), s.LastSeqnum())

	entries, err := s.Read(1, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, []byte("one"), entries[0].Data)
	assert.Equal(t, []byte("two"), entries[1].Data)
}

func TestStoreSearchAndStat(t *testing.T) {
	dir := t.TempDir()
	s := openStore(t, dir)
	defer s.Close()

	_, err := s.Append([]seqlog.Entry{
		{Seqnum: 1, Timestamp: 10, Data: []byte("a")},
		{Seqnum: 2, Timestamp: 20, Data: []byte("b")},
	})
	require.NoError(t, err)

	sn, err := s.Search(15, seqlog.SearchLower)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), sn)

	stats, err := s.Stat(1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), stats.NumEntries)
}

func TestStoreRollbackPurgeMilestone(t *testing.T) {
	dir := t.TempDir()
	s := openStore(t, dir)
	defer s.Close()

	_, err := s.Append([]seqlog.Entry{
		{Seqnum: 1, Timestamp: 10, Data: []byte("a")},
		{Seqnum: 2, Timestamp: 20, Data: []byte("b")},
		{Seqnum: 3, Timestamp: 30, Data: []byte("c")},
	})
	require.NoError(t, err)

	require.NoError(t, s.UpdateMilestone(5))
	assert.Equal(t, uint64(5), s.Milestone())

	removed, err := s.Rollback(2)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), removed)
	assert.Equal(t, uint64(2), s.LastSeqnum())

	removed, err = s.Purge(2)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), removed)
	assert.Equal(t, uint64(2), s.FirstSeqnum())
}

func TestLastOpenReportReflectsFreshStore(t *testing.T) {
	dir := t.TempDir()
	s := openStore(t, dir)
	defer s.Close()

	report := s.LastOpenReport()
	assert.True(t, report.DataFileCreated)
	assert.True(t, report.IndexFileCreated)
}
