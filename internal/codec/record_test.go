package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHeaderRoundTrip(t *testing.T) {
	h := RecordHeader{Seqnum: 7, Timestamp: 1000, MetadataLen: 3, DataLen: 5, Checksum: 0xDEADBEEF}

	buf := EncodeHeader(h)
	require.Len(t, buf, RecordHeaderSize)

	got, err := DecodeHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestDecodeHeaderShortBuffer(t *testing.T) {
	_, err := DecodeHeader(make([]byte, RecordHeaderSize-1))
	assert.Error(t, err)
}

func TestComputeChecksumDeterministic(t *testing.T) {
	h := RecordHeader{Seqnum: 1, Timestamp: 2, MetadataLen: 2, DataLen: 2}
	meta := []byte("md")
	data := []byte("dd")

	c1 := ComputeChecksum(h, meta, data)
	c2 := ComputeChecksum(h, meta, data)
	assert.Equal(t, c1, c2)

	h2 := h
	h2.Seqnum = 2
	c3 := ComputeChecksum(h2, meta, data)
	assert.NotEqual(t, c1, c3)
}

func TestIndexRecordRoundTrip(t *testing.T) {
	r := IndexRecord{Seqnum: 42, Timestamp: 99, Offset: 1234}
	buf := EncodeIndexRecord(r)
	require.Len(t, buf, IndexRecordSize)

	got, err := DecodeIndexRecord(buf)
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestIndexOffset(t *testing.T) {
	assert.Equal(t, int64(IndexHeaderSize), IndexOffset(10, 10))
	assert.Equal(t, int64(IndexHeaderSize)+int64(IndexRecordSize), IndexOffset(10, 11))
}

func TestRecordHeaderSize(t *testing.T) {
	h := RecordHeader{MetadataLen: 4, DataLen: 6}
	assert.Equal(t, int64(RecordHeaderSize+4+6), h.Size())
}
