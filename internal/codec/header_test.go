package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataHeaderRoundTrip(t *testing.T) {
	h := NewDataHeader()
	h.Milestone = 55

	buf := h.Encode()
	require.Len(t, buf, DataHeaderSize)

	got, err := DecodeDataHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestDecodeDataHeaderBadMagic(t *testing.T) {
	h := NewDataHeader()
	buf := h.Encode()
	buf[0] ^= 0xFF

	_, err := DecodeDataHeader(buf)
	assert.Error(t, err)
}

func TestDecodeDataHeaderBadVersion(t *testing.T) {
	h := NewDataHeader()
	h.Version = FormatVersion + 1
	buf := h.Encode()

	_, err := DecodeDataHeader(buf)
	assert.Error(t, err)
}

func TestIndexHeaderRoundTrip(t *testing.T) {
	h := NewIndexHeader()
	buf := h.Encode()
	require.Len(t, buf, IndexHeaderSize)

	got, err := DecodeIndexHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestSameFormat(t *testing.T) {
	d := NewDataHeader()
	idx := NewIndexHeader()
	assert.True(t, SameFormat(d, idx))

	idx.Version = FormatVersion + 1
	assert.False(t, SameFormat(d, idx))
}

func TestIsZero(t *testing.T) {
	assert.True(t, IsZero(make([]byte, 16)))
	buf := make([]byte, 16)
	buf[10] = 1
	assert.False(t, IsZero(buf))
}
