// Package codec implements the fixed on-disk layouts spec.md §4.1 and §6
// describe: the data/index file headers, the per-record header, the index
// record, and the CRC-32 checksum those records carry. Every multi-byte
// field is little-endian (spec.md §4.1's chosen, documented endianness).
package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Magic is the 64-bit magic number both files begin with (spec.md §6).
const Magic uint64 = 0x211ABF1A62646C00

// FormatVersion is the current on-disk format version.
const FormatVersion uint32 = 1

// descBlobSize is the fixed length of the human-readable ASCII identification
// blob in both headers; a multiple of 8 for alignment, per spec.md §3.
const descBlobSize = 128

// DataHeaderSize is the total size in bytes of the data file's header:
// magic(8) + version(4) + description(128) + milestone(8).
const DataHeaderSize = 8 + 4 + descBlobSize + 8

// IndexHeaderSize is the total size in bytes of the index file's header:
// magic(8) + version(4) + description(128). No milestone field.
const IndexHeaderSize = 8 + 4 + descBlobSize

// dataDesc / indexDesc are the fixed identification blobs written into a
// freshly created file, used for file-command identification (spec.md §3).
var dataDesc = fixedASCII("seqlog data file")
var indexDesc = fixedASCII("seqlog index file")

func fixedASCII(s string) [descBlobSize]byte {
	var b [descBlobSize]byte
	copy(b[:], s)
	return b
}

// DataHeader is the decoded form of the data file's fixed header.
type DataHeader struct {
	Magic     uint64
	Version   uint32
	Desc      [descBlobSize]byte
	Milestone uint64
}

// IndexHeader is the decoded form of the index file's fixed header.
type IndexHeader struct {
	Magic   uint64
	Version uint32
	Desc    [descBlobSize]byte
}

// NewDataHeader returns a freshly initialized data header with milestone 0.
func NewDataHeader() DataHeader {
	return DataHeader{Magic: Magic, Version: FormatVersion, Desc: dataDesc}
}

// NewIndexHeader returns a freshly initialized index header.
func NewIndexHeader() IndexHeader {
	return IndexHeader{Magic: Magic, Version: FormatVersion, Desc: indexDesc}
}

// Encode serializes the data header into exactly DataHeaderSize bytes.
func (h DataHeader) Encode() []byte {
	buf := make([]byte, DataHeaderSize)
	binary.LittleEndian.PutUint64(buf[0:8], h.Magic)
	binary.LittleEndian.PutUint32(buf[8:12], h.Version)
	copy(buf[12:12+descBlobSize], h.Desc[:])
	binary.LittleEndian.PutUint64(buf[12+descBlobSize:], h.Milestone)
	return buf
}

// DecodeDataHeader parses a DataHeaderSize-byte buffer into a DataHeader,
// validating the magic number and format version.
func DecodeDataHeader(buf []byte) (DataHeader, error) {
	var h DataHeader
	if len(buf) < DataHeaderSize {
		return h, fmt.Errorf("data header buffer too short: got %d, want %d", len(buf), DataHeaderSize)
	}
	h.Magic = binary.LittleEndian.Uint64(buf[0:8])
	h.Version = binary.LittleEndian.Uint32(buf[8:12])
	copy(h.Desc[:], buf[12:12+descBlobSize])
	h.Milestone = binary.LittleEndian.Uint64(buf[12+descBlobSize:])

	if h.Magic != Magic {
		return h, fmt.Errorf("bad data file magic: got %#x, want %#x", h.Magic, Magic)
	}
	if h.Version != FormatVersion {
		return h, fmt.Errorf("unsupported data file format version: got %d, want %d", h.Version, FormatVersion)
	}
	return h, nil
}

// Encode serializes the index header into exactly IndexHeaderSize bytes.
func (h IndexHeader) Encode() []byte {
	buf := make([]byte, IndexHeaderSize)
	binary.LittleEndian.PutUint64(buf[0:8], h.Magic)
	binary.LittleEndian.PutUint32(buf[8:12], h.Version)
	copy(buf[12:12+descBlobSize], h.Desc[:])
	return buf
}

// DecodeIndexHeader parses an IndexHeaderSize-byte buffer into an
// IndexHeader, validating the magic number and format version.
func DecodeIndexHeader(buf []byte) (IndexHeader, error) {
	var h IndexHeader
	if len(buf) < IndexHeaderSize {
		return h, fmt.Errorf("index header buffer too short: got %d, want %d", len(buf), IndexHeaderSize)
	}
	h.Magic = binary.LittleEndian.Uint64(buf[0:8])
	h.Version = binary.LittleEndian.Uint32(buf[8:12])
	copy(h.Desc[:], buf[12:12+descBlobSize])

	if h.Magic != Magic {
		return h, fmt.Errorf("bad index file magic: got %#x, want %#x", h.Magic, Magic)
	}
	if h.Version != FormatVersion {
		return h, fmt.Errorf("unsupported index file format version: got %d, want %d", h.Version, FormatVersion)
	}
	return h, nil
}

// SameFormat reports whether the data and index headers agree on version —
// spec.md §4.5 step 5 requires this cross-check on open.
func SameFormat(d DataHeader, idx IndexHeader) bool {
	return d.Version == idx.Version
}

// IsZero reports whether buf is entirely zero bytes, used by the tail
// utilities and opener to recognize untouched padding.
func IsZero(buf []byte) bool {
	return bytes.Count(buf, []byte{0}) == len(buf)
}
