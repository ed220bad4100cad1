package codec

import (
	"encoding/binary"
	"fmt"
)

// RecordHeaderSize is the fixed size of a data record's header:
// seqnum(8) + timestamp(8) + metadataLen(4) + dataLen(4) + checksum(4).
const RecordHeaderSize = 8 + 8 + 4 + 4 + 4

// RecordHeader is the decoded form of a data record's fixed header.
type RecordHeader struct {
	Seqnum      uint64
	Timestamp   uint64
	MetadataLen uint32
	DataLen     uint32
	Checksum    uint32
}

// Size returns the total on-disk size of the record this header describes:
// header + metadata + data.
func (h RecordHeader) Size() int64 {
	return int64(RecordHeaderSize) + int64(h.MetadataLen) + int64(h.DataLen)
}

// EncodeHeaderFields serializes every RecordHeader field except Checksum,
// in the order the checksum covers them (spec.md §6): seqnum, timestamp,
// metadataLen, dataLen.
func EncodeHeaderFields(h RecordHeader) []byte {
	buf := make([]byte, RecordHeaderSize-4)
	binary.LittleEndian.PutUint64(buf[0:8], h.Seqnum)
	binary.LittleEndian.PutUint64(buf[8:16], h.Timestamp)
	binary.LittleEndian.PutUint32(buf[16:20], h.MetadataLen)
	binary.LittleEndian.PutUint32(buf[20:24], h.DataLen)
	return buf
}

// EncodeHeader serializes a full RecordHeader, including the checksum field,
// into exactly RecordHeaderSize bytes.
func EncodeHeader(h RecordHeader) []byte {
	buf := make([]byte, RecordHeaderSize)
	copy(buf[0:RecordHeaderSize-4], EncodeHeaderFields(h))
	binary.LittleEndian.PutUint32(buf[RecordHeaderSize-4:], h.Checksum)
	return buf
}

// DecodeHeader parses a RecordHeaderSize-byte buffer into a RecordHeader.
func DecodeHeader(buf []byte) (RecordHeader, error) {
	var h RecordHeader
	if len(buf) < RecordHeaderSize {
		return h, fmt.Errorf("record header buffer too short: got %d, want %d", len(buf), RecordHeaderSize)
	}
	h.Seqnum = binary.LittleEndian.Uint64(buf[0:8])
	h.Timestamp = binary.LittleEndian.Uint64(buf[8:16])
	h.MetadataLen = binary.LittleEndian.Uint32(buf[16:20])
	h.DataLen = binary.LittleEndian.Uint32(buf[20:24])
	h.Checksum = binary.LittleEndian.Uint32(buf[24:28])
	return h, nil
}

// ComputeChecksum computes the CRC-32 covering the header fields (excluding
// the checksum field itself), then metadata, then data — in that order, as
// spec.md §6 requires — using the incremental composition so the three
// slices never need to be concatenated into one buffer.
func ComputeChecksum(h RecordHeader, metadata, data []byte) uint32 {
	crc := Checksum(EncodeHeaderFields(h))
	crc = UpdateChecksum(crc, metadata)
	crc = UpdateChecksum(crc, data)
	return crc
}

// IndexRecordSize is the fixed size of an index record:
// seqnum(8) + timestamp(8) + offset(8).
const IndexRecordSize = 8 + 8 + 8

// IndexRecord is the decoded form of an index record.
type IndexRecord struct {
	Seqnum    uint64
	Timestamp uint64
	Offset    int64
}

// EncodeIndexRecord serializes an IndexRecord into exactly IndexRecordSize bytes.
func EncodeIndexRecord(r IndexRecord) []byte {
	buf := make([]byte, IndexRecordSize)
	binary.LittleEndian.PutUint64(buf[0:8], r.Seqnum)
	binary.LittleEndian.PutUint64(buf[8:16], r.Timestamp)
	binary.LittleEndian.PutUint64(buf[16:24], uint64(r.Offset))
	return buf
}

// DecodeIndexRecord parses an IndexRecordSize-byte buffer into an IndexRecord.
func DecodeIndexRecord(buf []byte) (IndexRecord, error) {
	var r IndexRecord
	if len(buf) < IndexRecordSize {
		return r, fmt.Errorf("index record buffer too short: got %d, want %d", len(buf), IndexRecordSize)
	}
	r.Seqnum = binary.LittleEndian.Uint64(buf[0:8])
	r.Timestamp = binary.LittleEndian.Uint64(buf[8:16])
	r.Offset = int64(binary.LittleEndian.Uint64(buf[16:24]))
	return r, nil
}

// IndexOffset returns the byte offset within the index file of the record
// for seqnum s, given the store's first_seqnum (spec.md §6).
func IndexOffset(firstSeqnum, s uint64) int64 {
	return int64(IndexHeaderSize) + int64(s-firstSeqnum)*IndexRecordSize
}
