package engine

import (
	"github.com/iamNilotpal/seqlog/internal/codec"
	"github.com/iamNilotpal/seqlog/internal/filepair"
	"github.com/iamNilotpal/seqlog/pkg/errors"
)

// Read implements spec.md §4.7: returns up to capacity entries starting at
// startSeqnum, in ascending contiguous order. Returns NOT_FOUND if
// startSeqnum is 0, outside [first_seqnum, last_seqnum], or the store is
// empty.
func (e *Engine) Read(startSeqnum uint64, capacity int) ([]Entry, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}

	e.gate.File.RLock()
	defer e.gate.File.RUnlock()

	st := e.snapshotState()
	if startSeqnum == 0 || st.Empty() || !st.InRange(startSeqnum) {
		return nil, errors.NewNotFoundError("read")
	}

	entries := make([]Entry, 0, capacity)
	for i := 0; i < capacity; i++ {
		seqnum := startSeqnum + uint64(i)
		if seqnum > st.LastSeqnum {
			break
		}

		entry, err := e.readAt(st.FirstSeqnum, seqnum)
		if err != nil {
			return entries, err
		}
		entries = append(entries, entry)

		if e.metrics != nil {
			e.metrics.AddReadsServed(1)
		}
	}

	return entries, nil
}

// readAt reads and validates the single record for seqnum, given firstSeqnum
// to compute its index offset.
func (e *Engine) readAt(firstSeqnum, seqnum uint64) (Entry, error) {
	idxOffset := codec.IndexOffset(firstSeqnum, seqnum)
	idxBuf := make([]byte, codec.IndexRecordSize)
	if _, err := e.pair.Idx.ReadAt(idxOffset, idxBuf); err != nil {
		return Entry{}, errors.ClassifyIOError(err, e.name+".idx", filepair.IdxPath(e.directory, e.name), idxOffset, true, false)
	}
	idxRec, err := codec.DecodeIndexRecord(idxBuf)
	if err != nil {
		return Entry{}, errors.NewEngineError(err, errors.CodeFmtIdx, "malformed index record").WithSeqnum(seqnum)
	}

	hdrBuf := make([]byte, codec.RecordHeaderSize)
	if _, err := e.pair.Dat.ReadAt(idxRec.Offset, hdrBuf); err != nil {
		return Entry{}, errors.ClassifyIOError(err, e.name+".dat", filepair.DatPath(e.directory, e.name), idxRec.Offset, false, false)
	}
	hdr, err := codec.DecodeHeader(hdrBuf)
	if err != nil {
		return Entry{}, errors.NewEngineError(err, errors.CodeFmtDat, "malformed record header").WithSeqnum(seqnum)
	}

	payload := make([]byte, int(hdr.MetadataLen)+int(hdr.DataLen))
	if len(payload) > 0 {
		if _, err := e.pair.Dat.ReadAt(idxRec.Offset+int64(codec.RecordHeaderSize), payload); err != nil {
			return Entry{}, errors.ClassifyIOError(err, e.name+".dat", filepair.DatPath(e.directory, e.name), idxRec.Offset, false, false)
		}
	}
	metadata := payload[:hdr.MetadataLen]
	data := payload[hdr.MetadataLen:]
	if hdr.MetadataLen == 0 {
		metadata = nil
	}
	if hdr.DataLen == 0 {
		data = nil
	}

	if codec.ComputeChecksum(hdr, metadata, data) != hdr.Checksum {
		if e.metrics != nil {
			e.metrics.IncChecksumFailure()
		}
		return Entry{}, errors.NewChecksumError(filepair.DatPath(e.directory, e.name), seqnum, idxRec.Offset)
	}

	return Entry{Seqnum: hdr.Seqnum, Timestamp: hdr.Timestamp, Metadata: metadata, Data: data}, nil
}
