package engine

import (
	"github.com/iamNilotpal/seqlog/internal/codec"
	"github.com/iamNilotpal/seqlog/internal/filepair"
	"github.com/iamNilotpal/seqlog/pkg/errors"
)

// Stats is the result of a range-statistics query: entry count and the
// on-disk bytes the range occupies in each file.
type Stats struct {
	NumEntries uint64
	IndexSize  int64
	DataSize   int64
}

// Stat implements spec.md §4.9: clamps [a, b] to [first_seqnum, last_seqnum]
// and computes entry count, index size, and data size for the intersection.
// An empty intersection returns a zero Stats with no error.
func (e *Engine) Stat(a, b uint64) (Stats, error) {
	if err := e.checkOpen(); err != nil {
		return Stats{}, err
	}

	e.gate.File.RLock()
	defer e.gate.File.RUnlock()

	st := e.snapshotState()
	if st.Empty() || a > b {
		return Stats{}, nil
	}

	if a < st.FirstSeqnum {
		a = st.FirstSeqnum
	}
	if b > st.LastSeqnum {
		b = st.LastSeqnum
	}
	if a > b {
		return Stats{}, nil
	}

	offsetA, err := e.offsetAt(st.FirstSeqnum, a)
	if err != nil {
		return Stats{}, err
	}
	offsetB, err := e.offsetAt(st.FirstSeqnum, b)
	if err != nil {
		return Stats{}, err
	}

	hdrBuf := make([]byte, codec.RecordHeaderSize)
	if _, err := e.pair.Dat.ReadAt(offsetB, hdrBuf); err != nil {
		return Stats{}, errors.ClassifyIOError(err, e.name+".dat", filepair.DatPath(e.directory, e.name), offsetB, false, false)
	}
	hdrB, err := codec.DecodeHeader(hdrBuf)
	if err != nil {
		return Stats{}, errors.NewEngineError(err, errors.CodeFmtDat, "malformed record header").WithSeqnum(b)
	}

	numEntries := b - a + 1
	return Stats{
		NumEntries: numEntries,
		IndexSize:  int64(numEntries) * int64(codec.IndexRecordSize),
		DataSize:   offsetB - offsetA + hdrB.Size(),
	}, nil
}

func (e *Engine) offsetAt(firstSeqnum, seqnum uint64) (int64, error) {
	offset := codec.IndexOffset(firstSeqnum, seqnum)
	buf := make([]byte, codec.IndexRecordSize)
	if _, err := e.pair.Idx.ReadAt(offset, buf); err != nil {
		return 0, errors.ClassifyIOError(err, e.name+".idx", filepair.IdxPath(e.directory, e.name), offset, true, false)
	}
	rec, err := codec.DecodeIndexRecord(buf)
	if err != nil {
		return 0, errors.NewEngineError(err, errors.CodeFmtIdx, "malformed index record").WithSeqnum(seqnum)
	}
	return rec.Offset, nil
}
