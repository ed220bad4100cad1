package engine

import (
	"github.com/iamNilotpal/seqlog/internal/codec"
	"github.com/iamNilotpal/seqlog/internal/filepair"
	"github.com/iamNilotpal/seqlog/pkg/errors"
)

// SearchMode selects whether Search returns the smallest seqnum whose
// timestamp is >= the target (LOWER) or > the target (UPPER).
type SearchMode int

const (
	SearchLower SearchMode = iota
	SearchUpper
)

// Search implements spec.md §4.8: classical bisection over the index,
// bracketed by the cached first/last seqnum and timestamp. Because
// timestamps are only non-strictly monotonic, the bisection's raw endpoint
// may not be the mathematically smallest seqnum sharing that timestamp;
// per spec.md §9's open-question resolution this implementation walks
// backward afterward to find the true lower bound for LOWER mode.
func (e *Engine) Search(timestamp uint64, mode SearchMode) (uint64, error) {
	if err := e.checkOpen(); err != nil {
		return 0, err
	}

	e.gate.File.RLock()
	defer e.gate.File.RUnlock()

	st := e.snapshotState()
	if st.Empty() {
		return 0, errors.NewNotFoundError("search")
	}

	switch mode {
	case SearchLower:
		if timestamp > st.LastTimestamp {
			return 0, errors.NewNotFoundError("search")
		}
		if timestamp <= st.FirstTimestamp {
			return st.FirstSeqnum, nil
		}
	case SearchUpper:
		if timestamp >= st.LastTimestamp {
			return 0, errors.NewNotFoundError("search")
		}
		if timestamp < st.FirstTimestamp {
			return st.FirstSeqnum, nil
		}
	}

	sn1, ts1 := st.FirstSeqnum, st.FirstTimestamp
	sn2, ts2 := st.LastSeqnum, st.LastTimestamp

	for sn1+1 < sn2 && ts1 != ts2 {
		mid := sn1 + (sn2-sn1)/2
		midTs, err := e.timestampAt(st.FirstSeqnum, mid)
		if err != nil {
			return 0, err
		}

		switch {
		case midTs < timestamp:
			sn1, ts1 = mid, midTs
		case midTs > timestamp:
			sn2, ts2 = mid, midTs
		default:
			// midTs == timestamp: LOWER steers toward the lower index,
			// UPPER toward the higher, per spec.md §4.8.
			if mode == SearchLower {
				sn2, ts2 = mid, midTs
			} else {
				sn1, ts1 = mid, midTs
			}
		}
	}

	result := sn2
	if mode == SearchLower {
		for result > st.FirstSeqnum {
			prevTs, err := e.timestampAt(st.FirstSeqnum, result-1)
			if err != nil {
				return 0, err
			}
			if prevTs != ts2 {
				break
			}
			result--
		}
	}

	return result, nil
}

// timestampAt reads the timestamp of the index record for seqnum.
func (e *Engine) timestampAt(firstSeqnum, seqnum uint64) (uint64, error) {
	offset := codec.IndexOffset(firstSeqnum, seqnum)
	buf := make([]byte, codec.IndexRecordSize)
	if _, err := e.pair.Idx.ReadAt(offset, buf); err != nil {
		return 0, errors.ClassifyIOError(err, e.name+".idx", filepair.IdxPath(e.directory, e.name), offset, true, false)
	}
	rec, err := codec.DecodeIndexRecord(buf)
	if err != nil {
		return 0, errors.NewEngineError(err, errors.CodeFmtIdx, "malformed index record").WithSeqnum(seqnum)
	}
	return rec.Timestamp, nil
}
