package engine

import (
	"github.com/iamNilotpal/seqlog/internal/codec"
	"github.com/iamNilotpal/seqlog/internal/filepair"
	"github.com/iamNilotpal/seqlog/internal/tailutil"
	"github.com/iamNilotpal/seqlog/pkg/errors"
)

// Rollback implements spec.md §4.10: removes every record with
// seqnum > threshold, returning the count removed. The order of operations
// (index zeroise and flush, then state update, then data zeroise) is
// preserved exactly as specified so a crash mid-rollback always leaves a
// store a subsequent open can recover to either the pre- or
// post-rollback invariant set.
func (e *Engine) Rollback(threshold uint64) (uint64, error) {
	if err := e.checkOpen(); err != nil {
		return 0, err
	}

	e.gate.File.Lock()
	defer e.gate.File.Unlock()

	st := e.snapshotState()
	if st.Empty() || st.LastSeqnum <= threshold {
		return 0, nil
	}

	floor := threshold
	if st.FirstSeqnum > 0 && st.FirstSeqnum-1 > floor {
		floor = st.FirstSeqnum - 1
	}
	removed := st.LastSeqnum - floor

	becomesEmpty := threshold < st.FirstSeqnum

	var newLastTimestamp uint64
	var newDataEnd int64
	if !becomesEmpty {
		lastIdxOffset := codec.IndexOffset(st.FirstSeqnum, threshold)
		buf := make([]byte, codec.IndexRecordSize)
		if _, err := e.pair.Idx.ReadAt(lastIdxOffset, buf); err != nil {
			return 0, errors.ClassifyIOError(err, e.name+".idx", filepair.IdxPath(e.directory, e.name), lastIdxOffset, true, false)
		}
		lastRec, err := codec.DecodeIndexRecord(buf)
		if err != nil {
			return 0, errors.NewEngineError(err, errors.CodeFmtIdx, "malformed index record").WithSeqnum(threshold)
		}
		newLastTimestamp = lastRec.Timestamp

		nextIdxOffset := codec.IndexOffset(st.FirstSeqnum, threshold+1)
		nextBuf := make([]byte, codec.IndexRecordSize)
		if _, err := e.pair.Idx.ReadAt(nextIdxOffset, nextBuf); err != nil {
			return 0, errors.ClassifyIOError(err, e.name+".idx", filepair.IdxPath(e.directory, e.name), nextIdxOffset, true, false)
		}
		nextRec, err := codec.DecodeIndexRecord(nextBuf)
		if err != nil {
			return 0, errors.NewEngineError(err, errors.CodeFmtIdx, "malformed index record").WithSeqnum(threshold + 1)
		}
		newDataEnd = nextRec.Offset
	} else {
		newDataEnd = int64(codec.DataHeaderSize)
	}

	suffixOffset := codec.IndexOffset(st.FirstSeqnum, threshold+1)
	if becomesEmpty {
		suffixOffset = int64(codec.IndexHeaderSize)
	}
	if err := tailutil.Zeroise(e.pair.Idx, suffixOffset); err != nil {
		return 0, errors.ClassifyIOError(err, e.name+".idx", filepair.IdxPath(e.directory, e.name), suffixOffset, true, true)
	}
	if err := e.pair.Idx.Flush(); err != nil {
		return 0, errors.ClassifyIOError(err, e.name+".idx", filepair.IdxPath(e.directory, e.name), suffixOffset, true, true)
	}

	e.gate.Data.Lock()
	if becomesEmpty {
		e.state.FirstSeqnum = 0
		e.state.FirstTimestamp = 0
		e.state.LastSeqnum = 0
		e.state.LastTimestamp = 0
		e.state.DataEnd = 0
	} else {
		e.state.LastSeqnum = threshold
		e.state.LastTimestamp = newLastTimestamp
		e.state.DataEnd = newDataEnd
	}
	e.gate.Data.Unlock()

	if err := tailutil.Zeroise(e.pair.Dat, newDataEnd); err != nil {
		return 0, errors.ClassifyIOError(err, e.name+".dat", filepair.DatPath(e.directory, e.name), newDataEnd, false, true)
	}
	if e.options.FsyncOnAppend {
		if err := e.pair.Dat.Sync(); err != nil {
			return 0, errors.ClassifyIOError(err, e.name+".dat", filepair.DatPath(e.directory, e.name), newDataEnd, false, true)
		}
	}

	if e.metrics != nil {
		e.metrics.AddRollbackRecords(removed)
	}

	return removed, nil
}
