package engine

import (
	"os"

	"github.com/iamNilotpal/seqlog/internal/codec"
	"github.com/iamNilotpal/seqlog/internal/filepair"
	"github.com/iamNilotpal/seqlog/internal/recovery"
	"github.com/iamNilotpal/seqlog/internal/state"
	"github.com/iamNilotpal/seqlog/internal/tailutil"
	"github.com/iamNilotpal/seqlog/pkg/errors"
)

// Purge implements spec.md §4.11: removes every record with
// seqnum < threshold, returning the count removed. A prefix purge is
// expensive because it rewrites the data file via a temporary file and an
// atomic rename; the milestone is preserved across that rewrite. When
// threshold is above the last seqnum, both files are removed and recreated
// empty instead, and the milestone is reset to 0.
func (e *Engine) Purge(threshold uint64) (uint64, error) {
	if err := e.checkOpen(); err != nil {
		return 0, err
	}

	e.gate.File.Lock()
	defer e.gate.File.Unlock()

	st := e.snapshotState()
	if st.Empty() || threshold <= st.FirstSeqnum {
		return 0, nil
	}

	if threshold > st.LastSeqnum {
		return e.purgeEverything(st)
	}

	return e.purgePrefix(st, threshold)
}

// purgeEverything implements spec.md §4.11 step 2: the entire store is
// purged when threshold exceeds last_seqnum.
func (e *Engine) purgeEverything(st state.State) (uint64, error) {
	removed := st.LastSeqnum - st.FirstSeqnum + 1
	directory, name := e.directory, e.name

	if err := e.pair.Close(); err != nil {
		return 0, errors.ClassifyIOError(err, name, directory, 0, false, false)
	}

	if err := os.Remove(filepair.DatPath(directory, name)); err != nil && !os.IsNotExist(err) {
		return 0, errors.NewEngineError(err, errors.CodeTempFile, "failed to remove purged data file").WithPath(directory)
	}
	if err := filepair.RemoveIdx(directory, name); err != nil {
		return 0, errors.NewEngineError(err, errors.CodeTempFile, "failed to remove purged index file").WithPath(directory)
	}

	return removed, e.reopen(directory, name)
}

// purgePrefix implements spec.md §4.11 steps 3-6: rewrite the data file
// through a temp file, keeping only [threshold, last_seqnum], then drop the
// old index and let recovery rebuild it.
func (e *Engine) purgePrefix(st state.State, threshold uint64) (uint64, error) {
	removed := threshold - st.FirstSeqnum
	directory, name := e.directory, e.name

	thresholdOffset, err := e.offsetAt(st.FirstSeqnum, threshold)
	if err != nil {
		return 0, err
	}

	hdrBuf := make([]byte, codec.RecordHeaderSize)
	if _, err := e.pair.Dat.ReadAt(thresholdOffset, hdrBuf); err != nil {
		return 0, errors.ClassifyIOError(err, name+".dat", filepair.DatPath(directory, name), thresholdOffset, false, false)
	}
	hdr, err := codec.DecodeHeader(hdrBuf)
	if err != nil || hdr.Seqnum != threshold {
		return 0, errors.NewEngineError(err, errors.CodeFmtDat, "threshold record does not match index").WithSeqnum(threshold)
	}

	tmpPath := filepair.TmpPath(directory, name)
	if exists, err := filepair.Exists(tmpPath); err != nil {
		return 0, errors.NewEngineError(err, errors.CodeTempFile, "failed to stat temp file").WithPath(tmpPath)
	} else if exists {
		return 0, errors.NewEngineError(nil, errors.CodeTempFile, "temp file already exists").WithPath(tmpPath)
	}

	tmp, err := filepair.Open(tmpPath, 0644)
	if err != nil {
		return 0, errors.NewEngineError(err, errors.CodeTempFile, "failed to create temp file").WithPath(tmpPath)
	}

	newHeader := codec.NewDataHeader()
	newHeader.Milestone = st.Milestone
	if _, err := tmp.WriteAt(0, newHeader.Encode()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return 0, errors.NewEngineError(err, errors.CodeTempFile, "failed to write temp file header").WithPath(tmpPath)
	}

	if err := tailutil.BoundedCopy(tmp, e.pair.Dat, thresholdOffset, st.DataEnd, int64(codec.DataHeaderSize)); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return 0, errors.NewEngineError(err, errors.CodeTempFile, "failed to copy records into temp file").WithPath(tmpPath)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, errors.NewEngineError(err, errors.CodeTempFile, "failed to close temp file").WithPath(tmpPath)
	}

	if err := e.pair.Close(); err != nil {
		return 0, errors.ClassifyIOError(err, name, directory, 0, false, false)
	}

	if err := filepair.RemoveIdx(directory, name); err != nil {
		return 0, errors.NewEngineError(err, errors.CodeTempFile, "failed to remove old index file").WithPath(directory)
	}

	if err := os.Rename(tmpPath, filepair.DatPath(directory, name)); err != nil {
		return 0, errors.NewEngineError(err, errors.CodeTempFile, "failed to rename temp file over data file").WithPath(tmpPath)
	}

	if err := e.reopen(directory, name); err != nil {
		return 0, err
	}

	if e.metrics != nil {
		e.metrics.AddPurgeRecords(removed)
	}

	return removed, nil
}

// reopen re-runs the opener without deep checking, per spec.md §4.11 steps
// 2/5: the rewritten or emptied files are trusted, and the opener rebuilds
// the index by walking the data file.
func (e *Engine) reopen(directory, name string) error {
	result, err := recovery.Open(directory, name, false, e.log, e.metrics)
	if err != nil {
		return err
	}
	e.pair = result.Pair
	e.state = result.State
	e.lastOpenReport = result.Report
	return nil
}
