// Package recovery implements the opener described in spec.md §4.5: the
// sequence of steps that turns a directory and a store name into an opened
// file pair plus a populated state.State, repairing whatever a prior crash
// left behind. Grounded in the teacher's internal/storage.New bootstrap
// (directory setup, then "discover existing state, decide what to do"), but
// replacing segment discovery with the single-file-pair walk-and-validate
// protocol the spec requires, and borrowing the torn-tail handling pattern
// from the write-ahead-log recovery walk in other_examples' journal.go.
package recovery

import (
	"fmt"
	"time"

	"github.com/iamNilotpal/seqlog/internal/codec"
	"github.com/iamNilotpal/seqlog/internal/filepair"
	"github.com/iamNilotpal/seqlog/internal/state"
	"github.com/iamNilotpal/seqlog/internal/tailutil"
	"github.com/iamNilotpal/seqlog/pkg/errors"
	"github.com/iamNilotpal/seqlog/pkg/metrics"
	"go.uber.org/zap"
)

// Report summarizes what the opener did, surfaced to callers via
// pkg/seqlog's LastOpenReport.
type Report struct {
	DataFileCreated  bool
	IndexFileCreated bool
	IndexRebuilt     bool
	TailZeroised     bool
	RepairedRecords  uint64
}

// Result is the outcome of a successful Open: the opened file pair, its
// recovered in-memory state, and a report of what repair work took place.
type Result struct {
	Pair   *filepair.Pair
	State  state.State
	Report Report
}

// Open runs spec.md §4.5's full opener protocol against directory/name and
// returns the opened pair and recovered state. On any failure it closes
// whatever files it had opened before returning, per spec.md §7's
// propagation policy ("any error that could leave the store in an
// indeterminate state SHALL close all files").
func Open(
	directory, name string,
	check bool,
	log *zap.SugaredLogger,
	mx *metrics.Collectors,
) (result *Result, err error) {
	start := time.Now()
	if err := filepair.Validate(directory, name); err != nil {
		return nil, err
	}

	res := &Result{}

	pair, err := step1OpenOrCreate(directory, name, res, log)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			pair.Close()
		}
	}()

	dataHeader, err := readDataHeader(pair.Dat, directory, name)
	if err != nil {
		return nil, err
	}

	st, firstRecordOffset, empty, err := step2FirstRecord(pair.Dat, directory, name)
	if err != nil {
		return nil, err
	}

	if !empty {
		if check {
			if err := step4WalkData(pair.Dat, directory, name, &st, firstRecordOffset, res); err != nil {
				return nil, err
			}
		}
	}

	idxHeader, err := readIndexHeader(pair.Idx, directory, name)
	if err != nil {
		if rebuildErr := rebuild(pair, directory, name, &st, res, log); rebuildErr != nil {
			return nil, rebuildErr
		}
	} else if !codec.SameFormat(dataHeader, idxHeader) {
		if rebuildErr := rebuild(pair, directory, name, &st, res, log); rebuildErr != nil {
			return nil, rebuildErr
		}
	} else {
		if err := verifyIndexAgainstData(pair, directory, name, &st, empty, check, res, log); err != nil {
			if rebuildErr := rebuild(pair, directory, name, &st, res, log); rebuildErr != nil {
				return nil, rebuildErr
			}
		}
	}

	st.Milestone = dataHeader.Milestone

	if err := appendMissingTailRecords(pair, directory, name, &st, res, log); err != nil {
		return nil, err
	}

	if mx != nil {
		mx.ObserveRecovery(time.Since(start).Seconds(), res.Report.IndexRebuilt || res.Report.TailZeroised)
	}

	return &Result{Pair: pair, State: st, Report: res.Report}, nil
}

// step1OpenOrCreate implements spec.md §4.5 step 1: build the two paths; if
// the data file does not exist, remove any stray index file before creating
// the data file; then ensure the index file exists.
func step1OpenOrCreate(directory, name string, res *Result, log *zap.SugaredLogger) (*filepair.Pair, error) {
	datExists, err := filepair.Exists(filepair.DatPath(directory, name))
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, filepair.DatPath(directory, name), name+".dat", false)
	}

	if !datExists {
		if err := filepair.RemoveIdx(directory, name); err != nil {
			return nil, errors.ClassifyFileOpenError(err, filepair.IdxPath(directory, name), name+".idx", true)
		}
	}

	dat, created, err := filepair.OpenOrCreateDat(directory, name)
	if err != nil {
		return nil, err
	}
	res.Report.DataFileCreated = created
	if created {
		log.Infow("created new data file", "directory", directory, "name", name)
	}

	idx, created, err := filepair.OpenOrCreateIdx(directory, name)
	if err != nil {
		dat.Close()
		return nil, err
	}
	res.Report.IndexFileCreated = created
	if created {
		log.Infow("created new index file", "directory", directory, "name", name)
	}

	return &filepair.Pair{Directory: directory, Name: name, Dat: dat, Idx: idx}, nil
}

func readDataHeader(dat *filepair.File, directory, name string) (codec.DataHeader, error) {
	buf := make([]byte, codec.DataHeaderSize)
	if _, err := dat.ReadAt(0, buf); err != nil {
		return codec.DataHeader{}, errors.ClassifyIOError(err, name+".dat", filepair.DatPath(directory, name), 0, false, false)
	}
	h, err := codec.DecodeDataHeader(buf)
	if err != nil {
		return codec.DataHeader{}, errors.NewEngineError(err, errors.CodeFmtDat, "invalid data file header").
			WithFileName(name + ".dat").WithPath(filepair.DatPath(directory, name))
	}
	return h, nil
}

func readIndexHeader(idx *filepair.File, directory, name string) (codec.IndexHeader, error) {
	buf := make([]byte, codec.IndexHeaderSize)
	if _, err := idx.ReadAt(0, buf); err != nil {
		return codec.IndexHeader{}, errors.ClassifyIOError(err, name+".idx", filepair.IdxPath(directory, name), 0, true, false)
	}
	h, err := codec.DecodeIndexHeader(buf)
	if err != nil {
		return codec.IndexHeader{}, errors.NewEngineError(err, errors.CodeFmtIdx, "invalid index file header").
			WithFileName(name + ".idx").WithPath(filepair.IdxPath(directory, name))
	}
	return h, nil
}

// step2FirstRecord implements spec.md §4.5 step 2: validate the first data
// record, if any, and report whether the store is empty.
func step2FirstRecord(dat *filepair.File, directory, name string) (st state.State, firstOffset int64, empty bool, err error) {
	size, err := dat.Size()
	if err != nil {
		return st, 0, false, errors.ClassifyIOError(err, name+".dat", filepair.DatPath(directory, name), 0, false, false)
	}

	firstOffset = int64(codec.DataHeaderSize)
	if size == firstOffset {
		return st, firstOffset, true, nil
	}

	if size < firstOffset+int64(codec.RecordHeaderSize) {
		if err := tailutil.Zeroise(dat, firstOffset); err != nil {
			return st, firstOffset, false, wrapDatIO(err, directory, name, firstOffset)
		}
		return st, firstOffset, true, nil
	}

	hdrBuf := make([]byte, codec.RecordHeaderSize)
	if _, err := dat.ReadAt(firstOffset, hdrBuf); err != nil {
		return st, firstOffset, false, errors.ClassifyIOError(err, name+".dat", filepair.DatPath(directory, name), firstOffset, false, false)
	}
	hdr, err := codec.DecodeHeader(hdrBuf)
	if err != nil {
		return st, firstOffset, false, errors.NewEngineError(err, errors.CodeFmtDat, "malformed first record header").
			WithFileName(name + ".dat").WithOffset(firstOffset)
	}

	recSize := hdr.Size()
	if firstOffset+recSize > size || hdr.Seqnum == 0 {
		if err := tailutil.Zeroise(dat, firstOffset); err != nil {
			return st, firstOffset, false, wrapDatIO(err, directory, name, firstOffset)
		}
		return st, firstOffset, true, nil
	}

	metadata := make([]byte, hdr.MetadataLen)
	data := make([]byte, hdr.DataLen)
	if hdr.MetadataLen > 0 {
		if _, err := dat.ReadAt(firstOffset+int64(codec.RecordHeaderSize), metadata); err != nil {
			return st, firstOffset, false, errors.ClassifyIOError(err, name+".dat", filepair.DatPath(directory, name), firstOffset, false, false)
		}
	}
	if hdr.DataLen > 0 {
		if _, err := dat.ReadAt(firstOffset+int64(codec.RecordHeaderSize)+int64(hdr.MetadataLen), data); err != nil {
			return st, firstOffset, false, errors.ClassifyIOError(err, name+".dat", filepair.DatPath(directory, name), firstOffset, false, false)
		}
	}

	if codec.ComputeChecksum(hdr, metadata, data) != hdr.Checksum {
		if err := tailutil.Zeroise(dat, firstOffset); err != nil {
			return st, firstOffset, false, wrapDatIO(err, directory, name, firstOffset)
		}
		return st, firstOffset, true, nil
	}

	st.FirstSeqnum = hdr.Seqnum
	st.FirstTimestamp = hdr.Timestamp
	st.LastSeqnum = hdr.Seqnum
	st.LastTimestamp = hdr.Timestamp
	st.DataEnd = firstOffset + recSize
	return st, firstOffset, false, nil
}

func wrapDatIO(err error, directory, name string, offset int64) error {
	return errors.ClassifyIOError(err, name+".dat", filepair.DatPath(directory, name), offset, false, true)
}

// step4WalkData implements spec.md §4.5 step 4: walk data records from the
// second onward, verifying checksum, sequence continuity, and timestamp
// monotonicity. A short or ill-formed tail record is zeroised and ends the
// walk; a hard violation on an otherwise well-sized record is fatal.
func step4WalkData(dat *filepair.File, directory, name string, st *state.State, firstOffset int64, res *Result) error {
	size, err := dat.Size()
	if err != nil {
		return wrapDatIO(err, directory, name, 0)
	}

	offset := st.DataEnd
	for offset < size {
		if offset+int64(codec.RecordHeaderSize) > size {
			if err := tailutil.Zeroise(dat, offset); err != nil {
				return wrapDatIO(err, directory, name, offset)
			}
			res.Report.TailZeroised = true
			break
		}

		hdrBuf := make([]byte, codec.RecordHeaderSize)
		if _, err := dat.ReadAt(offset, hdrBuf); err != nil {
			return errors.ClassifyIOError(err, name+".dat", filepair.DatPath(directory, name), offset, false, false)
		}
		hdr, decErr := codec.DecodeHeader(hdrBuf)
		if decErr != nil || hdr.Seqnum == 0 {
			if err := tailutil.Zeroise(dat, offset); err != nil {
				return wrapDatIO(err, directory, name, offset)
			}
			res.Report.TailZeroised = true
			break
		}

		recSize := hdr.Size()
		if offset+recSize > size {
			if err := tailutil.Zeroise(dat, offset); err != nil {
				return wrapDatIO(err, directory, name, offset)
			}
			res.Report.TailZeroised = true
			break
		}

		metadata := make([]byte, hdr.MetadataLen)
		data := make([]byte, hdr.DataLen)
		if hdr.MetadataLen > 0 {
			if _, err := dat.ReadAt(offset+int64(codec.RecordHeaderSize), metadata); err != nil {
				return errors.ClassifyIOError(err, name+".dat", filepair.DatPath(directory, name), offset, false, false)
			}
		}
		if hdr.DataLen > 0 {
			if _, err := dat.ReadAt(offset+int64(codec.RecordHeaderSize)+int64(hdr.MetadataLen), data); err != nil {
				return errors.ClassifyIOError(err, name+".dat", filepair.DatPath(directory, name), offset, false, false)
			}
		}

		checksumOK := codec.ComputeChecksum(hdr, metadata, data) == hdr.Checksum
		seqOK := hdr.Seqnum == st.LastSeqnum+1
		tsOK := hdr.Timestamp >= st.LastTimestamp

		if !checksumOK {
			return errors.NewChecksumError(filepair.DatPath(directory, name), hdr.Seqnum, offset)
		}
		if !seqOK {
			return errors.NewBrokenSequenceError(st.LastSeqnum+1, hdr.Seqnum)
		}
		if !tsOK {
			return errors.NewInvalidTimestampError(st.LastTimestamp, hdr.Timestamp)
		}

		st.LastSeqnum = hdr.Seqnum
		st.LastTimestamp = hdr.Timestamp
		st.DataEnd = offset + recSize
		offset += recSize
	}

	return nil
}

// verifyIndexAgainstData implements spec.md §4.5 steps 6-10: read the first
// index record and compare it to the first data record, then either walk
// the whole index cross-validating against data (check = true) or locate
// the last non-zero index record by backward scan (check = false), then
// zeroise the index tail.
func verifyIndexAgainstData(
	pair *filepair.Pair,
	directory, name string,
	st *state.State,
	dataEmpty, check bool,
	res *Result,
	log *zap.SugaredLogger,
) error {
	idx := pair.Idx
	idxSize, err := idx.Size()
	if err != nil {
		return errors.ClassifyIOError(err, name+".idx", filepair.IdxPath(directory, name), 0, true, false)
	}

	firstIdxOffset := int64(codec.IndexHeaderSize)
	hasFirstIdx := idxSize >= firstIdxOffset+int64(codec.IndexRecordSize)

	if dataEmpty {
		return nil
	}

	if !hasFirstIdx {
		return errors.NewEngineError(nil, errors.CodeFmtIdx, "index has no first record but data is non-empty")
	}

	buf := make([]byte, codec.IndexRecordSize)
	if _, err := idx.ReadAt(firstIdxOffset, buf); err != nil {
		return errors.ClassifyIOError(err, name+".idx", filepair.IdxPath(directory, name), firstIdxOffset, true, false)
	}
	first, err := codec.DecodeIndexRecord(buf)
	if err != nil {
		return errors.NewEngineError(err, errors.CodeFmtIdx, "malformed first index record")
	}
	if first.Seqnum != st.FirstSeqnum || first.Timestamp != st.FirstTimestamp {
		return errors.NewEngineError(nil, errors.CodeFmtIdx, "first index record does not match first data record")
	}

	if check {
		return walkIndexForward(pair, directory, name, st, res)
	}
	return walkIndexBackward(pair, directory, name, st, res)
}

// walkIndexForward implements spec.md §4.5 step 7: walk index records,
// cross-validating against the data file; the first zero-seqnum index
// record ends the walk.
func walkIndexForward(pair *filepair.Pair, directory, name string, st *state.State, res *Result) error {
	idx := pair.Idx
	idxSize, err := idx.Size()
	if err != nil {
		return errors.ClassifyIOError(err, name+".idx", filepair.IdxPath(directory, name), 0, true, false)
	}

	lastGood := int64(codec.IndexHeaderSize)
	offset := int64(codec.IndexHeaderSize)
	buf := make([]byte, codec.IndexRecordSize)

	for offset+int64(codec.IndexRecordSize) <= idxSize {
		if _, err := idx.ReadAt(offset, buf); err != nil {
			return errors.ClassifyIOError(err, name+".idx", filepair.IdxPath(directory, name), offset, true, false)
		}
		rec, err := codec.DecodeIndexRecord(buf)
		if err != nil {
			return errors.NewEngineError(err, errors.CodeFmtIdx, "malformed index record").WithOffset(offset)
		}
		if rec.Seqnum == 0 {
			break
		}

		hdrBuf := make([]byte, codec.RecordHeaderSize)
		if _, err := pair.Dat.ReadAt(rec.Offset, hdrBuf); err != nil {
			return errors.NewEngineError(err, errors.CodeFmtIdx, "reading cross-check data record").WithOffset(rec.Offset)
		}
		hdr, err := codec.DecodeHeader(hdrBuf)
		if err != nil || hdr.Seqnum != rec.Seqnum || hdr.Timestamp != rec.Timestamp {
			return errors.NewEngineError(nil, errors.CodeFmtIdx, "index record does not match data record").
				WithOffset(rec.Offset).WithSeqnum(rec.Seqnum)
		}

		lastGood = offset + int64(codec.IndexRecordSize)
		offset += int64(codec.IndexRecordSize)
	}

	if lastGood < idxSize {
		if err := tailutil.Zeroise(idx, lastGood); err != nil {
			return errors.ClassifyIOError(err, name+".idx", filepair.IdxPath(directory, name), lastGood, true, true)
		}
		res.Report.TailZeroised = true
	}
	return nil
}

// walkIndexBackward implements spec.md §4.5 step 8: find the last non-zero
// index record by seeking to the file's end, backing off any partial
// trailing record, then scanning backwards.
func walkIndexBackward(pair *filepair.Pair, directory, name string, st *state.State, res *Result) error {
	idx := pair.Idx
	idxSize, err := idx.Size()
	if err != nil {
		return errors.ClassifyIOError(err, name+".idx", filepair.IdxPath(directory, name), 0, true, false)
	}

	recordsEnd := int64(codec.IndexHeaderSize) +
		((idxSize-int64(codec.IndexHeaderSize))/int64(codec.IndexRecordSize))*int64(codec.IndexRecordSize)

	buf := make([]byte, codec.IndexRecordSize)
	lastGood := int64(codec.IndexHeaderSize)

	for offset := recordsEnd - int64(codec.IndexRecordSize); offset >= int64(codec.IndexHeaderSize); offset -= int64(codec.IndexRecordSize) {
		if _, err := idx.ReadAt(offset, buf); err != nil {
			return errors.ClassifyIOError(err, name+".idx", filepair.IdxPath(directory, name), offset, true, false)
		}
		rec, err := codec.DecodeIndexRecord(buf)
		if err == nil && rec.Seqnum != 0 {
			lastGood = offset + int64(codec.IndexRecordSize)

			hdrBuf := make([]byte, codec.RecordHeaderSize)
			if _, err := pair.Dat.ReadAt(rec.Offset, hdrBuf); err != nil {
				return errors.ClassifyIOError(err, name+".dat", filepair.DatPath(directory, name), rec.Offset, false, false)
			}
			hdr, err := codec.DecodeHeader(hdrBuf)
			if err != nil || hdr.Seqnum != rec.Seqnum || hdr.Timestamp != rec.Timestamp {
				return errors.NewEngineError(nil, errors.CodeFmtIdx, "last index record does not match data record").
					WithOffset(rec.Offset).WithSeqnum(rec.Seqnum)
			}

			st.LastSeqnum = hdr.Seqnum
			st.LastTimestamp = hdr.Timestamp
			st.DataEnd = rec.Offset + hdr.Size()
			break
		}
	}

	if lastGood < idxSize {
		if err := tailutil.Zeroise(idx, lastGood); err != nil {
			return errors.ClassifyIOError(err, name+".idx", filepair.IdxPath(directory, name), lastGood, true, true)
		}
		res.Report.TailZeroised = true
	}
	return nil
}

// rebuild implements spec.md §4.5 step 12: on any index-level format error
// the opener removes the index file, recreates it from its header, and
// rebuilds it by walking the data file from the beginning.
func rebuild(pair *filepair.Pair, directory, name string, st *state.State, res *Result, log *zap.SugaredLogger) error {
	log.Infow("rebuilding index from data file", "directory", directory, "name", name)

	if err := pair.Idx.Close(); err != nil {
		return errors.ClassifyIOError(err, name+".idx", filepair.IdxPath(directory, name), 0, true, false)
	}
	if err := filepair.RemoveIdx(directory, name); err != nil {
		return errors.ClassifyFileOpenError(err, filepair.IdxPath(directory, name), name+".idx", true)
	}

	idx, _, err := filepair.OpenOrCreateIdx(directory, name)
	if err != nil {
		return err
	}
	pair.Idx = idx

	if err := rebuildIndexFromData(pair, directory, name, st, res); err != nil {
		return fmt.Errorf("rebuild index from data: %w", err)
	}

	res.Report.IndexRebuilt = true
	return nil
}

// rebuildIndexFromData walks the data file from its first record, appending
// one index record per valid data record. Used by rebuild (full rebuild
// after an index format error).
func rebuildIndexFromData(pair *filepair.Pair, directory, name string, st *state.State, res *Result) error {
	size, err := pair.Dat.Size()
	if err != nil {
		return wrapDatIO(err, directory, name, 0)
	}

	offset := int64(codec.DataHeaderSize)
	if offset >= size {
		return nil
	}

	var firstSeqnum, lastSeqnum, lastTimestamp uint64
	var lastEnd int64
	indexOffset := int64(codec.IndexHeaderSize)
	count := uint64(0)

	for offset < size {
		if offset+int64(codec.RecordHeaderSize) > size {
			break
		}
		hdrBuf := make([]byte, codec.RecordHeaderSize)
		if _, err := pair.Dat.ReadAt(offset, hdrBuf); err != nil {
			return wrapDatIO(err, directory, name, offset)
		}
		hdr, err := codec.DecodeHeader(hdrBuf)
		if err != nil {
			break
		}
		recSize := hdr.Size()
		if offset+recSize > size || hdr.Seqnum == 0 {
			break
		}

		if count == 0 {
			firstSeqnum = hdr.Seqnum
		}

		rec := codec.IndexRecord{Seqnum: hdr.Seqnum, Timestamp: hdr.Timestamp, Offset: offset}
		if _, err := pair.Idx.WriteAt(indexOffset, codec.EncodeIndexRecord(rec)); err != nil {
			return errors.ClassifyIOError(err, name+".idx", filepair.IdxPath(directory, name), indexOffset, true, true)
		}

		lastSeqnum = hdr.Seqnum
		lastTimestamp = hdr.Timestamp
		lastEnd = offset + recSize

		indexOffset += int64(codec.IndexRecordSize)
		offset += recSize
		count++
		res.Report.RepairedRecords++
	}

	if err := pair.Idx.Flush(); err != nil {
		return errors.ClassifyIOError(err, name+".idx", filepair.IdxPath(directory, name), indexOffset, true, true)
	}

	if count > 0 {
		st.FirstSeqnum = firstSeqnum
		st.LastSeqnum = lastSeqnum
		st.LastTimestamp = lastTimestamp
		st.DataEnd = lastEnd
	}
	return nil
}

// appendMissingTailRecords implements spec.md §4.5 steps 10-11: if the
// index is empty but the data file has a first record, or if the data file
// has records beyond the last indexed one (a crash between data flush and
// index flush), append the missing index records, then zeroise any torn
// data tail.
func appendMissingTailRecords(pair *filepair.Pair, directory, name string, st *state.State, res *Result, log *zap.SugaredLogger) error {
	if st.Empty() {
		return nil
	}

	idxSize, err := pair.Idx.Size()
	if err != nil {
		return errors.ClassifyIOError(err, name+".idx", filepair.IdxPath(directory, name), 0, true, false)
	}

	indexedCount := (idxSize - int64(codec.IndexHeaderSize)) / int64(codec.IndexRecordSize)
	if indexedCount < 0 {
		indexedCount = 0
	}

	// Slots zeroised by rollback or by an index tail repair keep the file
	// size; step back over them to the last non-zero index record.
	for indexedCount > 0 {
		off := int64(codec.IndexHeaderSize) + (indexedCount-1)*int64(codec.IndexRecordSize)
		buf := make([]byte, codec.IndexRecordSize)
		if _, err := pair.Idx.ReadAt(off, buf); err != nil {
			return errors.ClassifyIOError(err, name+".idx", filepair.IdxPath(directory, name), off, true, false)
		}
		if rec, _ := codec.DecodeIndexRecord(buf); rec.Seqnum != 0 {
			break
		}
		indexedCount--
	}

	var lastIndexedOffset int64
	var lastIndexedSeqnum uint64
	if indexedCount == 0 {
		lastIndexedOffset = int64(codec.DataHeaderSize)
		lastIndexedSeqnum = 0
	} else {
		lastRecOffset := int64(codec.IndexHeaderSize) + (indexedCount-1)*int64(codec.IndexRecordSize)
		buf := make([]byte, codec.IndexRecordSize)
		if _, err := pair.Idx.ReadAt(lastRecOffset, buf); err != nil {
			return errors.ClassifyIOError(err, name+".idx", filepair.IdxPath(directory, name), lastRecOffset, true, false)
		}
		rec, err := codec.DecodeIndexRecord(buf)
		if err != nil {
			return errors.NewEngineError(err, errors.CodeFmtIdx, "malformed last index record").WithOffset(lastRecOffset)
		}

		hdrBuf := make([]byte, codec.RecordHeaderSize)
		if _, err := pair.Dat.ReadAt(rec.Offset, hdrBuf); err != nil {
			return wrapDatIO(err, directory, name, rec.Offset)
		}
		hdr, err := codec.DecodeHeader(hdrBuf)
		if err != nil {
			return errors.NewEngineError(err, errors.CodeFmtDat, "malformed last indexed data record").WithOffset(rec.Offset)
		}
		lastIndexedOffset = rec.Offset + hdr.Size()
		lastIndexedSeqnum = rec.Seqnum
	}

	datSize, err := pair.Dat.Size()
	if err != nil {
		return wrapDatIO(err, directory, name, 0)
	}

	offset := lastIndexedOffset
	indexWriteOffset := int64(codec.IndexHeaderSize) + indexedCount*int64(codec.IndexRecordSize)
	expectedSeqnum := lastIndexedSeqnum

	for offset < datSize {
		if offset+int64(codec.RecordHeaderSize) > datSize {
			if err := tailutil.Zeroise(pair.Dat, offset); err != nil {
				return wrapDatIO(err, directory, name, offset)
			}
			res.Report.TailZeroised = true
			break
		}

		hdrBuf := make([]byte, codec.RecordHeaderSize)
		if _, err := pair.Dat.ReadAt(offset, hdrBuf); err != nil {
			return wrapDatIO(err, directory, name, offset)
		}
		hdr, decErr := codec.DecodeHeader(hdrBuf)
		recSize := hdr.Size()
		if decErr != nil || offset+recSize > datSize || (expectedSeqnum != 0 && hdr.Seqnum != expectedSeqnum+1) {
			if err := tailutil.Zeroise(pair.Dat, offset); err != nil {
				return wrapDatIO(err, directory, name, offset)
			}
			res.Report.TailZeroised = true
			break
		}

		rec := codec.IndexRecord{Seqnum: hdr.Seqnum, Timestamp: hdr.Timestamp, Offset: offset}
		if _, err := pair.Idx.WriteAt(indexWriteOffset, codec.EncodeIndexRecord(rec)); err != nil {
			return errors.ClassifyIOError(err, name+".idx", filepair.IdxPath(directory, name), indexWriteOffset, true, true)
		}

		expectedSeqnum = hdr.Seqnum
		st.LastSeqnum = hdr.Seqnum
		st.LastTimestamp = hdr.Timestamp
		st.DataEnd = offset + recSize

		indexWriteOffset += int64(codec.IndexRecordSize)
		offset += recSize
		res.Report.RepairedRecords++
		log.Infow("repaired unflushed index record", "seqnum", hdr.Seqnum)
	}

	if err := pair.Idx.Flush(); err != nil {
		return errors.ClassifyIOError(err, name+".idx", filepair.IdxPath(directory, name), indexWriteOffset, true, true)
	}
	return nil
}
