package engine

import (
	"time"

	"github.com/iamNilotpal/seqlog/internal/codec"
	"github.com/iamNilotpal/seqlog/internal/filepair"
	"github.com/iamNilotpal/seqlog/pkg/errors"
)

// Append implements spec.md §4.6: writes each entry in order, assigning
// seqnum/timestamp where the caller passed 0, and reports how many entries
// were durably written before the first failure (if any). Append never
// takes the file mutex — only the data mutex, briefly, to publish the
// updated state after the batch's flush, per spec.md §5's concurrency
// table.
func (e *Engine) Append(entries []Entry) (int, error) {
	if err := e.checkOpen(); err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}

	start := time.Now()

	st := e.snapshotState()
	dataEnd := st.DataEnd
	if dataEnd == 0 {
		dataEnd = int64(codec.DataHeaderSize)
	}

	lastSeqnum := st.LastSeqnum
	lastTimestamp := st.LastTimestamp
	firstSeqnum := st.FirstSeqnum
	firstTimestamp := st.FirstTimestamp
	empty := st.Empty()

	indexWriteOffset := indexAppendOffset(firstSeqnum, lastSeqnum, empty)

	written := 0
	totalBytes := 0

	for i, entry := range entries {
		seqnum := entry.Seqnum
		if seqnum == 0 {
			if empty {
				seqnum = 1
			} else {
				seqnum = lastSeqnum + 1
			}
		} else if !empty && seqnum != lastSeqnum+1 {
			e.flushAndPublish(dataEnd, firstSeqnum, firstTimestamp, lastSeqnum, lastTimestamp, empty)
			return written, errors.NewEntrySeqnumError(seqnum, lastSeqnum+1).WithDetail("index", i)
		}

		timestamp := entry.Timestamp
		if timestamp == 0 {
			now := e.options.Clock()
			timestamp = now
			if timestamp < lastTimestamp {
				timestamp = lastTimestamp
			}
		} else if timestamp < lastTimestamp {
			e.flushAndPublish(dataEnd, firstSeqnum, firstTimestamp, lastSeqnum, lastTimestamp, empty)
			return written, errors.NewEntryTimestampError(timestamp, lastTimestamp).WithDetail("index", i)
		}

		header := codec.RecordHeader{
			Seqnum:      seqnum,
			Timestamp:   timestamp,
			MetadataLen: uint32(len(entry.Metadata)),
			DataLen:     uint32(len(entry.Data)),
		}
		header.Checksum = codec.ComputeChecksum(header, entry.Metadata, entry.Data)

		if _, err := e.pair.Dat.WriteAt(dataEnd, codec.EncodeHeader(header)); err != nil {
			e.flushAndPublish(dataEnd, firstSeqnum, firstTimestamp, lastSeqnum, lastTimestamp, empty)
			return written, errors.ClassifyIOError(err, e.name+".dat", filepair.DatPath(e.directory, e.name), dataEnd, false, true)
		}
		if len(entry.Metadata) > 0 {
			if _, err := e.pair.Dat.WriteAt(dataEnd+int64(codec.RecordHeaderSize), entry.Metadata); err != nil {
				e.flushAndPublish(dataEnd, firstSeqnum, firstTimestamp, lastSeqnum, lastTimestamp, empty)
				return written, errors.ClassifyIOError(err, e.name+".dat", filepair.DatPath(e.directory, e.name), dataEnd, false, true)
			}
		}
		if len(entry.Data) > 0 {
			if _, err := e.pair.Dat.WriteAt(dataEnd+int64(codec.RecordHeaderSize)+int64(len(entry.Metadata)), entry.Data); err != nil {
				e.flushAndPublish(dataEnd, firstSeqnum, firstTimestamp, lastSeqnum, lastTimestamp, empty)
				return written, errors.ClassifyIOError(err, e.name+".dat", filepair.DatPath(e.directory, e.name), dataEnd, false, true)
			}
		}

		if empty {
			firstSeqnum = seqnum
			firstTimestamp = timestamp
		}

		idxRecord := codec.IndexRecord{Seqnum: seqnum, Timestamp: timestamp, Offset: dataEnd}
		if _, err := e.pair.Idx.WriteAt(indexWriteOffset, codec.EncodeIndexRecord(idxRecord)); err != nil {
			e.flushAndPublish(dataEnd, firstSeqnum, firstTimestamp, lastSeqnum, lastTimestamp, empty)
			return written, errors.ClassifyIOError(err, e.name+".idx", filepair.IdxPath(e.directory, e.name), indexWriteOffset, true, true)
		}

		recSize := header.Size()
		totalBytes += int(recSize)
		dataEnd += recSize
		indexWriteOffset += int64(codec.IndexRecordSize)
		lastSeqnum = seqnum
		lastTimestamp = timestamp
		empty = false
		written++
	}

	if err := e.flushAndPublish(dataEnd, firstSeqnum, firstTimestamp, lastSeqnum, lastTimestamp, empty); err != nil {
		return written, err
	}

	if e.options.FsyncOnAppend {
		if err := e.pair.Dat.Sync(); err != nil {
			return written, errors.ClassifyIOError(err, e.name+".dat", filepair.DatPath(e.directory, e.name), dataEnd, false, true)
		}
	}

	if e.metrics != nil {
		e.metrics.ObserveAppend(time.Since(start).Seconds(), totalBytes)
	}

	return written, nil
}

// indexAppendOffset computes where the next index record should be written,
// given the current boundary state.
func indexAppendOffset(firstSeqnum, lastSeqnum uint64, empty bool) int64 {
	if empty {
		return int64(codec.IndexHeaderSize)
	}
	return codec.IndexOffset(firstSeqnum, lastSeqnum+1)
}

// flushAndPublish flushes both files and publishes the new state under the
// data lock, per spec.md §4.6's end-of-batch sequence. Called both after a
// successful batch and after a mid-batch validation failure, so whatever
// was already written durably is reflected in state.
func (e *Engine) flushAndPublish(dataEnd int64, firstSeqnum, firstTimestamp, lastSeqnum, lastTimestamp uint64, empty bool) error {
	if err := e.pair.Dat.Flush(); err != nil {
		return errors.ClassifyIOError(err, e.name+".dat", filepair.DatPath(e.directory, e.name), dataEnd, false, true)
	}
	if err := e.pair.Idx.Flush(); err != nil {
		return errors.ClassifyIOError(err, e.name+".idx", filepair.IdxPath(e.directory, e.name), 0, true, true)
	}

	e.gate.Data.Lock()
	defer e.gate.Data.Unlock()

	if empty {
		return nil
	}
	e.state.FirstSeqnum = firstSeqnum
	e.state.FirstTimestamp = firstTimestamp
	e.state.LastSeqnum = lastSeqnum
	e.state.LastTimestamp = lastTimestamp
	e.state.DataEnd = dataEnd
	return nil
}
