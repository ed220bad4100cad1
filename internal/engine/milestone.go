package engine

import (
	"encoding/binary"

	"github.com/iamNilotpal/seqlog/internal/filepair"
	"github.com/iamNilotpal/seqlog/pkg/errors"
)

// milestoneOffset is the byte offset of the 8-byte milestone slot within
// the data header: magic(8) + version(4) + desc(128).
const milestoneOffset = 8 + 4 + 128

// Milestone returns the store's current milestone value.
func (e *Engine) Milestone() uint64 {
	return e.snapshotState().Milestone
}

// UpdateMilestone implements spec.md §4.12: overwrites the milestone slot
// in the data header in place, flushes, and updates cached state. It is
// opaque to the engine, intended for consensus implementations to record a
// commit index.
func (e *Engine) UpdateMilestone(value uint64) error {
	if err := e.checkOpen(); err != nil {
		return err
	}

	e.gate.File.Lock()
	defer e.gate.File.Unlock()

	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, value)
	if _, err := e.pair.Dat.WriteAt(milestoneOffset, buf); err != nil {
		return errors.ClassifyIOError(err, e.name+".dat", filepair.DatPath(e.directory, e.name), milestoneOffset, false, true)
	}
	if err := e.pair.Dat.Flush(); err != nil {
		return errors.ClassifyIOError(err, e.name+".dat", filepair.DatPath(e.directory, e.name), milestoneOffset, false, true)
	}

	e.gate.Data.Lock()
	e.state.Milestone = value
	e.gate.Data.Unlock()

	return nil
}
