// Package state holds the small in-memory cache spec.md §4.4 describes:
// first/last seqnum, first/last timestamp, the milestone, and the byte
// offset one past the last data record. The seqnum, timestamp and DataEnd
// fields are zero when the store is empty; the milestone is kept
// independently of the records.
package state

// State is the cached snapshot of a store's boundary values.
type State struct {
	FirstSeqnum    uint64
	FirstTimestamp uint64
	LastSeqnum     uint64
	LastTimestamp  uint64
	Milestone      uint64
	DataEnd        int64
}

// Empty reports whether the store holds no records.
func (s State) Empty() bool {
	return s.FirstSeqnum == 0 && s.LastSeqnum == 0
}

// Count returns the number of records currently held.
func (s State) Count() uint64 {
	if s.Empty() {
		return 0
	}
	return s.LastSeqnum - s.FirstSeqnum + 1
}

// InRange reports whether seqnum falls within [FirstSeqnum, LastSeqnum].
func (s State) InRange(seqnum uint64) bool {
	if s.Empty() || seqnum == 0 {
		return false
	}
	return seqnum >= s.FirstSeqnum && seqnum <= s.LastSeqnum
}
