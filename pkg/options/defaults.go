package options

const (
	// DefaultReadBufferCapacity is the default Options.ReadBufferCapacity.
	DefaultReadBufferCapacity = 64

	// DefaultCheckOnOpen matches spec.md's fast-open path: trust
	// well-formed records, only repair the tail.
	DefaultCheckOnOpen = false

	// DefaultFsyncOnAppend matches spec.md §9's open question default:
	// flush every append, but don't pay for fdatasync unless asked.
	DefaultFsyncOnAppend = false

	// MaxNameLength is the upper bound on a store name's length (spec.md §6).
	MaxNameLength = 32
)

// NewDefaultOptions returns the baseline Options a store is constructed
// with before functional options are applied.
func NewDefaultOptions() Options {
	return Options{
		CheckOnOpen:        DefaultCheckOnOpen,
		FsyncOnAppend:      DefaultFsyncOnAppend,
		ReadBufferCapacity: DefaultReadBufferCapacity,
		Clock:              wallClockMillis,
	}
}
