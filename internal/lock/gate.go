// Package lock packages the two advisory mutexes spec.md §5 assigns to a
// store: a short-held data mutex guarding only the in-memory state block,
// and a longer-held file mutex guarding coherence between state and file
// contents. Generalized from the sync.RWMutex/atomic.Bool discipline the
// teacher module applies per-subsystem (internal/index, internal/storage)
// into one gate shared by the whole engine, since here state and files
// belong to a single store rather than independent subsystems.
package lock

import "sync"

// Gate holds the two locks a store's operations acquire according to the
// table in spec.md §5:
//
//	open, close            — neither (single-threaded by construction)
//	append                 — Data only, briefly
//	rollback, purge        — File exclusive, then Data briefly
//	read, stats, search    — File shared, then Data briefly
type Gate struct {
	// File guards coherence between cached state and on-disk contents.
	// Readers (read/search/stats) take it shared (RLock); destructive
	// writers (rollback/purge) take it exclusive (Lock). Append
	// deliberately never touches this lock, so it is never blocked by
	// concurrent readers — append only grows the files and publishes
	// state after flushing.
	File sync.RWMutex

	// Data guards only the in-memory State block. Held briefly by every
	// operation that reads or publishes state.
	Data sync.Mutex
}
