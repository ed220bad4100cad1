// Package seqlog provides an embeddable, append-only, log-structured record
// store. Each Store owns a pair of files — <name>.dat and <name>.idx — and
// assigns every appended entry a gap-free ascending seqnum and a
// non-strictly-monotonic timestamp, supporting crash-safe recovery,
// timestamp search, range statistics, suffix rollback, and prefix purge.
package seqlog

import (
	"github.com/iamNilotpal/seqlog/internal/engine"
	"github.com/iamNilotpal/seqlog/internal/recovery"
	"github.com/iamNilotpal/seqlog/pkg/logger"
	"github.com/iamNilotpal/seqlog/pkg/metrics"
	"github.com/iamNilotpal/seqlog/pkg/options"
)

// Entry is one record: an assigned seqnum and timestamp plus its metadata
// and data payloads.
type Entry = engine.Entry

// SearchMode selects LOWER or UPPER bound semantics for Store.Search.
type SearchMode = engine.SearchMode

const (
	SearchLower = engine.SearchLower
	SearchUpper = engine.SearchUpper
)

// Stats is the result of Store.Stat: entry count and on-disk footprint of a
// seqnum range.
type Stats = engine.Stats

// OpenReport summarizes what the most recent Open/reopen did to repair the
// store.
type OpenReport = recovery.Report

// Store is the public entry point for a single data/index file pair.
type Store struct {
	engine  *engine.Engine
	options *options.Options
}

// Open opens (or creates) the store identified by directory and name,
// running the opener/recovery protocol described by this package's design,
// and returns a ready-to-use Store.
func Open(service string, opts ...options.OptionFunc) (*Store, error) {
	defaultOpts := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&defaultOpts)
	}

	log := defaultOpts.Logger
	if log == nil {
		log = logger.New(service)
		defaultOpts.Logger = log
	}

	var mx *metrics.Collectors
	if defaultOpts.MetricsRegisterer != nil {
		mx = metrics.New(defaultOpts.MetricsRegisterer)
	}

	eng, err := engine.New(&engine.Config{
		Directory: defaultOpts.Directory,
		Name:      defaultOpts.Name,
		Options:   &defaultOpts,
		Logger:    log,
		Metrics:   mx,
	})
	if err != nil {
		return nil, err
	}

	return &Store{engine: eng, options: &defaultOpts}, nil
}

// Append writes each entry in order, assigning seqnum/timestamp where the
// caller passed 0, and returns how many entries were durably written before
// the first failure (if any).
func (s *Store) Append(entries []Entry) (int, error) {
	return s.engine.Append(entries)
}

// Read returns up to capacity entries starting at startSeqnum, in ascending
// contiguous order.
func (s *Store) Read(startSeqnum uint64, capacity int) ([]Entry, error) {
	return s.engine.Read(startSeqnum, capacity)
}

// Search returns the seqnum satisfying LOWER/UPPER bound semantics against
// timestamp.
func (s *Store) Search(timestamp uint64, mode SearchMode) (uint64, error) {
	return s.engine.Search(timestamp, mode)
}

// Stat computes entry count and on-disk footprint for the seqnum range
// [a, b], clamped to the store's current bounds.
func (s *Store) Stat(a, b uint64) (Stats, error) {
	return s.engine.Stat(a, b)
}

// Rollback removes every record with seqnum > threshold, returning the
// count removed.
func (s *Store) Rollback(threshold uint64) (uint64, error) {
	return s.engine.Rollback(threshold)
}

// Purge removes every record with seqnum < threshold, returning the count
// removed.
func (s *Store) Purge(threshold uint64) (uint64, error) {
	return s.engine.Purge(threshold)
}

// Milestone returns the store's current opaque milestone value.
func (s *Store) Milestone() uint64 {
	return s.engine.Milestone()
}

// UpdateMilestone overwrites the store's milestone value.
func (s *Store) UpdateMilestone(value uint64) error {
	return s.engine.UpdateMilestone(value)
}

// LastOpenReport returns what the most recent Open did to repair the store.
func (s *Store) LastOpenReport() OpenReport {
	return s.engine.LastOpenReport()
}

// FirstSeqnum, LastSeqnum, Count report the store's current boundaries.
func (s *Store) FirstSeqnum() uint64 { return s.engine.State().FirstSeqnum }
func (s *Store) LastSeqnum() uint64  { return s.engine.State().LastSeqnum }
func (s *Store) Count() uint64       { return s.engine.State().Count() }

// Close closes both handles of both files and releases the store.
func (s *Store) Close() error {
	return s.engine.Close()
}
