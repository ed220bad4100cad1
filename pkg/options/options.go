// Package options provides data structures and functions for configuring
// a store. It defines the parameters that control its on-disk behavior —
// directory, name, fsync policy, recovery depth, and read buffering — using
// the same functional-options shape the wider codebase uses for its own
// configuration.
package options

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Options defines the configuration parameters for a store instance.
type Options struct {
	// Directory is the filesystem directory the store's two files
	// (<name>.dat, <name>.idx) live in. The directory itself is not created
	// by the store — it must already exist (spec.md §4.5 step 1).
	Directory string `json:"directory"`

	// Name is the store's short identifier, constrained to
	// [A-Za-z0-9_]{1,32}, used to derive <name>.dat / <name>.idx / <name>.tmp.
	Name string `json:"name"`

	// CheckOnOpen selects deep validation on open (spec.md §4.5 step 3/4):
	// every record's checksum and sequencing is verified, not just the
	// first. False trusts well-formed records and only repairs the tail.
	CheckOnOpen bool `json:"checkOnOpen"`

	// FsyncOnAppend selects whether Append calls File.Sync on the data file
	// after flushing, on top of the unconditional flush every append
	// performs. See spec.md §9's open question on force_fsync.
	FsyncOnAppend bool `json:"fsyncOnAppend"`

	// ReadBufferCapacity is a stored configuration value; Read does not
	// consult it and takes its capacity as an explicit argument.
	ReadBufferCapacity int `json:"readBufferCapacity"`

	// Clock supplies wall-clock milliseconds for timestamp auto-assignment
	// (spec.md §4.6). Defaults to the real clock; overridable for tests.
	Clock func() uint64 `json:"-"`

	// Logger receives structured Infow/Warnw/Errorw diagnostics from every
	// subsystem. If nil, seqlog.Open builds a production logger with
	// logger.New; LoggerOrDiscard returns a no-op logger instead.
	Logger *zap.SugaredLogger `json:"-"`

	// MetricsRegisterer optionally registers the store's Prometheus
	// collectors (pkg/metrics). Nil disables metrics entirely.
	MetricsRegisterer prometheus.Registerer `json:"-"`
}

// OptionFunc is a function type that modifies a store's configuration.
type OptionFunc func(*Options)

// WithDirectory sets the directory the store's files live in.
func WithDirectory(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.Directory = directory
		}
	}
}

// WithName sets the store's short identifier.
func WithName(name string) OptionFunc {
	return func(o *Options) {
		name = strings.TrimSpace(name)
		if name != "" {
			o.Name = name
		}
	}
}

// WithCheckOnOpen toggles deep validation on open.
func WithCheckOnOpen(check bool) OptionFunc {
	return func(o *Options) { o.CheckOnOpen = check }
}

// WithFsyncOnAppend toggles calling File.Sync on the data file after every
// append batch, on top of the unconditional flush.
func WithFsyncOnAppend(fsync bool) OptionFunc {
	return func(o *Options) { o.FsyncOnAppend = fsync }
}

// WithReadBufferCapacity sets the default read buffer capacity.
func WithReadBufferCapacity(capacity int) OptionFunc {
	return func(o *Options) {
		if capacity > 0 {
			o.ReadBufferCapacity = capacity
		}
	}
}

// WithClock overrides the wall-clock function used to timestamp entries
// whose caller-supplied timestamp is 0. Intended for deterministic tests.
func WithClock(clock func() uint64) OptionFunc {
	return func(o *Options) {
		if clock != nil {
			o.Clock = clock
		}
	}
}

// WithLogger sets the structured logger every subsystem logs through.
func WithLogger(log *zap.SugaredLogger) OptionFunc {
	return func(o *Options) {
		if log != nil {
			o.Logger = log
		}
	}
}

// WithMetricsRegisterer enables Prometheus instrumentation by registering
// the store's collectors (pkg/metrics) against reg.
func WithMetricsRegisterer(reg prometheus.Registerer) OptionFunc {
	return func(o *Options) { o.MetricsRegisterer = reg }
}

// discard is used when no logger is configured, so internals can always
// call o.Logger.Infow(...) without a nil check.
var discard = zap.NewNop().Sugar()

// LoggerOrDiscard returns o.Logger if set, otherwise a no-op logger.
func (o *Options) LoggerOrDiscard() *zap.SugaredLogger {
	if o.Logger != nil {
		return o.Logger
	}
	return discard
}
