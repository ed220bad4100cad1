// Package metrics defines the Prometheus collectors the engine instruments
// itself with when Options.MetricsRegisterer is set. None of this is on the
// hot path when metrics are disabled: every collector method nil-checks its
// receiver and is a no-op on a nil *Collectors.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collectors bundles every metric the engine emits. A nil *Collectors (what
// seqlog.Open uses when no Registerer is configured) is safe to call methods
// on — they become no-ops.
type Collectors struct {
	appendDuration    prometheus.Histogram
	appendBytes       prometheus.Counter
	readsServed       prometheus.Counter
	checksumFailures  prometheus.Counter
	rollbackRecords   prometheus.Counter
	purgeRecords      prometheus.Counter
	recoveryDuration  prometheus.Histogram
	recoveryRepairs   prometheus.Counter
}

// New builds and, if reg is non-nil, registers the collector set. Passing a
// nil Registerer yields a fully functional but disconnected *Collectors —
// every observation is computed and discarded, never a nil pointer panic.
func New(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		appendDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "seqlog_append_duration_seconds",
			Help:    "Latency of Append batches, from lock acquisition to publish.",
			Buckets: prometheus.DefBuckets,
		}),
		appendBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seqlog_append_bytes_total",
			Help: "Total bytes written to the data file by Append.",
		}),
		readsServed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seqlog_reads_served_total",
			Help: "Total entries returned by Read.",
		}),
		checksumFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seqlog_checksum_failures_total",
			Help: "Total CRC-32 mismatches observed by Read.",
		}),
		rollbackRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seqlog_rollback_records_total",
			Help: "Total records removed by Rollback.",
		}),
		purgeRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seqlog_purge_records_total",
			Help: "Total records removed by Purge.",
		}),
		recoveryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "seqlog_recovery_duration_seconds",
			Help:    "Latency of the open-time recovery walk.",
			Buckets: prometheus.DefBuckets,
		}),
		recoveryRepairs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seqlog_recovery_repairs_total",
			Help: "Total torn-tail or missing-index repairs performed on open.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			c.appendDuration, c.appendBytes, c.readsServed, c.checksumFailures,
			c.rollbackRecords, c.purgeRecords, c.recoveryDuration, c.recoveryRepairs,
		)
	}

	return c
}

func (c *Collectors) ObserveAppend(seconds float64, bytes int) {
	if c == nil {
		return
	}
	c.appendDuration.Observe(seconds)
	c.appendBytes.Add(float64(bytes))
}

func (c *Collectors) AddReadsServed(n int) {
	if c == nil {
		return
	}
	c.readsServed.Add(float64(n))
}

func (c *Collectors) IncChecksumFailure() {
	if c == nil {
		return
	}
	c.checksumFailures.Inc()
}

func (c *Collectors) AddRollbackRecords(n uint64) {
	if c == nil {
		return
	}
	c.rollbackRecords.Add(float64(n))
}

func (c *Collectors) AddPurgeRecords(n uint64) {
	if c == nil {
		return
	}
	c.purgeRecords.Add(float64(n))
}

func (c *Collectors) ObserveRecovery(seconds float64, repaired bool) {
	if c == nil {
		return
	}
	c.recoveryDuration.Observe(seconds)
	if repaired {
		c.recoveryRepairs.Inc()
	}
}
