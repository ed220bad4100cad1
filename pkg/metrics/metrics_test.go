package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestNilCollectorsAreNoOps(t *testing.T) {
	var c *Collectors
	assert.NotPanics(t, func() {
		c.ObserveAppend(1.5, 100)
		c.AddReadsServed(3)
		c.IncChecksumFailure()
		c.AddRollbackRecords(2)
		c.AddPurgeRecords(4)
		c.ObserveRecovery(0.2, true)
	})
}

func TestCollectorsObserveAgainstRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.AddReadsServed(5)
	c.AddRollbackRecords(2)
	c.AddPurgeRecords(3)
	c.IncChecksumFailure()

	assert.Equal(t, float64(5), counterValue(t, c.readsServed))
	assert.Equal(t, float64(2), counterValue(t, c.rollbackRecords))
	assert.Equal(t, float64(3), counterValue(t, c.purgeRecords))
	assert.Equal(t, float64(1), counterValue(t, c.checksumFailures))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNewWithNilRegistererSkipsRegistration(t *testing.T) {
	c := New(nil)
	require.NotNil(t, c)
	assert.NotPanics(t, func() { c.AddReadsServed(1) })
}
