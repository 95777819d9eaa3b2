package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecord(t *testing.T) {
	m := New()

	m.ObserveJob("top-priced", OutcomeSuccess, 1500*time.Millisecond)
	m.ObserveJob("top-priced", OutcomeWorkerError, time.Second)
	m.ObserveRows("top-priced", 10, 3)
	m.ObserveRows("top-priced", 5, 0)
	m.WorkerFailed("top-priced")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobsTotal.WithLabelValues("top-priced", OutcomeSuccess)))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.rowsAggregated.WithLabelValues("top-priced")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.rowsSkipped.WithLabelValues("top-priced")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.workerFailures.WithLabelValues("top-priced")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.jobDuration))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveJob("q2", OutcomeSuccess, time.Second)
		m.ObserveRows("q2", 1, 1)
		m.WorkerFailed("q2")
	})
}
