package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Job outcomes
const (
	OutcomeSuccess            = "success"
	OutcomeWorkerError        = "worker_error"
	OutcomeConfigurationError = "configuration_error"
	OutcomeCancelled          = "cancelled"
)

// Metrics groups the collectors of the aggregation job. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Registry       *prometheus.Registry
	jobsTotal      *prometheus.CounterVec
	jobDuration    *prometheus.HistogramVec
	rowsAggregated *prometheus.CounterVec
	rowsSkipped    *prometheus.CounterVec
	workerFailures *prometheus.CounterVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		jobsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "partagg_jobs_total",
				Help: "Aggregation jobs finished, by query and outcome",
			},
			[]string{"query", "outcome"},
		),
		jobDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "partagg_job_duration_seconds",
				Help:    "Wall time of aggregation jobs",
				Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
			},
			[]string{"query"},
		),
		rowsAggregated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "partagg_rows_aggregated_total",
				Help: "Rows folded into partial maps",
			},
			[]string{"query"},
		),
		rowsSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "partagg_rows_skipped_total",
				Help: "Rows skipped for a missing score or entity id",
			},
			[]string{"query"},
		),
		workerFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "partagg_worker_failures_total",
				Help: "Error messages reported by workers",
			},
			[]string{"query"},
		),
	}

	m.Registry.MustRegister(m.jobsTotal, m.jobDuration, m.rowsAggregated, m.rowsSkipped, m.workerFailures)
	return m
}

// ObserveJob records a finished job.
func (m *Metrics) ObserveJob(query, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.jobsTotal.WithLabelValues(query, outcome).Inc()
	m.jobDuration.WithLabelValues(query).Observe(elapsed.Seconds())
}

// ObserveRows records the rows a worker read and skipped.
func (m *Metrics) ObserveRows(query string, read, skipped int) {
	if m == nil {
		return
	}
	m.rowsAggregated.WithLabelValues(query).Add(float64(read - skipped))
	m.rowsSkipped.WithLabelValues(query).Add(float64(skipped))
}

// WorkerFailed records one worker error message.
func (m *Metrics) WorkerFailed(query string) {
	if m == nil {
		return
	}
	m.workerFailures.WithLabelValues(query).Inc()
}
