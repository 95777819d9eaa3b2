package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/reviewstats/partagg/protocol/assignment"
	"github.com/reviewstats/partagg/protocol/deserializer"
	"github.com/reviewstats/partagg/protocol/report"
	"github.com/reviewstats/partagg/shared/aggregation"
	"github.com/reviewstats/partagg/shared/coordination"
	"github.com/reviewstats/partagg/shared/metrics"
	"github.com/reviewstats/partagg/shared/middleware"
	"github.com/reviewstats/partagg/shared/partitioner"
	"github.com/reviewstats/partagg/shared/query"
	"github.com/reviewstats/partagg/shared/rowsource"
)

const component = "Query Orchestrator"

// Job describes one run of a query over a dataset.
type Job struct {
	DatasetLocation string
	TotalRows       int
	WorkerCount     int
	Query           string
}

// TransportFactory builds the transport of one job for workerCount workers.
type TransportFactory func(ctx context.Context, workerCount int) (coordination.Transport, error)

// QueryOrchestrator partitions a job, dispatches the ranges, gathers the
// partial maps, merges them and resolves the answer.
type QueryOrchestrator struct {
	registry     *query.Registry
	metrics      *metrics.Metrics
	newTransport TransportFactory
	probe        func(location string) error
}

// NewQueryOrchestrator creates a new Query Orchestrator instance
func NewQueryOrchestrator(registry *query.Registry, m *metrics.Metrics, newTransport TransportFactory) *QueryOrchestrator {
	return &QueryOrchestrator{
		registry:     registry,
		metrics:      m,
		newTransport: newTransport,
		probe:        rowsource.Probe,
	}
}

// WithProbe replaces the dataset reachability check.
func (qo *QueryOrchestrator) WithProbe(probe func(location string) error) *QueryOrchestrator {
	qo.probe = probe
	return qo
}

// Run executes a job. Configuration problems and worker errors produce a
// failure result together with an error wrapping ErrConfiguration or
// ErrWorkerFailure. A nil result means the job never finished, for example
// because ctx was cancelled.
func (qo *QueryOrchestrator) Run(ctx context.Context, job Job) (*JobResult, error) {
	start := time.Now()

	q, ranges, err := qo.plan(job)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrConfiguration, err)
		middleware.LogError(component, "%v", err)
		qo.metrics.ObserveJob(job.Query, metrics.OutcomeConfigurationError, time.Since(start))
		return FailureResult(err), err
	}

	jobID := uuid.New()
	middleware.LogInfo(component, "Starting job %s: query=%s rows=%d workers=%d", jobID, q.Name(), job.TotalRows, job.WorkerCount)

	partials, diagnostics, err := qo.exchange(ctx, jobID, q, job, ranges)
	if err != nil {
		var jobErr *JobError
		if errors.As(err, &jobErr) {
			middleware.LogError(component, "Job %s failed: %v", jobID, err)
			qo.metrics.ObserveJob(q.Name(), metrics.OutcomeWorkerError, time.Since(start))
			return FailureResult(err), err
		}
		qo.metrics.ObserveJob(q.Name(), metrics.OutcomeCancelled, time.Since(start))
		return nil, err
	}

	global := aggregation.Merge(partials...)
	answer := q.Resolve(global)
	elapsed := time.Since(start)

	middleware.LogInfo(component, "Job %s finished in %s: %d entities, answer %s", jobID, elapsed, len(global), answer)
	qo.metrics.ObserveJob(q.Name(), metrics.OutcomeSuccess, elapsed)

	return successResult(answer, partitioner.Sizes(ranges), diagnostics, elapsed), nil
}

func (qo *QueryOrchestrator) plan(job Job) (query.Query, []partitioner.Range, error) {
	if job.WorkerCount < 1 {
		return nil, nil, fmt.Errorf("need at least 1 worker, got %d", job.WorkerCount)
	}
	if job.DatasetLocation == "" || job.TotalRows <= 0 {
		return nil, nil, fmt.Errorf("dataset path/size missing or invalid (path=%q, size=%d)", job.DatasetLocation, job.TotalRows)
	}

	q, err := qo.registry.Lookup(job.Query)
	if err != nil {
		return nil, nil, err
	}

	if err := qo.probe(job.DatasetLocation); err != nil {
		return nil, nil, fmt.Errorf("dataset path/size missing or invalid: %w", err)
	}

	ranges, err := partitioner.Split(job.TotalRows, job.WorkerCount)
	if err != nil {
		return nil, nil, err
	}
	return q, ranges, nil
}

// exchange dispatches one range per worker and waits for exactly one reply
// from each. Partials are returned in worker order.
func (qo *QueryOrchestrator) exchange(ctx context.Context, jobID uuid.UUID, q query.Query, job Job, ranges []partitioner.Range) ([]aggregation.PartialMap, []int, error) {
	transport, err := qo.newTransport(ctx, len(ranges))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create transport: %w", err)
	}
	defer transport.Close()

	for workerID, r := range ranges {
		body, err := assignment.SerializeRangeMessage(assignment.NewRangeMessage(assignment.Assignment{
			JobID:           jobID,
			WorkerID:        workerID,
			Query:           q.Name(),
			DatasetLocation: job.DatasetLocation,
			TotalRows:       job.TotalRows,
			Lo:              r.Lo,
			Hi:              r.Hi,
		}))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to serialize range for worker %d: %w", workerID, err)
		}
		if err := transport.Dispatch(ctx, workerID, body); err != nil {
			return nil, nil, fmt.Errorf("failed to dispatch range to worker %d: %w", workerID, err)
		}
		middleware.LogDebug(component, "Dispatched rows [%d, %d) to worker %d", r.Lo, r.Hi, workerID)
	}

	g := newGatherer(jobID, len(ranges))
	for !g.complete() {
		env, err := transport.Gather(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("gather interrupted with %d of %d replies: %w", g.received, len(ranges), err)
		}
		if err := g.accept(env); err != nil {
			middleware.LogWarn(component, "Dropping message: %v", err)
		}
	}

	if failures := g.failures(); len(failures) > 0 {
		return nil, nil, &JobError{Errors: failures}
	}

	return g.partials, g.diagnostics, nil
}

// gatherer attributes replies to workers and keeps exactly one per worker.
type gatherer struct {
	jobID       uuid.UUID
	replied     []bool
	received    int
	partials    []aggregation.PartialMap
	diagnostics []int
	errors      map[int]string
}

func newGatherer(jobID uuid.UUID, workers int) *gatherer {
	return &gatherer{
		jobID:       jobID,
		replied:     make([]bool, workers),
		partials:    make([]aggregation.PartialMap, workers),
		diagnostics: make([]int, workers),
		errors:      make(map[int]string),
	}
}

func (g *gatherer) complete() bool {
	return g.received == len(g.replied)
}

func (g *gatherer) accept(env coordination.Envelope) error {
	msg, err := deserializer.Deserialize(env.Body)
	if err != nil {
		return err
	}

	switch m := msg.(type) {
	case *report.ResultMessage:
		if env.Failed {
			return fmt.Errorf("result from worker %d arrived on the error channel", m.WorkerID)
		}
		if err := g.claim(m.JobID, m.WorkerID, false); err != nil {
			return err
		}
		g.partials[m.WorkerID] = m.Partial
		g.diagnostics[m.WorkerID] = m.Distinct
		return nil

	case *report.ErrorMessage:
		// A worker that could not read its assignment does not know the job id.
		if err := g.claim(m.JobID, m.WorkerID, m.JobID == uuid.Nil); err != nil {
			return err
		}
		g.errors[m.WorkerID] = m.Description
		return nil

	default:
		return fmt.Errorf("unexpected message %T", msg)
	}
}

func (g *gatherer) claim(jobID uuid.UUID, workerID int, anyJob bool) error {
	if !anyJob && jobID != g.jobID {
		return fmt.Errorf("message for job %s while running job %s", jobID, g.jobID)
	}
	if workerID < 0 || workerID >= len(g.replied) {
		return fmt.Errorf("message from unknown worker %d", workerID)
	}
	if g.replied[workerID] {
		return fmt.Errorf("duplicate message from worker %d", workerID)
	}
	g.replied[workerID] = true
	g.received++
	return nil
}

func (g *gatherer) failures() []WorkerError {
	failures := make([]WorkerError, 0, len(g.errors))
	for workerID, description := range g.errors {
		failures = append(failures, WorkerError{WorkerID: workerID, Description: description})
	}
	sort.Slice(failures, func(i, j int) bool {
		return failures[i].WorkerID < failures[j].WorkerID
	})
	return failures
}
