package jobworker

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/reviewstats/partagg/protocol/assignment"
	"github.com/reviewstats/partagg/protocol/report"
	"github.com/reviewstats/partagg/shared/aggregation"
	"github.com/reviewstats/partagg/shared/metrics"
	"github.com/reviewstats/partagg/shared/middleware"
	"github.com/reviewstats/partagg/shared/query"
	"github.com/reviewstats/partagg/shared/rowsource"
)

// Opener opens the dataset named in an assignment.
type Opener func(location string) (rowsource.Reader, error)

// Reply is the single message a worker sends back for one assignment.
type Reply struct {
	Body   []byte
	Failed bool
}

// Worker aggregates the row range of one assignment.
type Worker struct {
	registry *query.Registry
	metrics  *metrics.Metrics
	open     Opener
}

// NewWorker creates a worker that opens datasets with rowsource.Open.
func NewWorker(registry *query.Registry, m *metrics.Metrics) *Worker {
	return &Worker{
		registry: registry,
		metrics:  m,
		open: func(location string) (rowsource.Reader, error) {
			return rowsource.Open(location)
		},
	}
}

// WithOpener replaces the dataset opener.
func (w *Worker) WithOpener(open Opener) *Worker {
	w.open = open
	return w
}

// Handle decodes a range message and always returns exactly one reply: a
// result message on success, an error message otherwise. workerID is the
// identity the transport knows the worker by, used when the assignment
// itself cannot be read.
func (w *Worker) Handle(ctx context.Context, workerID int, body []byte) (reply Reply) {
	component := fmt.Sprintf("Worker %d", workerID)
	jobID := uuid.Nil

	defer func() {
		if r := recover(); r != nil {
			middleware.LogError(component, "Recovered from panic: %v", r)
			reply = w.failure(jobID, workerID, fmt.Sprintf("panic: %v", r))
		}
	}()

	msg, err := assignment.DeserializeRangeMessage(body)
	if err != nil {
		middleware.LogError(component, "Failed to deserialize range message: %v", err)
		return w.failure(jobID, workerID, err.Error())
	}

	a := msg.Assignment
	jobID = a.JobID
	if a.WorkerID != workerID {
		return w.failure(jobID, workerID, fmt.Sprintf("assignment for worker %d delivered to worker %d", a.WorkerID, workerID))
	}

	middleware.LogDebug(component, "Received assignment %s", a)

	partial, stats, err := w.aggregate(ctx, a)
	if err != nil {
		middleware.LogWarn(component, "Aggregation failed: %v", err)
		w.metrics.WorkerFailed(a.Query)
		return w.failure(jobID, workerID, err.Error())
	}
	w.metrics.ObserveRows(a.Query, stats.RowsRead, stats.RowsSkipped)

	data, err := report.SerializeResultMessage(report.NewResultMessage(jobID, workerID, partial, stats))
	if err != nil {
		return w.failure(jobID, workerID, fmt.Sprintf("failed to serialize result: %v", err))
	}

	middleware.LogInfo(component, "Aggregated rows [%d, %d): read=%d skipped=%d distinct=%d",
		a.Lo, a.Hi, stats.RowsRead, stats.RowsSkipped, stats.Distinct)
	return Reply{Body: data}
}

func (w *Worker) aggregate(ctx context.Context, a assignment.Assignment) (aggregation.PartialMap, aggregation.Stats, error) {
	q, err := w.registry.Lookup(a.Query)
	if err != nil {
		return nil, aggregation.Stats{}, err
	}

	reader, err := w.open(a.DatasetLocation)
	if err != nil {
		return nil, aggregation.Stats{}, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer reader.Close()

	return aggregation.Aggregate(ctx, reader, a.Lo, a.Hi, q.Spec())
}

func (w *Worker) failure(jobID uuid.UUID, workerID int, description string) Reply {
	data, err := report.SerializeErrorMessage(report.NewErrorMessage(jobID, workerID, description))
	if err != nil {
		// Only an oversized description can fail; retry with a short one.
		data, _ = report.SerializeErrorMessage(report.NewErrorMessage(jobID, workerID, "failed to serialize error description"))
	}
	return Reply{Body: data, Failed: true}
}
