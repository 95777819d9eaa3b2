package queues

import "strconv"

// Queue names shared by the orchestrator and the aggregator workers.

const (
	// RangeQueuePrefix prefixes the per-worker dispatch queue: each worker owns exactly one.
	RangeQueuePrefix = "range-queue-"

	// ResultQueue carries partial aggregates from every worker back to the orchestrator.
	ResultQueue = "result-queue"

	// ErrorQueue carries worker failure reports back to the orchestrator.
	ErrorQueue = "error-queue"
)

// RangeQueueName returns the dispatch queue name for a worker.
func RangeQueueName(workerID int) string {
	return RangeQueuePrefix + strconv.Itoa(workerID)
}
