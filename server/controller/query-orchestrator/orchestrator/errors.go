package orchestrator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfiguration marks a job rejected before anything was dispatched.
var ErrConfiguration = errors.New("configuration error")

// ErrWorkerFailure marks a job aborted because a worker reported an error.
var ErrWorkerFailure = errors.New("worker failure")

// WorkerError is one error message reported by a worker.
type WorkerError struct {
	WorkerID    int
	Description string
}

func (e WorkerError) String() string {
	return fmt.Sprintf("[worker %d] %s", e.WorkerID, e.Description)
}

// JobError lists every worker error of a failed job, ordered by worker id.
type JobError struct {
	Errors []WorkerError
}

func (e *JobError) Error() string {
	descriptions := make([]string, len(e.Errors))
	for i, we := range e.Errors {
		descriptions[i] = we.String()
	}
	return fmt.Sprintf("Worker errors: [%s]", strings.Join(descriptions, "; "))
}

func (e *JobError) Unwrap() error {
	return ErrWorkerFailure
}
