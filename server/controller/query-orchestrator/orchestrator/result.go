package orchestrator

import (
	"time"

	"github.com/reviewstats/partagg/shared/query"
)

// JobResult is written once by the coordinator after merge and resolution.
// Failed jobs carry the failure text as their answer and empty statistics.
type JobResult struct {
	FinalAnswer               query.Answer `json:"final_answer"`
	ChunkSizesPerWorker       []int        `json:"chunkSizePerThread"`
	DiagnosticCountsPerWorker []int        `json:"answerPerThread"`
	ElapsedTime               float64      `json:"totalTimeTaken"`
}

func successResult(answer query.Answer, chunkSizes, diagnostics []int, elapsed time.Duration) *JobResult {
	return &JobResult{
		FinalAnswer:               answer,
		ChunkSizesPerWorker:       chunkSizes,
		DiagnosticCountsPerWorker: diagnostics,
		ElapsedTime:               elapsed.Seconds(),
	}
}

// FailureResult renders err as a failed job.
func FailureResult(err error) *JobResult {
	return &JobResult{
		FinalAnswer:               query.TextAnswer(err.Error()),
		ChunkSizesPerWorker:       []int{},
		DiagnosticCountsPerWorker: []int{},
		ElapsedTime:               0,
	}
}
