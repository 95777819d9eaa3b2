package assignment

import (
	"fmt"

	"github.com/google/uuid"
)

// Assignment tells one worker which slice of the dataset to aggregate and
// for which query. It is never modified after dispatch.
type Assignment struct {
	JobID           uuid.UUID
	WorkerID        int
	Query           string
	DatasetLocation string
	TotalRows       int
	Lo              int
	Hi              int
}

// Size is the number of rows in [Lo, Hi).
func (a Assignment) Size() int {
	return a.Hi - a.Lo
}

// Validate checks the range bounds and required fields.
func (a Assignment) Validate() error {
	if a.WorkerID < 0 {
		return fmt.Errorf("invalid worker id %d", a.WorkerID)
	}
	if a.Query == "" {
		return fmt.Errorf("assignment for worker %d has no query", a.WorkerID)
	}
	if a.DatasetLocation == "" {
		return fmt.Errorf("assignment for worker %d has no dataset location", a.WorkerID)
	}
	if a.Lo < 0 || a.Hi < a.Lo {
		return fmt.Errorf("invalid row range [%d, %d) for worker %d", a.Lo, a.Hi, a.WorkerID)
	}
	return nil
}

func (a Assignment) String() string {
	return fmt.Sprintf("job=%s worker=%d query=%s rows=[%d,%d)", a.JobID, a.WorkerID, a.Query, a.Lo, a.Hi)
}
