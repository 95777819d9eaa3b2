package partitioner

import (
	"errors"
	"fmt"
)

// ErrInvalidSplit is returned when rows or workers are out of range.
var ErrInvalidSplit = errors.New("invalid split")

// Range is a half-open row interval [Lo, Hi).
type Range struct {
	Lo int
	Hi int
}

// Size returns the number of rows in the range.
func (r Range) Size() int {
	return r.Hi - r.Lo
}

// Split divides [0, totalRows) into exactly numWorkers contiguous ranges.
// Every worker but the last gets totalRows/numWorkers rows; the last one
// absorbs the remainder, so chunk sizes are reproducible across runs.
func Split(totalRows, numWorkers int) ([]Range, error) {
	if totalRows <= 0 {
		return nil, fmt.Errorf("%w: total rows must be positive (got %d)", ErrInvalidSplit, totalRows)
	}
	if numWorkers < 1 {
		return nil, fmt.Errorf("%w: need at least 1 worker (got %d)", ErrInvalidSplit, numWorkers)
	}

	base := totalRows / numWorkers
	ranges := make([]Range, numWorkers)
	for w := 0; w < numWorkers; w++ {
		lo := w * base
		hi := (w + 1) * base
		if w == numWorkers-1 {
			hi = totalRows
		}
		ranges[w] = Range{Lo: lo, Hi: hi}
	}
	return ranges, nil
}

// Sizes returns the chunk size of each range, in worker order.
func Sizes(ranges []Range) []int {
	sizes := make([]int, len(ranges))
	for i, r := range ranges {
		sizes[i] = r.Size()
	}
	return sizes
}
