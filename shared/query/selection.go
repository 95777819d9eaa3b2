package query

import (
	"container/heap"
	"sort"

	"github.com/shopspring/decimal"
)

// Candidate is an eligible entity with its display label and ranking score.
type Candidate struct {
	ID    string
	Label string
	Score decimal.Decimal
}

// ranksBefore orders by score descending, then label ascending, then id.
func ranksBefore(a, b Candidate) bool {
	if c := a.Score.Cmp(b.Score); c != 0 {
		return c > 0
	}
	if a.Label != b.Label {
		return a.Label < b.Label
	}
	return a.ID < b.ID
}

// MaxWinners returns the labels of every candidate holding the maximum
// score, deduplicated and sorted.
func MaxWinners(candidates []Candidate) []string {
	if len(candidates) == 0 {
		return nil
	}

	best := candidates[0].Score
	for _, c := range candidates[1:] {
		if c.Score.GreaterThan(best) {
			best = c.Score
		}
	}

	seen := make(map[string]struct{})
	var labels []string
	for _, c := range candidates {
		if !c.Score.Equal(best) {
			continue
		}
		if _, dup := seen[c.Label]; dup {
			continue
		}
		seen[c.Label] = struct{}{}
		labels = append(labels, c.Label)
	}
	sort.Strings(labels)
	return labels
}

// candidateHeap keeps the worst retained candidate at the root.
type candidateHeap []Candidate

func (h candidateHeap) Len() int { return len(h) }

func (h candidateHeap) Less(i, j int) bool {
	return ranksBefore(h[j], h[i])
}

func (h candidateHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *candidateHeap) Push(x interface{}) {
	*h = append(*h, x.(Candidate))
}

func (h *candidateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// TopK returns the best k candidates by score descending, label ascending.
func TopK(candidates []Candidate, k int) []Candidate {
	if k <= 0 || len(candidates) == 0 {
		return []Candidate{}
	}

	h := make(candidateHeap, 0, k+1)
	for _, c := range candidates {
		if h.Len() < k {
			heap.Push(&h, c)
			continue
		}
		if ranksBefore(c, h[0]) {
			h[0] = c
			heap.Fix(&h, 0)
		}
	}

	top := make([]Candidate, h.Len())
	for i := len(top) - 1; i >= 0; i-- {
		top[i] = heap.Pop(&h).(Candidate)
	}
	return top
}
