package query

import "github.com/reviewstats/partagg/shared/aggregation"

// Query is one variant of the partitioned aggregation job. Spec tells the
// workers what to aggregate and Resolve turns the merged map into an answer.
type Query interface {
	Name() string
	Spec() aggregation.Spec
	Resolve(global aggregation.PartialMap) Answer
}

// Dataset columns
const (
	BookIDColumn    = "BId"
	BookTitleColumn = "BTitle"
	BookPriceColumn = "BPrice"
	UserIDColumn    = "UId"
	UserNameColumn  = "UName"
	ScoreColumn     = "RScore"
)

// Predicate decides whether a merged entry is eligible for a query.
type Predicate func(e *aggregation.Entry) bool

// ExactAverage holds when the average score is exactly target, compared as
// sum == target*count.
func ExactAverage(target int64) Predicate {
	return func(e *aggregation.Entry) bool {
		return e.Count > 0 && e.SumScore == target*e.Count
	}
}

// AverageBelow holds when the average score is strictly below target.
func AverageBelow(target int64) Predicate {
	return func(e *aggregation.Entry) bool {
		return e.Count > 0 && e.SumScore < target*e.Count
	}
}
