package query

import (
	"github.com/shopspring/decimal"

	"github.com/reviewstats/partagg/shared/aggregation"
)

// TopReviewer finds the reviewers with an average score of exactly 4 who
// reviewed the most distinct books.
type TopReviewer struct {
	Score int64
}

func NewTopReviewer() *TopReviewer {
	return &TopReviewer{Score: 4}
}

func (q *TopReviewer) Name() string {
	return "top-reviewer"
}

func (q *TopReviewer) Spec() aggregation.Spec {
	return aggregation.Spec{
		EntityColumn:    UserIDColumn,
		ScoreColumn:     ScoreColumn,
		SecondaryColumn: BookIDColumn,
		LabelColumn:     UserNameColumn,
	}
}

func (q *TopReviewer) Resolve(global aggregation.PartialMap) Answer {
	eligible := ExactAverage(q.Score)
	var candidates []Candidate
	for id, e := range global {
		if !eligible(e) {
			continue
		}
		candidates = append(candidates, Candidate{
			ID:    id,
			Label: CanonicalLabel(e.LabelFrequency, id),
			Score: decimal.NewFromInt(int64(len(e.SecondaryIDs))),
		})
	}
	return JoinLabels(MaxWinners(candidates))
}
