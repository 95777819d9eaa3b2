package query

import (
	"github.com/shopspring/decimal"

	"github.com/reviewstats/partagg/shared/aggregation"
)

// ExactBooks counts books whose average score is exactly 5 and whose price
// is exactly 2.
type ExactBooks struct {
	Score int64
	Price decimal.Decimal
}

func NewExactBooks() *ExactBooks {
	return &ExactBooks{Score: 5, Price: decimal.NewFromInt(2)}
}

func (q *ExactBooks) Name() string {
	return "exact-books"
}

func (q *ExactBooks) Spec() aggregation.Spec {
	return aggregation.Spec{
		EntityColumn:    BookIDColumn,
		ScoreColumn:     ScoreColumn,
		AttributeColumn: BookPriceColumn,
	}
}

func (q *ExactBooks) Resolve(global aggregation.PartialMap) Answer {
	eligible := ExactAverage(q.Score)
	matches := 0
	for _, e := range global {
		if eligible(e) && e.Attribute.Valid && e.Attribute.Decimal.Equal(q.Price) {
			matches++
		}
	}
	return CountAnswer(matches)
}
