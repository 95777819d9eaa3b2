package query

import "github.com/reviewstats/partagg/shared/aggregation"

// TopPriced ranks the most expensive books whose average score is below 4.
type TopPriced struct {
	Score int64
	K     int
}

func NewTopPriced() *TopPriced {
	return &TopPriced{Score: 4, K: 10}
}

func (q *TopPriced) Name() string {
	return "top-priced"
}

func (q *TopPriced) Spec() aggregation.Spec {
	return aggregation.Spec{
		EntityColumn:    BookIDColumn,
		ScoreColumn:     ScoreColumn,
		LabelColumn:     BookTitleColumn,
		AttributeColumn: BookPriceColumn,
	}
}

func (q *TopPriced) Resolve(global aggregation.PartialMap) Answer {
	eligible := AverageBelow(q.Score)
	var candidates []Candidate
	for id, e := range global {
		if !eligible(e) || !e.Attribute.Valid {
			continue
		}
		candidates = append(candidates, Candidate{
			ID:    id,
			Label: CanonicalLabel(e.LabelFrequency, id),
			Score: e.Attribute.Decimal,
		})
	}

	top := TopK(candidates, q.K)
	items := make([]RankedItem, 0, len(top))
	for _, c := range top {
		items = append(items, RankedItem{Label: c.Label, Value: c.Score.InexactFloat64()})
	}
	return RankingAnswer(items)
}
