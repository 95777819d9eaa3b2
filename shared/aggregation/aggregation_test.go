package aggregation

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewstats/partagg/shared/rowsource"
)

var reviewColumns = []string{"BId", "BTitle", "BPrice", "UId", "UName", "RScore"}

var userSpec = Spec{
	EntityColumn:    "UId",
	ScoreColumn:     "RScore",
	SecondaryColumn: "BId",
	LabelColumn:     "UName",
}

var bookSpec = Spec{
	EntityColumn:    "BId",
	ScoreColumn:     "RScore",
	LabelColumn:     "BTitle",
	AttributeColumn: "BPrice",
}

func aggregate(t *testing.T, rows [][]string, lo, hi int, spec Spec) (PartialMap, Stats) {
	t.Helper()
	reader := rowsource.NewMemoryReader(reviewColumns, rows)
	partial, stats, err := Aggregate(context.Background(), reader, lo, hi, spec)
	require.NoError(t, err)
	return partial, stats
}

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestAggregateAccumulates(t *testing.T) {
	rows := [][]string{
		{"b1", "Dune", "2.0", "u1", "Amy", "5"},
		{"b2", "Emma", "", "u1", "Amy", "4.9"},
		{"b1", "Dune", "3", "u2", "Bob", "3"},
		{"b1", "Dune", "2", "u1", "Amy R", "4"},
	}

	users, stats := aggregate(t, rows, 0, len(rows), userSpec)
	assert.Equal(t, Stats{RowsRead: 4, RowsSkipped: 0, Distinct: 2}, stats)

	u1 := users["u1"]
	require.NotNil(t, u1)
	assert.Equal(t, int64(13), u1.SumScore, "4.9 truncates to 4")
	assert.Equal(t, int64(3), u1.Count)
	assert.Equal(t, []string{"b1", "b2"}, u1.Secondaries())
	assert.Equal(t, map[string]int64{"Amy": 2, "Amy R": 1}, u1.LabelFrequency)

	books, _ := aggregate(t, rows, 0, len(rows), bookSpec)
	b1 := books["b1"]
	require.NotNil(t, b1)
	assert.True(t, b1.Attribute.Decimal.Equal(decimal.NewFromInt(2)), "first price wins")
	assert.Equal(t, int64(3), b1.Count)
	assert.False(t, books["b2"].Attribute.Valid)
}

func TestAggregateSkipsUnusableRows(t *testing.T) {
	clean := [][]string{
		{"b1", "Dune", "2", "u1", "Amy", "4"},
		{"b1", "Dune", "2", "u2", "Bob", "4"},
	}
	noisy := [][]string{
		{"b1", "Dune", "2", "u1", "Amy", "4"},
		{"b9", "Bad", "1", "u1", "Amy", ""},
		{"b9", "Bad", "1", "", "Ghost", "5"},
		{"b1", "Dune", "2", "u2", "Bob", "4"},
		{"b9", "Bad", "1", "u2", "Bob", "abc"},
		{"b9", "Bad", "1", "u2", "Bob", "NaN"},
		{"b9", "Bad", "1", "u2", "Bob", "Inf"},
		{"b9", "Bad", "1", "u2", "Bob"},
	}

	want, _ := aggregate(t, clean, 0, len(clean), userSpec)
	got, stats := aggregate(t, noisy, 0, len(noisy), userSpec)

	assert.Equal(t, want, got)
	assert.Equal(t, 6, stats.RowsSkipped)
	assert.Equal(t, 8, stats.RowsRead)
}

func TestAggregateBlankOptionalFields(t *testing.T) {
	rows := [][]string{
		{"b1", "", "", "u1", " ", "4"},
	}

	users, _ := aggregate(t, rows, 0, 1, Spec{
		EntityColumn:    "UId",
		ScoreColumn:     "RScore",
		SecondaryColumn: "BTitle",
		LabelColumn:     "UName",
	})
	u1 := users["u1"]
	require.NotNil(t, u1)
	assert.Empty(t, u1.SecondaryIDs)
	assert.Empty(t, u1.LabelFrequency)
	assert.Equal(t, int64(1), u1.Count)
}

func TestAggregateShortRowKeepsRating(t *testing.T) {
	rows := [][]string{
		{"b1", "Dune", "2", "u1", "Amy", "5"},
		{"b1", "Dune"},
		{"b1", "Dune", "", "u2", "Bob", "5"},
	}

	books, stats := aggregate(t, rows, 0, len(rows), Spec{
		EntityColumn:    "BId",
		ScoreColumn:     "RScore",
		AttributeColumn: "BPrice",
	})
	assert.Equal(t, 1, stats.RowsSkipped, "short row has no rating")
	assert.Equal(t, int64(2), books["b1"].Count, "empty price still counts the rating")
	assert.Equal(t, price("2"), books["b1"].Attribute)
}

func TestAggregateSchemaError(t *testing.T) {
	reader := rowsource.NewMemoryReader([]string{"BId", "RScore"}, nil)

	_, _, err := Aggregate(context.Background(), reader, 0, 10, bookSpec)
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "BTitle", schemaErr.Column)
}

func TestAggregateHonoursRange(t *testing.T) {
	rows := [][]string{
		{"b1", "A", "1", "u1", "Amy", "1"},
		{"b2", "B", "1", "u1", "Amy", "2"},
		{"b3", "C", "1", "u1", "Amy", "3"},
	}

	users, stats := aggregate(t, rows, 1, 3, userSpec)
	assert.Equal(t, int64(5), users["u1"].SumScore)
	assert.Equal(t, 2, stats.RowsRead)
	assert.Equal(t, 1, stats.Distinct)
}

func TestMergeCombinesEntries(t *testing.T) {
	a := PartialMap{"b1": {SumScore: 10, Count: 2, SecondaryIDs: set("x"), LabelFrequency: map[string]int64{"Dune": 2}}}
	b := PartialMap{
		"b1": {SumScore: 5, Count: 1, SecondaryIDs: set("x", "y"), Attribute: price("2"), LabelFrequency: map[string]int64{"Dune": 1, "DUNE": 1}},
		"b2": {SumScore: 3, Count: 1, Attribute: price("7.5")},
	}

	global := Merge(a, b)
	require.Len(t, global, 2)
	assert.Equal(t, int64(15), global["b1"].SumScore)
	assert.Equal(t, int64(3), global["b1"].Count)
	assert.Equal(t, []string{"x", "y"}, global["b1"].Secondaries())
	assert.Equal(t, map[string]int64{"Dune": 3, "DUNE": 1}, global["b1"].LabelFrequency)
	assert.Equal(t, price("2"), global["b1"].Attribute)
	assert.Equal(t, price("7.5"), global["b2"].Attribute)

	assert.Equal(t, int64(10), a["b1"].SumScore, "inputs are not mutated")
	assert.Len(t, a["b1"].SecondaryIDs, 1)
}

func TestMergeAttributeFirstWriterWins(t *testing.T) {
	a := PartialMap{"b1": {Count: 1, Attribute: price("2")}}
	b := PartialMap{"b1": {Count: 1, Attribute: price("3")}}

	assert.Equal(t, price("2"), Merge(a, b)["b1"].Attribute)
	assert.Equal(t, price("3"), Merge(b, a)["b1"].Attribute)
}

func TestMergeAssociative(t *testing.T) {
	partials := []PartialMap{
		{"u1": {SumScore: 4, Count: 1, SecondaryIDs: set("b1"), LabelFrequency: map[string]int64{"Amy": 1}}},
		{"u1": {SumScore: 8, Count: 2, SecondaryIDs: set("b2", "b3")}, "u2": {SumScore: 1, Count: 1}},
		{"u2": {SumScore: 3, Count: 1, Attribute: price("1"), LabelFrequency: map[string]int64{"Bob": 2}}},
		{},
		{"u3": {SumScore: 5, Count: 1, SecondaryIDs: set("b1")}},
	}

	whole := Merge(partials...)
	for split := 0; split <= len(partials); split++ {
		left := Merge(partials[:split]...)
		right := Merge(partials[split:]...)
		assert.Equal(t, whole, Merge(left, right), "split at %d", split)
	}
}

func TestExactSumAcrossPartitions(t *testing.T) {
	var rows [][]string
	for i, score := range []string{"3", "5", "4", "4", "2", "6"} {
		rows = append(rows, []string{"b" + string(rune('a'+i)), "T", "1", "u1", "Amy", score})
	}

	for workers := 1; workers <= len(rows); workers++ {
		var partials []PartialMap
		size := len(rows) / workers
		for w := 0; w < workers; w++ {
			lo, hi := w*size, (w+1)*size
			if w == workers-1 {
				hi = len(rows)
			}
			p, _ := aggregate(t, rows, lo, hi, userSpec)
			partials = append(partials, p)
		}
		u1 := Merge(partials...)["u1"]
		assert.Equal(t, 4*u1.Count, u1.SumScore, "workers=%d", workers)
	}
}

func set(ids ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}
