package aggregation

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/reviewstats/partagg/shared/rowsource"
)

// Spec names the columns a query aggregates. Secondary, label and attribute
// columns are optional.
type Spec struct {
	EntityColumn    string
	ScoreColumn     string
	SecondaryColumn string
	LabelColumn     string
	AttributeColumn string
}

// Columns returns every column an aggregation with s reads.
func (s Spec) Columns() []string {
	columns := []string{s.EntityColumn, s.ScoreColumn}
	for _, c := range []string{s.SecondaryColumn, s.LabelColumn, s.AttributeColumn} {
		if c != "" {
			columns = append(columns, c)
		}
	}
	return columns
}

// SchemaError reports a column the dataset header lacks.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("dataset is missing required column %q", e.Column)
}

// Stats describes one aggregation run.
type Stats struct {
	RowsRead    int
	RowsSkipped int
	// Distinct is the number of entity ids in the partial map.
	Distinct int
}

// CheckSchema verifies that every column of spec is in the header.
func CheckSchema(columns []string, spec Spec) error {
	present := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		present[c] = struct{}{}
	}
	for _, c := range spec.Columns() {
		if c == "" {
			return fmt.Errorf("aggregation spec has an empty required column")
		}
		if _, ok := present[c]; !ok {
			return &SchemaError{Column: c}
		}
	}
	return nil
}

// Aggregate reads rows [lo, hi) and builds the partial map of that range.
// Rows without a usable score or entity id are skipped.
func Aggregate(ctx context.Context, reader rowsource.Reader, lo, hi int, spec Spec) (PartialMap, Stats, error) {
	if err := CheckSchema(reader.Columns(), spec); err != nil {
		return nil, Stats{}, err
	}

	partial := make(PartialMap)
	var stats Stats

	err := reader.ReadRange(ctx, lo, hi, func(record rowsource.Record) error {
		stats.RowsRead++
		if !accumulate(partial, record, spec) {
			stats.RowsSkipped++
		}
		return nil
	})
	if err != nil {
		return nil, stats, fmt.Errorf("failed to aggregate rows [%d, %d): %w", lo, hi, err)
	}

	stats.Distinct = len(partial)
	return partial, stats, nil
}

func accumulate(partial PartialMap, record rowsource.Record, spec Spec) bool {
	score, ok := parseScore(record, spec.ScoreColumn)
	if !ok {
		return false
	}
	id, ok := record.Get(spec.EntityColumn)
	if !ok {
		return false
	}

	e := partial.entry(id)
	e.Count++
	e.SumScore += score

	if spec.SecondaryColumn != "" {
		if secondary, ok := record.Get(spec.SecondaryColumn); ok {
			e.AddSecondary(secondary)
		}
	}
	if spec.LabelColumn != "" {
		if label, ok := record.Get(spec.LabelColumn); ok {
			e.AddLabel(label, 1)
		}
	}
	if spec.AttributeColumn != "" && !e.Attribute.Valid {
		if raw, ok := record.Get(spec.AttributeColumn); ok {
			if price, err := decimal.NewFromString(raw); err == nil {
				e.Attribute = decimal.NewNullDecimal(price)
			}
		}
	}
	return true
}

// parseScore reads a numeric score and truncates it toward zero.
func parseScore(record rowsource.Record, column string) (int64, bool) {
	raw, ok := record.Get(column)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}
