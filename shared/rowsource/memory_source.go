package rowsource

import (
	"context"
	"fmt"
)

// MemoryReader serves rows held in memory. Used by tests and small inline
// datasets.
type MemoryReader struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// NewMemoryReader builds a reader over the given header and rows.
func NewMemoryReader(columns []string, rows [][]string) *MemoryReader {
	return &MemoryReader{
		columns: columns,
		index:   buildIndex(columns),
		rows:    rows,
	}
}

func (m *MemoryReader) Columns() []string {
	return m.columns
}

func (m *MemoryReader) ReadRange(ctx context.Context, lo, hi int, fn func(Record) error) error {
	if lo < 0 || hi < lo {
		return fmt.Errorf("invalid row range [%d, %d)", lo, hi)
	}
	for i := lo; i < hi && i < len(m.rows); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(NewRecord(m.index, m.rows[i])); err != nil {
			return fmt.Errorf("error processing row %d: %w", i, err)
		}
	}
	return nil
}

func (m *MemoryReader) Close() error {
	return nil
}
