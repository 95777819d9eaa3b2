package rowsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// csvReader reads a header-first CSV file. Each ReadRange call reopens the
// file so a reader can serve several ranges.
type csvReader struct {
	path    string
	columns []string
	index   map[string]int
}

func openCSV(path string) (*csvReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	header, err := newCSVParser(file).Read()
	if err == io.EOF {
		return nil, fmt.Errorf("dataset %s has no header", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}
	columns[0] = strings.TrimPrefix(columns[0], "\ufeff")

	return &csvReader{
		path:    path,
		columns: columns,
		index:   buildIndex(columns),
	}, nil
}

func newCSVParser(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	// Short rows are allowed: their trailing fields read as missing.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader
}

func (c *csvReader) Columns() []string {
	return c.columns
}

func (c *csvReader) ReadRange(ctx context.Context, lo, hi int, fn func(Record) error) error {
	if lo < 0 || hi < lo {
		return fmt.Errorf("invalid row range [%d, %d)", lo, hi)
	}

	file, err := os.Open(c.path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := newCSVParser(file)
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to read header: %w", err)
	}

	for row := 0; row < hi; row++ {
		if row%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		values, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read row %d: %w", row, err)
		}
		if row < lo {
			continue
		}

		if err := fn(NewRecord(c.index, values)); err != nil {
			return fmt.Errorf("error processing row %d: %w", row, err)
		}
	}

	return nil
}

func (c *csvReader) Close() error {
	return nil
}
