package rowsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"

	"github.com/parquet-go/parquet-go"
	"howett.net/ranger"
)

const parquetBatchSize = 256

type parquetReader struct {
	location string
	file     *parquet.File
	closer   io.Closer
	columns  []string
	index    map[string]int
}

func openParquetFile(path string) (*parquetReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to get file stats: %w", err)
	}

	pf, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	return newParquetReader(path, pf, file), nil
}

func openRemoteParquet(u *url.URL) (*parquetReader, error) {
	reader, err := ranger.NewReader(&ranger.HTTPRanger{URL: u})
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP reader: %w", err)
	}

	length, err := reader.Length()
	if err != nil {
		return nil, fmt.Errorf("failed to get HTTP content length: %w", err)
	}

	pf, err := parquet.OpenFile(reader, length)
	if err != nil {
		return nil, fmt.Errorf("failed to open remote parquet file: %w", err)
	}

	return newParquetReader(u.String(), pf, nil), nil
}

func newParquetReader(location string, pf *parquet.File, closer io.Closer) *parquetReader {
	leaves := pf.Schema().Columns()
	columns := make([]string, len(leaves))
	for i, path := range leaves {
		// Review datasets are flat, so the leaf name is the column name.
		columns[i] = path[len(path)-1]
	}

	return &parquetReader{
		location: location,
		file:     pf,
		closer:   closer,
		columns:  columns,
		index:    buildIndex(columns),
	}
}

func (p *parquetReader) Columns() []string {
	return p.columns
}

func (p *parquetReader) ReadRange(ctx context.Context, lo, hi int, fn func(Record) error) error {
	if lo < 0 || hi < lo {
		return fmt.Errorf("invalid row range [%d, %d)", lo, hi)
	}

	groupStart := int64(0)
	for _, rowGroup := range p.file.RowGroups() {
		groupRows := rowGroup.NumRows()
		groupEnd := groupStart + groupRows
		if groupEnd <= int64(lo) {
			groupStart = groupEnd
			continue
		}
		if groupStart >= int64(hi) {
			break
		}

		from := max(int64(lo), groupStart)
		to := min(int64(hi), groupEnd)
		if err := p.readRowGroup(ctx, rowGroup, from-groupStart, to-groupStart, fn); err != nil {
			return err
		}
		groupStart = groupEnd
	}

	return nil
}

func (p *parquetReader) readRowGroup(ctx context.Context, rowGroup parquet.RowGroup, from, to int64, fn func(Record) error) error {
	rows := rowGroup.Rows()
	defer rows.Close()

	if err := rows.SeekToRow(from); err != nil {
		return fmt.Errorf("failed to seek to row %d in %s: %w", from, p.location, err)
	}

	buf := make([]parquet.Row, parquetBatchSize)
	remaining := to - from
	for remaining > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		want := min(int64(len(buf)), remaining)
		n, err := rows.ReadRows(buf[:want])
		for _, row := range buf[:n] {
			if err := fn(NewRecord(p.index, p.values(row))); err != nil {
				return fmt.Errorf("error processing row: %w", err)
			}
		}
		remaining -= int64(n)

		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read rows from %s: %w", p.location, err)
		}
		if n == 0 {
			return nil
		}
	}

	return nil
}

// values renders a parquet row as strings; nulls become blank, which Record
// reports as missing.
func (p *parquetReader) values(row parquet.Row) []string {
	values := make([]string, len(p.columns))
	for _, v := range row {
		column := v.Column()
		if column < 0 || column >= len(values) || v.IsNull() {
			continue
		}
		values[column] = formatValue(v)
	}
	return values
}

func formatValue(v parquet.Value) string {
	switch v.Kind() {
	case parquet.Boolean:
		return strconv.FormatBool(v.Boolean())
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case parquet.Float:
		return strconv.FormatFloat(float64(v.Float()), 'f', -1, 32)
	case parquet.Double:
		return strconv.FormatFloat(v.Double(), 'f', -1, 64)
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return v.String()
	}
}

func (p *parquetReader) Close() error {
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}
