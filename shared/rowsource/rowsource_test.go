package rowsource

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "\ufeffId,Title,Price,User_id,profileName,review/score\n" +
	"b1,Dune,2.0,u1,Amy,5\n" +
	"b2,\"Emma, Vol. 1\",,u2,Bob,4.0\n" +
	"b3,Ulysses,9.5,u3\n" +
	"b4,Walden,1.25,u4,Zoe,abc\n" +
	"b5,Beloved,3,u5,Ann,2\n"

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reviews.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func collect(t *testing.T, r Reader, lo, hi int, column string) []string {
	t.Helper()
	var out []string
	err := r.ReadRange(context.Background(), lo, hi, func(rec Record) error {
		v, _ := rec.Get(column)
		out = append(out, v)
		return nil
	})
	require.NoError(t, err)
	return out
}

func TestCSVReaderColumns(t *testing.T) {
	r, err := Open(writeCSV(t, sampleCSV))
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, []string{"Id", "Title", "Price", "User_id", "profileName", "review/score"}, r.Columns())
}

func TestCSVReaderRanges(t *testing.T) {
	r, err := Open(writeCSV(t, sampleCSV))
	require.NoError(t, err)
	defer r.Close()

	tests := []struct {
		name   string
		lo, hi int
		want   []string
	}{
		{"all rows", 0, 5, []string{"b1", "b2", "b3", "b4", "b5"}},
		{"middle", 1, 3, []string{"b2", "b3"}},
		{"past the end", 3, 100, []string{"b4", "b5"}},
		{"empty", 2, 2, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, collect(t, r, tt.lo, tt.hi, "Id"))
		})
	}
}

func TestCSVRecordMissingFields(t *testing.T) {
	r, err := Open(writeCSV(t, sampleCSV))
	require.NoError(t, err)
	defer r.Close()

	var records []Record
	require.NoError(t, r.ReadRange(context.Background(), 0, 5, func(rec Record) error {
		records = append(records, rec)
		return nil
	}))
	require.Len(t, records, 5)

	title, ok := records[1].Get("Title")
	assert.True(t, ok)
	assert.Equal(t, "Emma, Vol. 1", title)

	_, ok = records[1].Get("Price")
	assert.False(t, ok, "blank price is missing")

	_, ok = records[2].Get("review/score")
	assert.False(t, ok, "short row has no score")

	_, ok = records[0].Get("unknown")
	assert.False(t, ok)
}

func TestCSVReaderRejectsInvalidRange(t *testing.T) {
	r, err := Open(writeCSV(t, sampleCSV))
	require.NoError(t, err)

	err = r.ReadRange(context.Background(), 3, 1, func(Record) error { return nil })
	assert.Error(t, err)
}

func TestOpenEmptyCSV(t *testing.T) {
	_, err := Open(writeCSV(t, ""))
	assert.Error(t, err)
}

type reviewRow struct {
	Id    string   `parquet:"Id"`
	Title string   `parquet:"Title"`
	Price *float64 `parquet:"Price,optional"`
	Score float64  `parquet:"score"`
}

func TestParquetReaderRanges(t *testing.T) {
	price := 2.0
	rows := []reviewRow{
		{Id: "b1", Title: "Dune", Price: &price, Score: 5},
		{Id: "b2", Title: "Emma", Score: 4},
		{Id: "b3", Title: "Ulysses", Price: &price, Score: 3.5},
	}

	path := filepath.Join(t.TempDir(), "reviews.parquet")
	require.NoError(t, parquet.WriteFile(path, rows))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	assert.ElementsMatch(t, []string{"Id", "Title", "Price", "score"}, r.Columns())
	assert.Equal(t, []string{"b2", "b3"}, collect(t, r, 1, 10, "Id"))
	assert.Equal(t, []string{"2", "", "2"}, collect(t, r, 0, 3, "Price"))
	assert.Equal(t, []string{"5", "4", "3.5"}, collect(t, r, 0, 3, "score"))
}

func TestMemoryReader(t *testing.T) {
	r := NewMemoryReader([]string{"Id", "review/score"}, [][]string{{"b1", "5"}, {"b2"}, {"b3", " 1 "}})

	assert.Equal(t, []string{"5", "", "1"}, collect(t, r, 0, 3, "review/score"))
	assert.Equal(t, []string{"b3"}, collect(t, r, 2, 9, "Id"))
}

func TestProbe(t *testing.T) {
	assert.NoError(t, Probe(writeCSV(t, sampleCSV)))
	assert.Error(t, Probe(filepath.Join(t.TempDir(), "missing.csv")))
	assert.Error(t, Probe(t.TempDir()))
	assert.Error(t, Probe(""))
}

func TestOpenRejectsRemoteCSV(t *testing.T) {
	_, err := Open("https://example.com/reviews.csv")
	assert.Error(t, err)
}
