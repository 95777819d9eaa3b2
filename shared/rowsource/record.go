package rowsource

import "strings"

// Record is one dataset row with fields addressed by column name.
type Record struct {
	index  map[string]int
	values []string
}

// NewRecord builds a record over a shared column index.
func NewRecord(index map[string]int, values []string) Record {
	return Record{index: index, values: values}
}

// Get returns the trimmed value of a column. ok is false when the column is
// unknown, the row is too short to hold it, or the value is blank.
func (r Record) Get(column string) (value string, ok bool) {
	i, found := r.index[column]
	if !found || i >= len(r.values) {
		return "", false
	}
	value = strings.TrimSpace(r.values[i])
	if value == "" {
		return "", false
	}
	return value, true
}

func buildIndex(columns []string) map[string]int {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; !dup {
			index[c] = i
		}
	}
	return index
}
