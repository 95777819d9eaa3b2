package rowsource

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"howett.net/ranger"
)

// Reader streams the rows of a dataset. It is never mutated by its callers.
type Reader interface {
	// Columns returns the dataset header.
	Columns() []string
	// ReadRange calls fn for every row in [lo, hi), in file order. Rows past
	// the end of the dataset are silently absent.
	ReadRange(ctx context.Context, lo, hi int, fn func(Record) error) error
	Close() error
}

// Open picks a reader for the location: CSV files, local parquet files or
// parquet files served over HTTP.
func Open(location string) (Reader, error) {
	if location == "" {
		return nil, fmt.Errorf("dataset location is empty")
	}

	if isRemote(location) {
		u, err := url.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("invalid dataset url %q: %w", location, err)
		}
		if !strings.EqualFold(filepath.Ext(u.Path), ".parquet") {
			return nil, fmt.Errorf("remote datasets must be parquet files: %s", location)
		}
		return openRemoteParquet(u)
	}

	switch strings.ToLower(filepath.Ext(location)) {
	case ".parquet":
		return openParquetFile(location)
	default:
		return openCSV(location)
	}
}

// Probe checks that the dataset exists and can be reached.
func Probe(location string) error {
	if location == "" {
		return fmt.Errorf("dataset location is empty")
	}

	if isRemote(location) {
		u, err := url.Parse(location)
		if err != nil {
			return fmt.Errorf("invalid dataset url %q: %w", location, err)
		}
		reader, err := ranger.NewReader(&ranger.HTTPRanger{URL: u})
		if err != nil {
			return fmt.Errorf("dataset %s unreachable: %w", location, err)
		}
		if _, err := reader.Length(); err != nil {
			return fmt.Errorf("dataset %s unreachable: %w", location, err)
		}
		return nil
	}

	info, err := os.Stat(location)
	if err != nil {
		return fmt.Errorf("dataset %s unreachable: %w", location, err)
	}
	if info.IsDir() {
		return fmt.Errorf("dataset %s is a directory", location)
	}
	return nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
