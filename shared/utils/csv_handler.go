package utils

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// CSVHandler writes header-first CSV datasets under a base directory
type CSVHandler struct {
	baseDir string
}

// NewCSVHandler creates a new CSV handler
func NewCSVHandler(baseDir string) *CSVHandler {
	return &CSVHandler{
		baseDir: baseDir,
	}
}

// Path returns the location of a dataset file
func (h *CSVHandler) Path(name string) string {
	return filepath.Join(h.baseDir, name)
}

// AppendRows appends rows to a dataset, writing the header if the file is new.
// Rows may be shorter than the header. Returns the dataset path.
func (h *CSVHandler) AppendRows(name string, rows [][]string, columns []string) (string, error) {
	filePath := h.Path(name)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat file: %w", err)
	}

	writer := csv.NewWriter(file)
	if stat.Size() == 0 && len(columns) > 0 {
		if err := writer.Write(columns); err != nil {
			return "", fmt.Errorf("failed to write header: %w", err)
		}
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return "", fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush rows: %w", err)
	}
	if err := file.Sync(); err != nil {
		return "", fmt.Errorf("failed to sync file: %w", err)
	}

	return filePath, nil
}

// DeleteFile deletes a dataset file
func (h *CSVHandler) DeleteFile(name string) error {
	if err := os.Remove(h.Path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
