package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"vacfetch/pkg/fetch"
)

// CSVSink writes rows to a CSV file with the fixed column header.
type CSVSink struct {
	path string
	file *os.File
	w    *csv.Writer
}

// DerivePath returns the default output path when none is configured:
// output/hh_vacancies_<timestamp>.csv relative to the working directory.
func DerivePath(now time.Time) string {
	return filepath.Join("output", fmt.Sprintf("hh_vacancies_%s.csv", now.Format("20060102_150405")))
}

// NewCSV creates the output file (and parent directories) and writes the
// header row. An empty path derives a timestamped default.
func NewCSV(path string) (*CSVSink, error) {
	if path == "" {
		path = DerivePath(time.Now())
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}

	w := csv.NewWriter(file)
	if err := w.Write(fetch.Columns()); err != nil {
		file.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	return &CSVSink{path: path, file: file, w: w}, nil
}

// Path returns the resolved output path.
func (s *CSVSink) Path() string {
	return s.path
}

// Write appends one row.
func (s *CSVSink) Write(_ context.Context, row fetch.FlatRow) error {
	return s.w.Write(row.Values())
}

// Close flushes buffered rows and closes the file.
func (s *CSVSink) Close() error {
	s.w.Flush()
	flushErr := s.w.Error()
	if err := s.file.Close(); err != nil {
		return err
	}
	return flushErr
}
