package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/IshaanNene/FlavoScrape/internal/types"
)

// --- CSV Storage ---

// CSVStorage buffers records and writes them as a single CSV table on Close.
// The header row is written even when no records were stored.
type CSVStorage struct {
	path    string
	records []types.Record
	mu      sync.Mutex
	logger  *slog.Logger
}

// NewCSVStorage creates a new CSV file storage.
func NewCSVStorage(outputPath string, logger *slog.Logger) (*CSVStorage, error) {
	if err := ensureDir(outputPath); err != nil {
		return nil, err
	}

	return &CSVStorage{
		path:   outputPath,
		logger: logger.With("component", "csv_storage"),
	}, nil
}

func (s *CSVStorage) Name() string { return "csv" }

// Path returns the output file path.
func (s *CSVStorage) Path() string { return s.path }

func (s *CSVStorage) Store(_ context.Context, records []types.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
	s.logger.Debug("records buffered", "count", len(records), "total", len(s.records))
	return nil
}

func (s *CSVStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Create(s.path)
	if err != nil {
		return &types.StorageError{Backend: s.Name(), Err: fmt.Errorf("create output file: %w", err)}
	}

	if err := WriteRecords(f, s.records); err != nil {
		f.Close()
		return &types.StorageError{Backend: s.Name(), Err: err}
	}
	if err := f.Close(); err != nil {
		return &types.StorageError{Backend: s.Name(), Err: fmt.Errorf("close output file: %w", err)}
	}

	s.logger.Info("CSV written", "path", s.path, "records", len(s.records))
	return nil
}

// --- Skipped IDs ---

// WriteSkipped writes ids as a single-column CSV table headed Skipped_IDs.
func WriteSkipped(path string, ids []string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return &types.StorageError{Backend: "skipped", Err: fmt.Errorf("create skipped file: %w", err)}
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{ColumnSkippedID}); err != nil {
		return &types.StorageError{Backend: "skipped", Err: err}
	}
	for _, id := range ids {
		if err := w.Write([]string{id}); err != nil {
			return &types.StorageError{Backend: "skipped", Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return &types.StorageError{Backend: "skipped", Err: err}
	}
	return f.Close()
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}
