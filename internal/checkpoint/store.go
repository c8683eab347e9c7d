// Package checkpoint persists the records of each completed batch so an
// interrupted run can resume without refetching finished batches.
package checkpoint

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/IshaanNene/FlavoScrape/internal/storage"
	"github.com/IshaanNene/FlavoScrape/internal/types"
)

const (
	filePrefix = "checkpoint_"
	fileExt    = ".csv"
)

// Store reads and writes per-batch checkpoint files in a single directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a Store rooted at dir, creating the directory if needed.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create checkpoint dir: %w", err)
	}
	return &Store{
		dir:    dir,
		logger: logger.With("component", "checkpoint"),
	}, nil
}

// Dir returns the checkpoint directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the checkpoint file path for a batch.
func (s *Store) Path(batch int) string {
	return filepath.Join(s.dir, filePrefix+strconv.Itoa(batch)+fileExt)
}

// Save writes the records of a completed batch. Saving no records is a
// no-op. An existing checkpoint is never overwritten; ErrCheckpointExists
// is returned instead.
func (s *Store) Save(batch int, records []types.Record) error {
	if len(records) == 0 {
		s.logger.Debug("empty batch, no checkpoint written", "batch", batch)
		return nil
	}

	finalPath := s.Path(batch)
	if _, err := os.Stat(finalPath); err == nil {
		return &types.CheckpointError{Batch: batch, Path: finalPath, Err: types.ErrCheckpointExists}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return &types.CheckpointError{Batch: batch, Path: finalPath, Err: err}
	}

	// Write to temp file, then rename
	f, err := os.CreateTemp(s.dir, ".checkpoint-*.tmp")
	if err != nil {
		return &types.CheckpointError{Batch: batch, Path: finalPath, Err: fmt.Errorf("create temp file: %w", err)}
	}
	tmpPath := f.Name()

	if err := storage.WriteRecords(f, records); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return &types.CheckpointError{Batch: batch, Path: finalPath, Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return &types.CheckpointError{Batch: batch, Path: finalPath, Err: err}
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return &types.CheckpointError{Batch: batch, Path: finalPath, Err: fmt.Errorf("rename checkpoint file: %w", err)}
	}

	s.logger.Debug("checkpoint saved", "batch", batch, "records", len(records), "path", finalPath)
	return nil
}

// ListCompleted returns the batch numbers that have a checkpoint file. The
// number is read from the text between "checkpoint_" and the next "_" or
// "."; files whose number does not parse are ignored.
func (s *Store) ListCompleted() (map[int]struct{}, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, filePrefix+"*"+fileExt))
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}

	completed := make(map[int]struct{}, len(matches))
	for _, m := range matches {
		n, ok := batchNumber(filepath.Base(m))
		if !ok {
			s.logger.Debug("ignoring unrecognised checkpoint file", "file", m)
			continue
		}
		completed[n] = struct{}{}
	}
	return completed, nil
}

// Load reads the records stored for a batch.
func (s *Store) Load(batch int) ([]types.Record, error) {
	path := s.Path(batch)
	f, err := os.Open(path)
	if err != nil {
		return nil, &types.CheckpointError{Batch: batch, Path: path, Err: err}
	}
	defer f.Close()

	records, err := storage.ReadRecords(f)
	if err != nil {
		return nil, &types.CheckpointError{Batch: batch, Path: path, Err: err}
	}
	return records, nil
}

func batchNumber(name string) (int, bool) {
	rest := strings.TrimPrefix(name, filePrefix)
	if end := strings.IndexAny(rest, "_."); end >= 0 {
		rest = rest[:end]
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}
