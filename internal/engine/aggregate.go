package engine

import (
	"context"
	"errors"
	"log/slog"

	"github.com/IshaanNene/FlavoScrape/internal/storage"
	"github.com/IshaanNene/FlavoScrape/internal/types"
)

// Aggregator writes the final artifacts of a run.
type Aggregator struct {
	outputFile  string
	skippedFile string
	mirrors     []storage.Storage
	logger      *slog.Logger
}

// NewAggregator creates an Aggregator. Mirrors receive the final records in
// addition to the output file and are closed by Write.
func NewAggregator(outputFile, skippedFile string, mirrors []storage.Storage, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		outputFile:  outputFile,
		skippedFile: skippedFile,
		mirrors:     mirrors,
		logger:      logger.With("component", "aggregator"),
	}
}

// Write stores records in the output file and every mirror. The output file
// is always written, even when records is empty. The skipped file is
// written only when skipped is non-empty; wroteSkipped reports whether it was.
func (a *Aggregator) Write(ctx context.Context, records []types.Record, skipped []string) (wroteSkipped bool, err error) {
	out, err := storage.NewCSVStorage(a.outputFile, a.logger)
	if err != nil {
		closeAll(a.mirrors)
		return false, err
	}

	sink := storage.NewMultiStorage(append([]storage.Storage{out}, a.mirrors...), a.logger)
	storeErr := sink.Store(ctx, records)
	if closeErr := sink.Close(); closeErr != nil || storeErr != nil {
		return false, errors.Join(storeErr, closeErr)
	}
	a.logger.Info("final output written", "path", out.Path(), "records", len(records))

	if len(skipped) == 0 {
		return false, nil
	}
	if err := storage.WriteSkipped(a.skippedFile, skipped); err != nil {
		return false, err
	}
	a.logger.Info("skipped identifiers written", "path", a.skippedFile, "count", len(skipped))
	return true, nil
}

func closeAll(backends []storage.Storage) {
	for _, b := range backends {
		_ = b.Close()
	}
}
