package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/IshaanNene/FlavoScrape/internal/checkpoint"
	"github.com/IshaanNene/FlavoScrape/internal/observability"
	"github.com/IshaanNene/FlavoScrape/internal/types"
)

// Batch is a contiguous, 1-based numbered slice of the identifier list.
type Batch struct {
	Number int
	IDs    []string
}

// Partition splits ids into consecutive batches of at most size identifiers.
func Partition(ids []string, size int) []Batch {
	if size <= 0 {
		size = 1
	}
	batches := make([]Batch, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		batches = append(batches, Batch{Number: len(batches) + 1, IDs: ids[start:end]})
	}
	return batches
}

// SchedulerOptions configures a BatchScheduler.
type SchedulerOptions struct {
	Concurrency   int
	ProgressEvery int
	ProgressBar   bool
}

// BatchScheduler processes batches one after another, fetching the entries
// of each batch on a bounded worker pool.
type BatchScheduler struct {
	source  EntrySource
	store   *checkpoint.Store
	skipped *SkipList
	opts    SchedulerOptions
	metrics *observability.Metrics
	stats   *Stats
	logger  *slog.Logger
}

// NewBatchScheduler creates a BatchScheduler. Skipped identifiers are
// appended to skipped.
func NewBatchScheduler(source EntrySource, store *checkpoint.Store, skipped *SkipList, opts SchedulerOptions, metrics *observability.Metrics, stats *Stats, logger *slog.Logger) *BatchScheduler {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = 50
	}
	return &BatchScheduler{
		source:  source,
		store:   store,
		skipped: skipped,
		opts:    opts,
		metrics: metrics,
		stats:   stats,
		logger:  logger.With("component", "scheduler"),
	}
}

// Run processes batches in order. Batches listed in completed are reloaded
// from their checkpoint; the rest are fetched and then checkpointed. The
// records of every batch are returned in batch order.
func (s *BatchScheduler) Run(ctx context.Context, batches []Batch, completed map[int]struct{}) ([]types.Record, error) {
	var all []types.Record

	for _, b := range batches {
		if _, done := completed[b.Number]; done {
			records, err := s.store.Load(b.Number)
			if err != nil {
				return nil, err
			}
			s.logger.Info("batch already completed, loaded from checkpoint", "batch", b.Number, "records", len(records))
			s.stats.BatchesReloaded.Add(1)
			s.metrics.Batch("checkpoint")
			all = append(all, records...)
			continue
		}

		s.logger.Info("processing batch", "batch", b.Number, "of", len(batches), "entries", len(b.IDs))
		records, err := s.fetchBatch(ctx, b)
		if err != nil {
			return nil, err
		}

		if err := s.store.Save(b.Number, records); err != nil {
			return nil, err
		}
		s.metrics.Checkpointed(len(records))
		s.stats.BatchesFetched.Add(1)
		s.metrics.Batch("fetched")
		s.logger.Info("batch completed", "batch", b.Number, "collected", len(records), "skipped_total", s.skipped.Len())

		all = append(all, records...)
	}

	return all, nil
}

// fetchBatch fetches every entry of b and returns the collected records in
// completion order. A batch cut short by cancellation is discarded; one
// whose entries all finished before ctx was cancelled is kept.
func (s *BatchScheduler) fetchBatch(ctx context.Context, b Batch) ([]types.Record, error) {
	results := make(chan types.EntryResult, len(b.IDs))

	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)
	go func() {
		defer close(results)
		for _, id := range b.IDs {
			if ctx.Err() != nil {
				break
			}
			g.Go(func() error {
				results <- s.source.Fetch(ctx, id)
				return nil
			})
		}
		_ = g.Wait()
	}()

	var bar *progressbar.ProgressBar
	if s.opts.ProgressBar {
		bar = observability.NewBatchBar(b.Number, len(b.IDs))
		defer bar.Finish()
	}

	records := make([]types.Record, 0, len(b.IDs))
	done := 0
	interrupted := false
	for res := range results {
		done++
		if res.Outcome == types.OutcomeCollected {
			records = append(records, res.Record)
		} else {
			s.skipped.Add(res.ID)
			// a skip seen after cancellation may be caused by it
			if ctx.Err() != nil {
				interrupted = true
			}
		}
		if bar != nil {
			_ = bar.Add(1)
		}
		if done%s.opts.ProgressEvery == 0 || done == len(b.IDs) {
			s.logger.Info("batch progress", "batch", b.Number, "done", done, "total", len(b.IDs))
		}
	}

	if done == len(b.IDs) && !interrupted {
		return records, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch %d interrupted after %d of %d entries: %w", b.Number, done, len(b.IDs), err)
	}
	return records, nil
}
