package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/IshaanNene/FlavoScrape/internal/checkpoint"
	"github.com/IshaanNene/FlavoScrape/internal/config"
	"github.com/IshaanNene/FlavoScrape/internal/observability"
	"github.com/IshaanNene/FlavoScrape/internal/parser"
	"github.com/IshaanNene/FlavoScrape/internal/storage"
	"github.com/IshaanNene/FlavoScrape/internal/types"
)

// Stats tracks crawl statistics.
type Stats struct {
	RequestsSent     atomic.Int64
	RequestsFailed   atomic.Int64
	ListingPages     atomic.Int64
	EntriesCollected atomic.Int64
	EntriesSkipped   atomic.Int64
	BatchesFetched   atomic.Int64
	BatchesReloaded  atomic.Int64
	StartTime        time.Time
}

// Snapshot returns a copy of stats safe for reading.
func (s *Stats) Snapshot() map[string]any {
	return map[string]any{
		"requests_sent":     s.RequestsSent.Load(),
		"requests_failed":   s.RequestsFailed.Load(),
		"listing_pages":     s.ListingPages.Load(),
		"entries_collected": s.EntriesCollected.Load(),
		"entries_skipped":   s.EntriesSkipped.Load(),
		"batches_fetched":   s.BatchesFetched.Load(),
		"batches_reloaded":  s.BatchesReloaded.Load(),
		"elapsed":           time.Since(s.StartTime).String(),
	}
}

// Fetcher is the interface for all fetcher implementations.
type Fetcher interface {
	Fetch(ctx context.Context, req *types.Request) (*types.Response, error)
	Close() error
}

// Summary describes a finished run.
type Summary struct {
	RunID           string
	ListingPages    int
	Identifiers     int
	Batches         int
	BatchesFetched  int
	BatchesReloaded int
	Collected       int
	Skipped         int
	OutputFile      string
	SkippedFile     string // empty when nothing was skipped
	Elapsed         time.Duration
}

// Engine runs the discovery, fetch, checkpoint and aggregation pipeline.
type Engine struct {
	cfg     *config.Config
	logger  *slog.Logger
	runID   string
	fetcher Fetcher
	mirrors []storage.Storage
	metrics *observability.Metrics
	stats   *Stats
	mu      sync.Mutex
}

// New creates a new Engine with the given configuration.
func New(cfg *config.Config, logger *slog.Logger) *Engine {
	runID := uuid.NewString()
	return &Engine{
		cfg:    cfg,
		logger: logger.With("run_id", runID),
		runID:  runID,
		stats:  &Stats{},
	}
}

// SetFetcher sets the page fetcher.
func (e *Engine) SetFetcher(f Fetcher) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fetcher = f
}

// AddMirror registers a storage backend that receives the final records in
// addition to the output file. The engine closes it when the run ends.
func (e *Engine) AddMirror(s storage.Storage) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mirrors = append(e.mirrors, s)
}

// SetMetrics sets the metrics sink. Without one nothing is recorded.
func (e *Engine) SetMetrics(m *observability.Metrics) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.metrics = m
}

// RunID returns the identifier attached to this run's logs.
func (e *Engine) RunID() string { return e.runID }

// Stats returns the current crawl statistics.
func (e *Engine) Stats() *Stats { return e.stats }

// Run executes one full pipeline. Listing and checkpoint failures are
// returned as errors; entry failures only count as skipped.
func (e *Engine) Run(ctx context.Context) (*Summary, error) {
	e.mu.Lock()
	f, mirrors, metrics := e.fetcher, e.mirrors, e.metrics
	e.mirrors = nil
	e.mu.Unlock()

	if f == nil {
		closeAll(mirrors)
		return nil, errors.New("engine: no fetcher configured")
	}

	aggregated := false
	defer func() {
		if !aggregated {
			closeAll(mirrors)
		}
	}()

	crawl := e.cfg.Crawl
	e.stats.StartTime = time.Now()
	e.logger.Info("run starting",
		"listing_url", crawl.ListingURL,
		"batch_size", crawl.BatchSize,
		"concurrency", crawl.Concurrency,
	)

	pages, err := NewPaginator(f, crawl.ListingURL, crawl.NextPageText, metrics, e.stats, e.logger).Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover listing pages: %w", err)
	}
	e.logger.Info("listing pages discovered", "pages", len(pages))

	ids := CollectIdentifiers(pages, parser.IdentifierRule{Prefix: crawl.IDPrefix, Length: crawl.IDLength})
	metrics.SetIdentifiers(len(ids))
	e.logger.Info("identifiers collected", "count", len(ids))

	store, err := checkpoint.NewStore(e.cfg.Storage.CheckpointDir, e.logger)
	if err != nil {
		return nil, err
	}
	completed, err := store.ListCompleted()
	if err != nil {
		return nil, err
	}
	e.logger.Info("completed batches found", "batches", slices.Sorted(maps.Keys(completed)))

	batches := Partition(ids, crawl.BatchSize)
	skipped := &SkipList{}
	scheduler := NewBatchScheduler(
		NewEntryFetcher(f, crawl.BaseURL, metrics, e.stats, e.logger),
		store,
		skipped,
		SchedulerOptions{
			Concurrency:   crawl.Concurrency,
			ProgressEvery: crawl.ProgressEvery,
			ProgressBar:   e.cfg.Progress.Bar,
		},
		metrics,
		e.stats,
		e.logger,
	)

	records, err := scheduler.Run(ctx, batches, completed)
	if err != nil {
		return nil, err
	}

	skippedIDs := skipped.IDs()
	aggregated = true
	agg := NewAggregator(e.cfg.Storage.OutputFile, e.cfg.Storage.SkippedFile, mirrors, e.logger)
	wroteSkipped, err := agg.Write(ctx, records, skippedIDs)
	if err != nil {
		return nil, fmt.Errorf("write final output: %w", err)
	}

	summary := &Summary{
		RunID:           e.runID,
		ListingPages:    len(pages),
		Identifiers:     len(ids),
		Batches:         len(batches),
		BatchesFetched:  int(e.stats.BatchesFetched.Load()),
		BatchesReloaded: int(e.stats.BatchesReloaded.Load()),
		Collected:       len(records),
		Skipped:         len(skippedIDs),
		OutputFile:      e.cfg.Storage.OutputFile,
		Elapsed:         time.Since(e.stats.StartTime),
	}
	if wroteSkipped {
		summary.SkippedFile = e.cfg.Storage.SkippedFile
	}

	e.logger.Info("run complete", "stats", e.stats.Snapshot())
	return summary, nil
}
