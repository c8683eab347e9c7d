package engine

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/IshaanNene/FlavoScrape/internal/observability"
	"github.com/IshaanNene/FlavoScrape/internal/parser"
	"github.com/IshaanNene/FlavoScrape/internal/types"
)

// EntrySource fetches one entry by identifier.
type EntrySource interface {
	Fetch(ctx context.Context, id string) types.EntryResult
}

// EntryFetcher retrieves and parses entry detail pages at <base>/wiki/<id>.
type EntryFetcher struct {
	fetcher Fetcher
	baseURL string
	metrics *observability.Metrics
	stats   *Stats
	logger  *slog.Logger
}

// NewEntryFetcher creates an EntryFetcher for the wiki at baseURL.
func NewEntryFetcher(f Fetcher, baseURL string, metrics *observability.Metrics, stats *Stats, logger *slog.Logger) *EntryFetcher {
	return &EntryFetcher{
		fetcher: f,
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: metrics,
		stats:   stats,
		logger:  logger.With("component", "entry_fetcher"),
	}
}

// URL returns the detail page address for id.
func (f *EntryFetcher) URL(id string) string {
	return f.baseURL + "/wiki/" + url.PathEscape(id)
}

// Fetch never fails: every error, and any panic while parsing, turns into
// a Skipped result.
func (f *EntryFetcher) Fetch(ctx context.Context, id string) (res types.EntryResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = types.Skipped(id, fmt.Errorf("panic while fetching entry: %v", r))
		}
		switch res.Outcome {
		case types.OutcomeCollected:
			f.stats.EntriesCollected.Add(1)
		default:
			f.stats.EntriesSkipped.Add(1)
			f.logger.Debug("entry skipped", "id", id, "error", res.Err)
		}
		f.metrics.Entry(res.Outcome.String(), time.Since(start))
	}()

	req, err := types.NewTaggedRequest(f.URL(id), types.TagEntry)
	if err != nil {
		return types.Skipped(id, err)
	}

	f.stats.RequestsSent.Add(1)
	resp, err := f.fetcher.Fetch(ctx, req)
	if err != nil {
		f.stats.RequestsFailed.Add(1)
		return types.Skipped(id, err)
	}

	doc, err := resp.Document()
	if err != nil {
		return types.Skipped(id, err)
	}

	rec := parser.ExtractEntry(doc, id)
	if !rec.Usable() {
		return types.Skipped(id, types.ErrNoFields)
	}
	return types.Collected(rec)
}
