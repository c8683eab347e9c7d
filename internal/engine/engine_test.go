package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/IshaanNene/FlavoScrape/internal/checkpoint"
	"github.com/IshaanNene/FlavoScrape/internal/config"
	"github.com/IshaanNene/FlavoScrape/internal/fetcher"
	"github.com/IshaanNene/FlavoScrape/internal/observability"
	"github.com/IshaanNene/FlavoScrape/internal/storage"
	"github.com/IshaanNene/FlavoScrape/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

// --- Fake Wiki ---

// fakeWiki serves listing pages and entry pages. Entries in missing answer
// 404; entries in empty render a page without any matching rows.
type fakeWiki struct {
	listing [][]string
	missing map[string]bool
	empty   map[string]bool
	padded  map[string]bool
	broken  bool

	mu   sync.Mutex
	hits map[string]int
}

func newFakeWiki(listing ...[]string) *fakeWiki {
	return &fakeWiki{
		listing: listing,
		missing: make(map[string]bool),
		empty:   make(map[string]bool),
		padded:  make(map[string]bool),
		hits:    make(map[string]int),
	}
}

func (w *fakeWiki) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	w.mu.Lock()
	w.hits[r.URL.Path]++
	w.mu.Unlock()

	switch {
	case r.URL.Path == "/listing":
		if w.broken {
			http.Error(rw, "maintenance", http.StatusServiceUnavailable)
			return
		}
		var page int
		fmt.Sscanf(r.URL.Query().Get("page"), "%d", &page)
		if page < 1 || page > len(w.listing) {
			http.NotFound(rw, r)
			return
		}
		var b strings.Builder
		b.WriteString("<html><body><ul>")
		for _, id := range w.listing[page-1] {
			fmt.Fprintf(&b, `<li><a href="/wiki/%s">%s</a></li>`, id, id)
		}
		b.WriteString("</ul>")
		if page < len(w.listing) {
			fmt.Fprintf(&b, `<p>(<a href="/listing?page=%d&amp;limit=500">next 500</a>)</p>`, page+1)
		}
		b.WriteString("</body></html>")
		rw.Write([]byte(b.String()))

	case strings.HasPrefix(r.URL.Path, "/wiki/"):
		id := strings.TrimPrefix(r.URL.Path, "/wiki/")
		if w.missing[id] {
			http.NotFound(rw, r)
			return
		}
		if w.empty[id] {
			rw.Write([]byte(`<html><body><table><tr><td>Formula</td><td>C15H10O2</td></tr></table></body></html>`))
			return
		}
		if w.padded[id] {
			fmt.Fprintf(rw, "<!-- %s -->", strings.Repeat("x", 4096))
		}
		fmt.Fprintf(rw, `<html><body><table>
			<tr><td>Systematic Name</td><td>name of %s</td></tr>
			<tr><td>SMILES</td><td>C%s</td></tr>
			<tr><td>Average Mass</td><td>268.2 g/mol</td></tr>
		</table></body></html>`, id, id)

	default:
		http.NotFound(rw, r)
	}
}

func (w *fakeWiki) entryHits() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for path, c := range w.hits {
		if strings.HasPrefix(path, "/wiki/") {
			n += c
		}
	}
	return n
}

func (w *fakeWiki) hitsFor(id string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.hits["/wiki/"+id]
}

func testConfig(t *testing.T, srvURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Crawl.BaseURL = srvURL
	cfg.Crawl.ListingURL = srvURL + "/listing?page=1"
	cfg.Crawl.BatchSize = 2
	cfg.Crawl.Concurrency = 3
	cfg.Crawl.RequestTimeout = 5 * time.Second
	cfg.Storage.CheckpointDir = filepath.Join(dir, "checkpoints")
	cfg.Storage.OutputFile = filepath.Join(dir, "flavonoids_final.csv")
	cfg.Storage.SkippedFile = filepath.Join(dir, "skipped_entries.csv")
	cfg.Progress.Bar = false
	return cfg
}

func newTestEngine(t *testing.T, cfg *config.Config) *Engine {
	t.Helper()
	f, err := fetcher.NewHTTPFetcher(cfg, testLogger, nil)
	if err != nil {
		t.Fatalf("create fetcher: %v", err)
	}
	t.Cleanup(func() { f.Close() })

	e := New(cfg, testLogger)
	e.SetFetcher(f)
	return e
}

func readOutput(t *testing.T, path string) []types.Record {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	records, err := storage.ReadRecords(f)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return records
}

func countCheckpoints(t *testing.T, dir string) int {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "checkpoint_*.csv"))
	if err != nil {
		t.Fatal(err)
	}
	return len(matches)
}

// --- Engine Tests ---

func TestRunEndToEnd(t *testing.T) {
	wiki := newFakeWiki(
		[]string{"FL0000000001", "FL0000000002", "FL0000000003"},
		[]string{"FL0000000004", "FL0000000001", "FL0000000005"},
	)
	wiki.missing["FL0000000005"] = true
	srv := httptest.NewServer(wiki)
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	e := newTestEngine(t, cfg)
	e.SetMetrics(metrics)

	summary, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	const count, skipped = 6, 1
	if summary.ListingPages != 2 {
		t.Errorf("expected 2 listing pages, got %d", summary.ListingPages)
	}
	if summary.Identifiers != count {
		t.Errorf("duplicates must be kept: expected %d identifiers, got %d", count, summary.Identifiers)
	}
	if summary.Batches != 3 || summary.BatchesFetched != 3 || summary.BatchesReloaded != 0 {
		t.Errorf("unexpected batch counts: %+v", summary)
	}
	if got := countCheckpoints(t, cfg.Storage.CheckpointDir); got != 3 {
		t.Errorf("expected 3 checkpoint files, got %d", got)
	}

	records := readOutput(t, cfg.Storage.OutputFile)
	if len(records) != count-skipped || summary.Collected != count-skipped {
		t.Errorf("expected %d merged rows, got %d (summary %d)", count-skipped, len(records), summary.Collected)
	}
	for _, rec := range records {
		if rec.AverageMass != "268" || rec.SMILES != "C"+rec.ID {
			t.Errorf("unexpected record %+v", rec)
		}
	}

	if summary.Skipped != skipped || summary.SkippedFile != cfg.Storage.SkippedFile {
		t.Errorf("unexpected skipped summary: %+v", summary)
	}
	data, err := os.ReadFile(cfg.Storage.SkippedFile)
	if err != nil {
		t.Fatalf("read skipped file: %v", err)
	}
	if string(data) != "Skipped_IDs\nFL0000000005\n" {
		t.Errorf("unexpected skipped file %q", data)
	}

	if got := testutil.ToFloat64(metrics.Entries.WithLabelValues("skipped")); got != skipped {
		t.Errorf("expected %d skipped in metrics, got %v", skipped, got)
	}
	if got := testutil.ToFloat64(metrics.Identifiers); got != count {
		t.Errorf("expected identifiers gauge %d, got %v", count, got)
	}
}

func TestRunResumeSkipsCheckpointedBatches(t *testing.T) {
	wiki := newFakeWiki([]string{"FL0000000001", "FL0000000002", "FL0000000003", "FL0000000004"})
	srv := httptest.NewServer(wiki)
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	if _, err := newTestEngine(t, cfg).Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first := readOutput(t, cfg.Storage.OutputFile)
	hits := wiki.entryHits()
	if hits != 4 {
		t.Fatalf("expected 4 entry fetches, got %d", hits)
	}

	summary, err := newTestEngine(t, cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if wiki.entryHits() != hits {
		t.Errorf("checkpointed batches were refetched: %d new entry fetches", wiki.entryHits()-hits)
	}
	if summary.BatchesReloaded != 2 || summary.BatchesFetched != 0 {
		t.Errorf("expected 2 reloaded batches, got %+v", summary)
	}
	if summary.SkippedFile != "" {
		t.Errorf("no skipped file expected, got %q", summary.SkippedFile)
	}

	second := readOutput(t, cfg.Storage.OutputFile)
	if len(first) != len(second) {
		t.Fatalf("expected %d rows after resume, got %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("row %d differs after resume: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestRunAllSkippedBatchIsRetried(t *testing.T) {
	wiki := newFakeWiki([]string{"FL0000000001", "FL0000000002", "FL0000000003", "FL0000000004"})
	wiki.missing["FL0000000003"] = true
	wiki.empty["FL0000000004"] = true
	srv := httptest.NewServer(wiki)
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	summary, err := newTestEngine(t, cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if summary.Skipped != 2 || summary.Collected != 2 {
		t.Errorf("unexpected summary %+v", summary)
	}
	if _, err := os.Stat(filepath.Join(cfg.Storage.CheckpointDir, "checkpoint_2.csv")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("all-skipped batch must not be checkpointed: %v", err)
	}

	if _, err := newTestEngine(t, cfg).Run(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if wiki.hitsFor("FL0000000001") != 1 {
		t.Errorf("batch 1 should not be refetched, got %d hits", wiki.hitsFor("FL0000000001"))
	}
	if wiki.hitsFor("FL0000000003") != 2 || wiki.hitsFor("FL0000000004") != 2 {
		t.Errorf("batch 2 should be retried: hits %d, %d", wiki.hitsFor("FL0000000003"), wiki.hitsFor("FL0000000004"))
	}
}

func TestRunPaginationFailureIsFatal(t *testing.T) {
	wiki := newFakeWiki([]string{"FL0000000001"})
	wiki.broken = true
	srv := httptest.NewServer(wiki)
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	_, err := newTestEngine(t, cfg).Run(context.Background())

	var fetchErr *types.FetchError
	if !errors.As(err, &fetchErr) || fetchErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected fatal FetchError, got %v", err)
	}
	if _, err := os.Stat(cfg.Storage.OutputFile); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("no final output expected after a fatal error: %v", err)
	}
	if wiki.entryHits() != 0 {
		t.Errorf("no entries should be fetched, got %d", wiki.entryHits())
	}
}

func TestRunOversizedListingPageIsFatal(t *testing.T) {
	wiki := newFakeWiki(
		[]string{"FL0000000001", "FL0000000002"},
		[]string{"FL0000000003"},
	)
	srv := httptest.NewServer(wiki)
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	cfg.Fetcher.MaxBodySize = 120
	_, err := newTestEngine(t, cfg).Run(context.Background())
	if !errors.Is(err, types.ErrBodyTooLarge) {
		t.Fatalf("expected ErrBodyTooLarge, got %v", err)
	}
	if wiki.entryHits() != 0 {
		t.Errorf("no entries should be fetched, got %d", wiki.entryHits())
	}
	if _, err := os.Stat(cfg.Storage.OutputFile); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("no final output expected after a fatal error: %v", err)
	}
}

func TestRunOversizedEntryIsSkipped(t *testing.T) {
	wiki := newFakeWiki([]string{"FL0000000001", "FL0000000002"})
	wiki.padded["FL0000000002"] = true
	srv := httptest.NewServer(wiki)
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	cfg.Fetcher.MaxBodySize = 2048
	summary, err := newTestEngine(t, cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Collected != 1 || summary.Skipped != 1 {
		t.Errorf("expected 1 collected and 1 skipped, got %+v", summary)
	}
	records := readOutput(t, cfg.Storage.OutputFile)
	if len(records) != 1 || records[0].ID != "FL0000000001" {
		t.Errorf("oversized entry must not be collected, got %+v", records)
	}
}

func TestRunEmptyListingWritesHeaderOnly(t *testing.T) {
	wiki := newFakeWiki([]string{})
	srv := httptest.NewServer(wiki)
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	summary, err := newTestEngine(t, cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Identifiers != 0 || summary.Batches != 0 {
		t.Errorf("unexpected summary %+v", summary)
	}
	if records := readOutput(t, cfg.Storage.OutputFile); len(records) != 0 {
		t.Errorf("expected empty output, got %d rows", len(records))
	}
	if _, err := os.Stat(cfg.Storage.SkippedFile); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("skipped file should not exist: %v", err)
	}
}

func TestRunWithoutFetcher(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	if _, err := New(cfg, testLogger).Run(context.Background()); err == nil {
		t.Fatal("expected error without fetcher")
	}
}

// --- Paginator Tests ---

func TestPaginatorMissingHrefIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><ul><li><a>FL0000000001</a></li></ul><a>Next 500</a></body></html>`))
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	f, err := fetcher.NewHTTPFetcher(cfg, testLogger, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	_, err = NewPaginator(f, srv.URL, "next 500", nil, &Stats{}, testLogger).Discover(context.Background())
	if !errors.Is(err, types.ErrMissingHref) {
		t.Fatalf("expected ErrMissingHref, got %v", err)
	}
}

func TestPaginatorStopsOnSelfLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><a href="/">next 500</a></body></html>`))
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	f, err := fetcher.NewHTTPFetcher(cfg, testLogger, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	pages, err := NewPaginator(f, srv.URL+"/", "next 500", nil, &Stats{}, testLogger).Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(pages) != 1 {
		t.Errorf("expected 1 page, got %d", len(pages))
	}
}

// --- Entry Fetcher Tests ---

type fetcherFunc func(ctx context.Context, req *types.Request) (*types.Response, error)

func (f fetcherFunc) Fetch(ctx context.Context, req *types.Request) (*types.Response, error) {
	return f(ctx, req)
}
func (f fetcherFunc) Close() error { return nil }

func staticPage(body string) fetcherFunc {
	return func(_ context.Context, req *types.Request) (*types.Response, error) {
		return &types.Response{StatusCode: 200, Body: []byte(body), Request: req, FinalURL: req.URLString()}, nil
	}
}

func TestEntryFetcherCollected(t *testing.T) {
	var gotURL string
	f := fetcherFunc(func(ctx context.Context, req *types.Request) (*types.Response, error) {
		gotURL = req.URLString()
		return staticPage(`<table><tr><td>SMILES</td><td>CCO</td></tr></table>`)(ctx, req)
	})
	stats := &Stats{}
	res := NewEntryFetcher(f, "http://metabolomics.jp/", nil, stats, testLogger).Fetch(context.Background(), "FL0000000001")

	if res.Outcome != types.OutcomeCollected || res.Record.SMILES != "CCO" || res.Record.ID != "FL0000000001" {
		t.Errorf("unexpected result %+v", res)
	}
	if gotURL != "http://metabolomics.jp/wiki/FL0000000001" {
		t.Errorf("unexpected entry URL %q", gotURL)
	}
	if stats.EntriesCollected.Load() != 1 {
		t.Errorf("expected collected stat to be 1")
	}
}

func TestEntryFetcherNoFieldsSkipped(t *testing.T) {
	res := NewEntryFetcher(staticPage(`<p>nothing</p>`), "http://x", nil, &Stats{}, testLogger).Fetch(context.Background(), "FL0000000001")
	if res.Outcome != types.OutcomeSkipped || !errors.Is(res.Err, types.ErrNoFields) {
		t.Errorf("expected ErrNoFields skip, got %+v", res)
	}
}

func TestEntryFetcherErrorSkipped(t *testing.T) {
	boom := errors.New("connection reset")
	f := fetcherFunc(func(context.Context, *types.Request) (*types.Response, error) { return nil, boom })
	stats := &Stats{}
	res := NewEntryFetcher(f, "http://x", nil, stats, testLogger).Fetch(context.Background(), "FL0000000001")
	if res.Outcome != types.OutcomeSkipped || !errors.Is(res.Err, boom) {
		t.Errorf("expected skipped with cause, got %+v", res)
	}
	if stats.RequestsFailed.Load() != 1 || stats.EntriesSkipped.Load() != 1 {
		t.Errorf("unexpected stats %v", stats.Snapshot())
	}
}

func TestEntryFetcherRecoversPanic(t *testing.T) {
	f := fetcherFunc(func(context.Context, *types.Request) (*types.Response, error) { panic("bad markup") })
	res := NewEntryFetcher(f, "http://x", nil, &Stats{}, testLogger).Fetch(context.Background(), "FL0000000001")
	if res.Outcome != types.OutcomeSkipped || res.Err == nil {
		t.Errorf("expected panic to become a skip, got %+v", res)
	}
}

// --- Scheduler Tests ---

type entrySourceFunc func(ctx context.Context, id string) types.EntryResult

func (f entrySourceFunc) Fetch(ctx context.Context, id string) types.EntryResult { return f(ctx, id) }

func TestPartition(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}
	batches := Partition(ids, 2)
	if len(batches) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(batches))
	}
	for i, b := range batches {
		if b.Number != i+1 {
			t.Errorf("batch %d numbered %d", i, b.Number)
		}
	}
	if len(batches[2].IDs) != 1 || batches[2].IDs[0] != "e" {
		t.Errorf("unexpected last batch %v", batches[2].IDs)
	}
	if len(Partition(nil, 500)) != 0 {
		t.Error("empty input should give no batches")
	}
}

func TestSchedulerCancelledBatchNotSaved(t *testing.T) {
	store, err := checkpoint.NewStore(t.TempDir(), testLogger)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src := entrySourceFunc(func(_ context.Context, id string) types.EntryResult {
		cancel()
		return types.Collected(types.Record{ID: id, SMILES: "C"})
	})

	s := NewBatchScheduler(src, store, &SkipList{}, SchedulerOptions{Concurrency: 1}, nil, &Stats{}, testLogger)
	_, err = s.Run(ctx, Partition([]string{"FL0000000001", "FL0000000002", "FL0000000003"}, 3), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(store.Path(1)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("interrupted batch must not be checkpointed: %v", err)
	}
}

func TestSchedulerKeepsBatchFinishedBeforeCancel(t *testing.T) {
	store, err := checkpoint.NewStore(t.TempDir(), testLogger)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ids := []string{"FL0000000001", "FL0000000002"}
	src := entrySourceFunc(func(_ context.Context, id string) types.EntryResult {
		if id == ids[len(ids)-1] {
			cancel()
		}
		return types.Collected(types.Record{ID: id, SMILES: "C"})
	})

	s := NewBatchScheduler(src, store, &SkipList{}, SchedulerOptions{Concurrency: 1}, nil, &Stats{}, testLogger)
	records, err := s.Run(ctx, Partition(ids, 2), nil)
	if err != nil {
		t.Fatalf("finished batch should be kept, got %v", err)
	}
	if len(records) != 2 {
		t.Errorf("expected 2 records, got %d", len(records))
	}
	if _, err := os.Stat(store.Path(1)); err != nil {
		t.Errorf("finished batch should be checkpointed: %v", err)
	}
}

func TestSchedulerCancelledSkipsDiscardBatch(t *testing.T) {
	store, err := checkpoint.NewStore(t.TempDir(), testLogger)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src := entrySourceFunc(func(ctx context.Context, id string) types.EntryResult {
		cancel()
		return types.Skipped(id, ctx.Err())
	})

	s := NewBatchScheduler(src, store, &SkipList{}, SchedulerOptions{Concurrency: 1}, nil, &Stats{}, testLogger)
	_, err = s.Run(ctx, Partition([]string{"FL0000000001"}, 1), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(store.Path(1)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("interrupted batch must not be checkpointed: %v", err)
	}
}

func TestSchedulerBoundsConcurrency(t *testing.T) {
	store, err := checkpoint.NewStore(t.TempDir(), testLogger)
	if err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	inFlight, peak := 0, 0
	src := entrySourceFunc(func(_ context.Context, id string) types.EntryResult {
		mu.Lock()
		inFlight++
		peak = max(peak, inFlight)
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		inFlight--
		mu.Unlock()
		return types.Collected(types.Record{ID: id, SMILES: "C"})
	})

	ids := make([]string, 40)
	for i := range ids {
		ids[i] = fmt.Sprintf("FL%010d", i)
	}
	s := NewBatchScheduler(src, store, &SkipList{}, SchedulerOptions{Concurrency: 4, ProgressEvery: 10}, nil, &Stats{}, testLogger)
	records, err := s.Run(context.Background(), Partition(ids, 20), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(records) != len(ids) {
		t.Errorf("expected %d records, got %d", len(ids), len(records))
	}
	if peak > 4 {
		t.Errorf("concurrency limit exceeded: peak %d", peak)
	}
}

func TestSkipListConcurrentAdd(t *testing.T) {
	var s SkipList
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Add(fmt.Sprintf("FL%010d", i))
		}()
	}
	wg.Wait()
	if s.Len() != 100 || len(s.IDs()) != 100 {
		t.Errorf("expected 100 skipped ids, got %d", s.Len())
	}
}
