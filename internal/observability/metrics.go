package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the crawl's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
//
//   - flavoscrape_listing_pages_total (Counter): listing pages fetched
//   - flavoscrape_identifiers (Gauge): identifiers collected from the listing
//   - flavoscrape_entries_total{outcome} (Counter): entries by collected/skipped
//   - flavoscrape_fetch_duration_seconds{kind} (Histogram): page fetch latency
//   - flavoscrape_batches_total{source} (Counter): batches fetched or reloaded from a checkpoint
//   - flavoscrape_checkpoint_records_total (Counter): records written to checkpoints
type Metrics struct {
	ListingPages      prometheus.Counter
	Identifiers       prometheus.Gauge
	Entries           *prometheus.CounterVec
	FetchDuration     *prometheus.HistogramVec
	Batches           *prometheus.CounterVec
	CheckpointRecords prometheus.Counter

	gatherer prometheus.Gatherer
}

// NewMetrics registers the crawl collectors on reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ListingPages: factory.NewCounter(prometheus.CounterOpts{
			Name: "flavoscrape_listing_pages_total",
			Help: "Listing pages fetched",
		}),
		Identifiers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "flavoscrape_identifiers",
			Help: "Identifiers collected from the listing",
		}),
		Entries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "flavoscrape_entries_total",
			Help: "Entries processed by outcome",
		}, []string{"outcome"}),
		FetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "flavoscrape_fetch_duration_seconds",
			Help:    "Page fetch duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		Batches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "flavoscrape_batches_total",
			Help: "Batches completed by source",
		}, []string{"source"}),
		CheckpointRecords: factory.NewCounter(prometheus.CounterOpts{
			Name: "flavoscrape_checkpoint_records_total",
			Help: "Records written to checkpoint files",
		}),
		gatherer: reg,
	}
}

// ListingPage records one fetched listing page.
func (m *Metrics) ListingPage(d time.Duration) {
	if m == nil {
		return
	}
	m.ListingPages.Inc()
	m.FetchDuration.WithLabelValues("listing").Observe(d.Seconds())
}

// SetIdentifiers records the size of the identifier list.
func (m *Metrics) SetIdentifiers(n int) {
	if m == nil {
		return
	}
	m.Identifiers.Set(float64(n))
}

// Entry records one entry outcome and its fetch latency.
func (m *Metrics) Entry(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Entries.WithLabelValues(outcome).Inc()
	m.FetchDuration.WithLabelValues("entry").Observe(d.Seconds())
}

// Batch records a completed batch; source is "fetched" or "checkpoint".
func (m *Metrics) Batch(source string) {
	if m == nil {
		return
	}
	m.Batches.WithLabelValues(source).Inc()
}

// Checkpointed records records written to a checkpoint.
func (m *Metrics) Checkpointed(n int) {
	if m == nil {
		return
	}
	m.CheckpointRecords.Add(float64(n))
}

// Handler returns the HTTP handler serving the registered collectors.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// StartServer serves metrics on path and a liveness probe on /health until
// ctx is cancelled.
func (m *Metrics) StartServer(ctx context.Context, port int, path string, logger *slog.Logger) {
	logger = logger.With("component", "metrics")

	mux := http.NewServeMux()
	mux.Handle(path, m.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("metrics server starting", "addr", srv.Addr, "path", path)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
