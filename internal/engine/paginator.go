package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/FlavoScrape/internal/observability"
	"github.com/IshaanNene/FlavoScrape/internal/parser"
	"github.com/IshaanNene/FlavoScrape/internal/types"
)

// ListingPage is one fetched page of the identifier listing.
type ListingPage struct {
	URL string
	Doc *goquery.Document
}

// Paginator walks the listing by following the "next page" anchor.
type Paginator struct {
	fetcher  Fetcher
	startURL string
	nextText string
	metrics  *observability.Metrics
	stats    *Stats
	logger   *slog.Logger
}

// NewPaginator creates a Paginator starting at startURL.
func NewPaginator(f Fetcher, startURL, nextText string, metrics *observability.Metrics, stats *Stats, logger *slog.Logger) *Paginator {
	return &Paginator{
		fetcher:  f,
		startURL: startURL,
		nextText: nextText,
		metrics:  metrics,
		stats:    stats,
		logger:   logger.With("component", "paginator"),
	}
}

// Discover fetches the start page and every page reachable through the next
// link, in order. Any fetch or markup failure aborts discovery. A next link
// pointing at an already visited page ends the walk.
func (p *Paginator) Discover(ctx context.Context) ([]ListingPage, error) {
	var pages []ListingPage
	visited := make(map[string]bool)

	current := p.startURL
	for current != "" {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := types.NewTaggedRequest(current, types.TagListing)
		if err != nil {
			return nil, fmt.Errorf("listing page %d: %w", len(pages)+1, err)
		}
		visited[req.URLString()] = true

		p.stats.RequestsSent.Add(1)
		resp, err := p.fetcher.Fetch(ctx, req)
		if err != nil {
			p.stats.RequestsFailed.Add(1)
			return nil, fmt.Errorf("listing page %d: %w", len(pages)+1, err)
		}
		p.stats.ListingPages.Add(1)
		p.metrics.ListingPage(resp.FetchDuration)

		doc, err := resp.Document()
		if err != nil {
			return nil, fmt.Errorf("listing page %d: %w", len(pages)+1, err)
		}
		root, err := resp.Root()
		if err != nil {
			return nil, fmt.Errorf("listing page %d: %w", len(pages)+1, err)
		}
		pages = append(pages, ListingPage{URL: req.URLString(), Doc: doc})
		p.logger.Debug("listing page fetched", "page", len(pages), "url", req.URLString())

		href, ok, err := parser.FindNextPage(root, p.nextText)
		if err != nil {
			return nil, &types.ParseError{URL: req.URLString(), Err: err}
		}
		if !ok {
			break
		}

		next, err := req.URL.Parse(href)
		if err != nil {
			return nil, &types.ParseError{URL: req.URLString(), Err: fmt.Errorf("%w %q: %v", types.ErrInvalidURL, href, err)}
		}
		if visited[next.String()] {
			p.logger.Warn("next link points at a visited page, stopping", "url", next.String())
			break
		}
		current = next.String()
	}

	return pages, nil
}

// CollectIdentifiers concatenates the identifiers of every page in order.
func CollectIdentifiers(pages []ListingPage, rule parser.IdentifierRule) []string {
	var ids []string
	for _, page := range pages {
		ids = append(ids, parser.ExtractIdentifiers(page.Doc, rule)...)
	}
	return ids
}
