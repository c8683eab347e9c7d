package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"

	"github.com/IshaanNene/FlavoScrape/internal/config"
	"github.com/IshaanNene/FlavoScrape/internal/types"
)

// BrowserFetcher implements Fetcher using a headless Chromium via Rod.
// Every fetch opens a fresh stealth page and closes it afterwards.
type BrowserFetcher struct {
	browser  *rod.Browser
	timeout  time.Duration
	maxBody  int64
	proxyMgr *ProxyManager
	logger   *slog.Logger
}

// NewBrowserFetcher launches a browser and connects to it. proxyMgr may be nil.
func NewBrowserFetcher(cfg *config.Config, logger *slog.Logger, proxyMgr *ProxyManager) (*BrowserFetcher, error) {
	bf := &BrowserFetcher{
		timeout:  cfg.Crawl.RequestTimeout,
		maxBody:  cfg.Fetcher.MaxBodySize,
		proxyMgr: proxyMgr,
		logger:   logger.With("component", "browser_fetcher"),
	}

	launchURL, err := bf.launchBrowser()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(launchURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	bf.browser = browser

	bf.logger.Info("browser fetcher ready", "timeout", bf.timeout)
	return bf, nil
}

// launchBrowser starts a Chromium instance with appropriate flags.
func (bf *BrowserFetcher) launchBrowser() (string, error) {
	l := launcher.New().
		Headless(true).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-blink-features", "AutomationControlled")

	// Chromium takes one proxy for the whole process.
	if bf.proxyMgr != nil {
		if proxyURL := bf.proxyMgr.Next(); proxyURL != nil {
			l = l.Proxy(proxyURL.String())
		}
	}

	return l.Launch()
}

// Fetch navigates to a URL and returns the rendered page content.
func (bf *BrowserFetcher) Fetch(ctx context.Context, req *types.Request) (*types.Response, error) {
	start := time.Now()

	page, err := stealth.Page(bf.browser)
	if err != nil {
		return nil, &types.FetchError{URL: req.URLString(), Err: fmt.Errorf("stealth page: %w", err)}
	}
	defer page.Close()

	page = page.Context(ctx)
	if bf.timeout > 0 {
		page = page.Timeout(bf.timeout)
	}

	if err := page.Navigate(req.URLString()); err != nil {
		return nil, &types.FetchError{URL: req.URLString(), Err: err}
	}
	if err := page.WaitLoad(); err != nil {
		return nil, &types.FetchError{URL: req.URLString(), Err: fmt.Errorf("wait load: %w", err)}
	}

	html, err := page.HTML()
	if err != nil {
		return nil, &types.FetchError{URL: req.URLString(), Err: err}
	}

	if bf.maxBody > 0 && int64(len(html)) > bf.maxBody {
		return nil, &types.FetchError{
			URL: req.URLString(),
			Err: fmt.Errorf("%w: more than %d bytes", types.ErrBodyTooLarge, bf.maxBody),
		}
	}

	finalURL := req.URLString()
	if info, err := page.Info(); err == nil && info != nil {
		finalURL = info.URL
	}

	duration := time.Since(start)
	// Rod does not expose the document status code.
	resp := types.NewBrowserResponse(req, 200, []byte(html), finalURL, duration)

	bf.logger.Debug("browser fetch complete",
		"url", req.URLString(),
		"final_url", finalURL,
		"size", len(html),
		"duration", duration,
	)

	return resp, nil
}

// Close shuts down the browser.
func (bf *BrowserFetcher) Close() error {
	if bf.browser != nil {
		return bf.browser.Close()
	}
	return nil
}

// Type returns the fetcher type identifier.
func (bf *BrowserFetcher) Type() string {
	return "browser"
}
