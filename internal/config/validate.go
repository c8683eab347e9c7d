package config

import (
	"fmt"
	"net/url"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if err := ValidateURL(cfg.Crawl.BaseURL); err != nil {
		return fmt.Errorf("crawl.base_url: %w", err)
	}
	if err := ValidateURL(cfg.Crawl.ListingURL); err != nil {
		return fmt.Errorf("crawl.listing_url: %w", err)
	}
	if cfg.Crawl.NextPageText == "" {
		return fmt.Errorf("crawl.next_page_text must not be empty")
	}
	if cfg.Crawl.IDPrefix == "" {
		return fmt.Errorf("crawl.id_prefix must not be empty")
	}
	if cfg.Crawl.IDLength < len(cfg.Crawl.IDPrefix) {
		return fmt.Errorf("crawl.id_length (%d) must be >= len(id_prefix) (%d)", cfg.Crawl.IDLength, len(cfg.Crawl.IDPrefix))
	}
	if cfg.Crawl.BatchSize < 1 {
		return fmt.Errorf("crawl.batch_size must be >= 1, got %d", cfg.Crawl.BatchSize)
	}
	if cfg.Crawl.Concurrency < 1 {
		return fmt.Errorf("crawl.concurrency must be >= 1, got %d", cfg.Crawl.Concurrency)
	}
	if cfg.Crawl.Concurrency > 1000 {
		return fmt.Errorf("crawl.concurrency must be <= 1000, got %d", cfg.Crawl.Concurrency)
	}
	if cfg.Crawl.ProgressEvery < 1 {
		return fmt.Errorf("crawl.progress_every must be >= 1, got %d", cfg.Crawl.ProgressEvery)
	}
	if cfg.Crawl.RequestTimeout < 0 {
		return fmt.Errorf("crawl.request_timeout must be >= 0")
	}

	if cfg.Fetcher.Type != "http" && cfg.Fetcher.Type != "browser" {
		return fmt.Errorf("fetcher.type must be 'http' or 'browser', got %q", cfg.Fetcher.Type)
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}
	if cfg.Fetcher.MaxRedirects < 0 {
		return fmt.Errorf("fetcher.max_redirects must be >= 0")
	}

	if cfg.Proxy.Enabled {
		if cfg.Proxy.Rotation != "round_robin" && cfg.Proxy.Rotation != "random" {
			return fmt.Errorf("proxy.rotation must be 'round_robin' or 'random', got %q", cfg.Proxy.Rotation)
		}
		for _, proxyURL := range cfg.Proxy.URLs {
			if _, err := url.Parse(proxyURL); err != nil {
				return fmt.Errorf("invalid proxy URL %q: %w", proxyURL, err)
			}
		}
	}

	if cfg.Storage.CheckpointDir == "" {
		return fmt.Errorf("storage.checkpoint_dir must not be empty")
	}
	if cfg.Storage.OutputFile == "" {
		return fmt.Errorf("storage.output_file must not be empty")
	}
	if cfg.Storage.SkippedFile == "" {
		return fmt.Errorf("storage.skipped_file must not be empty")
	}
	if cfg.Storage.Mongo.Enabled {
		if cfg.Storage.Mongo.URI == "" || cfg.Storage.Mongo.Database == "" || cfg.Storage.Mongo.Collection == "" {
			return fmt.Errorf("storage.mongo requires uri, database and collection when enabled")
		}
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output == "" {
		return fmt.Errorf("logging.output must not be empty")
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Port < 1 || cfg.Metrics.Port > 65535 {
			return fmt.Errorf("metrics.port must be 1-65535, got %d", cfg.Metrics.Port)
		}
	}

	return nil
}

// ValidateURL checks if a URL string is valid for crawling.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
