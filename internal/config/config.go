package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for FlavoScrape.
type Config struct {
	Crawl    CrawlConfig    `mapstructure:"crawl"    yaml:"crawl"`
	Fetcher  FetcherConfig  `mapstructure:"fetcher"  yaml:"fetcher"`
	Proxy    ProxyConfig    `mapstructure:"proxy"    yaml:"proxy"`
	Storage  StorageConfig  `mapstructure:"storage"  yaml:"storage"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"  yaml:"metrics"`
	Progress ProgressConfig `mapstructure:"progress" yaml:"progress"`
}

// CrawlConfig controls discovery and the batch pipeline.
type CrawlConfig struct {
	BaseURL        string        `mapstructure:"base_url"        yaml:"base_url"`
	ListingURL     string        `mapstructure:"listing_url"     yaml:"listing_url"`
	NextPageText   string        `mapstructure:"next_page_text"  yaml:"next_page_text"`
	IDPrefix       string        `mapstructure:"id_prefix"       yaml:"id_prefix"`
	IDLength       int           `mapstructure:"id_length"       yaml:"id_length"`
	BatchSize      int           `mapstructure:"batch_size"      yaml:"batch_size"`
	Concurrency    int           `mapstructure:"concurrency"     yaml:"concurrency"`
	ProgressEvery  int           `mapstructure:"progress_every"  yaml:"progress_every"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"` // 0 = no timeout
}

// FetcherConfig controls the page fetcher.
type FetcherConfig struct {
	Type            string        `mapstructure:"type"              yaml:"type"`
	UserAgents      []string      `mapstructure:"user_agents"       yaml:"user_agents"`
	FollowRedirects bool          `mapstructure:"follow_redirects"  yaml:"follow_redirects"`
	MaxRedirects    int           `mapstructure:"max_redirects"     yaml:"max_redirects"`
	MaxBodySize     int64         `mapstructure:"max_body_size"     yaml:"max_body_size"`
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout" yaml:"idle_conn_timeout"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    yaml:"max_idle_conns"`
}

// ProxyConfig controls proxy rotation.
type ProxyConfig struct {
	Enabled  bool     `mapstructure:"enabled"  yaml:"enabled"`
	Rotation string   `mapstructure:"rotation" yaml:"rotation"`
	URLs     []string `mapstructure:"urls"     yaml:"urls"`
}

// StorageConfig controls checkpoint and output locations.
type StorageConfig struct {
	CheckpointDir string      `mapstructure:"checkpoint_dir" yaml:"checkpoint_dir"`
	OutputFile    string      `mapstructure:"output_file"    yaml:"output_file"`
	SkippedFile   string      `mapstructure:"skipped_file"   yaml:"skipped_file"`
	Mongo         MongoConfig `mapstructure:"mongo"          yaml:"mongo"`
}

// MongoConfig controls the optional MongoDB mirror of the final records.
type MongoConfig struct {
	Enabled    bool   `mapstructure:"enabled"    yaml:"enabled"`
	URI        string `mapstructure:"uri"        yaml:"uri"`
	Database   string `mapstructure:"database"   yaml:"database"`
	Collection string `mapstructure:"collection" yaml:"collection"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level      string `mapstructure:"level"       yaml:"level"`
	Format     string `mapstructure:"format"      yaml:"format"`
	Output     string `mapstructure:"output"      yaml:"output"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `mapstructure:"compress"    yaml:"compress"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Port    int    `mapstructure:"port"    yaml:"port"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// ProgressConfig controls terminal progress rendering.
type ProgressConfig struct {
	Bar bool `mapstructure:"bar" yaml:"bar"`
}

// DefaultConfig returns a Config matching the metabolomics.jp flavonoid index.
func DefaultConfig() *Config {
	return &Config{
		Crawl: CrawlConfig{
			BaseURL:        "http://metabolomics.jp",
			ListingURL:     "http://metabolomics.jp/mediawiki/index.php?title=Special:WhatLinksHere/Index:FL&namespace=0&limit=500",
			NextPageText:   "next 500",
			IDPrefix:       "FL",
			IDLength:       12,
			BatchSize:      500,
			Concurrency:    20,
			ProgressEvery:  50,
			RequestTimeout: 60 * time.Second,
		},
		Fetcher: FetcherConfig{
			Type: "http",
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			},
			FollowRedirects: true,
			MaxRedirects:    10,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
			IdleConnTimeout: 90 * time.Second,
			MaxIdleConns:    100,
		},
		Proxy: ProxyConfig{
			Enabled:  false,
			Rotation: "round_robin",
		},
		Storage: StorageConfig{
			CheckpointDir: "checkpoints",
			OutputFile:    "flavonoids_final.csv",
			SkippedFile:   "skipped_entries.csv",
			Mongo: MongoConfig{
				Enabled:    false,
				URI:        "mongodb://localhost:27017",
				Database:   "flavoscrape",
				Collection: "flavonoids",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     "stderr",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
			Compress:   true,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}
