package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/IshaanNene/FlavoScrape/internal/config"
	"github.com/IshaanNene/FlavoScrape/internal/engine"
	"github.com/IshaanNene/FlavoScrape/internal/fetcher"
	"github.com/IshaanNene/FlavoScrape/internal/observability"
	"github.com/IshaanNene/FlavoScrape/internal/storage"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "flavoscrape",
		Short: "FlavoScrape: flavonoid database crawler",
		Long: `FlavoScrape collects the flavonoid entries of the metabolomics.jp wiki.

It walks the entry listing, fetches every entry page with a bounded worker
pool, checkpoints each finished batch and merges everything into a single
CSV file. Rerunning resumes from the existing checkpoints.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runScrape,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runScrape executes the full pipeline.
func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, logCloser, err := observability.NewLogger(cfg.Logging, verbose)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer logCloser.Close()

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eng := engine.New(cfg, logger)
	logger = logger.With("run_id", eng.RunID())

	f, err := fetcher.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create fetcher: %w", err)
	}
	defer f.Close()
	eng.SetFetcher(f)

	if cfg.Storage.Mongo.Enabled {
		mongo, err := storage.NewMongoStorage(ctx, cfg.Storage.Mongo.URI, cfg.Storage.Mongo.Database, cfg.Storage.Mongo.Collection, logger)
		if err != nil {
			return fmt.Errorf("create mongo storage: %w", err)
		}
		eng.AddMirror(mongo)
	}

	// Setup metrics (if enabled)
	if cfg.Metrics.Enabled {
		metrics := observability.NewMetrics(prometheus.NewRegistry())
		metrics.StartServer(ctx, cfg.Metrics.Port, cfg.Metrics.Path, logger)
		eng.SetMetrics(metrics)
	}

	logger.Info("starting scrape",
		"listing_url", cfg.Crawl.ListingURL,
		"fetcher", f.Type(),
		"checkpoint_dir", cfg.Storage.CheckpointDir,
	)

	summary, err := eng.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			logger.Warn("run interrupted, completed batches are checkpointed", "error", err)
		}
		return err
	}

	printSummary(summary)
	return nil
}

func printSummary(s *engine.Summary) {
	fmt.Printf("\n✅ Done in %s\n", s.Elapsed.Round(time.Millisecond))
	fmt.Printf("   Listing:   %d pages, %d identifiers\n", s.ListingPages, s.Identifiers)
	fmt.Printf("   Batches:   %d fetched, %d from checkpoints\n", s.BatchesFetched, s.BatchesReloaded)
	fmt.Printf("   Collected: %d entries\n", s.Collected)
	fmt.Printf("   Skipped:   %d entries\n", s.Skipped)
	fmt.Printf("   Output:    %s\n", s.OutputFile)
	if s.SkippedFile != "" {
		fmt.Printf("   Skipped IDs: %s\n", s.SkippedFile)
	}
	fmt.Printf("   Time taken: %.2f sec\n", s.Elapsed.Seconds())
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("FlavoScrape %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			return enc.Close()
		},
	}
}
