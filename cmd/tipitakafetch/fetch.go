package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tipitaka-tools/tipitakafetch/internal/bulk"
	"github.com/tipitaka-tools/tipitakafetch/internal/config"
	"github.com/tipitaka-tools/tipitakafetch/internal/database"
	"github.com/tipitaka-tools/tipitakafetch/internal/log"
	"github.com/tipitaka-tools/tipitakafetch/internal/model"
	"github.com/tipitaka-tools/tipitakafetch/internal/report"
	"github.com/tipitaka-tools/tipitakafetch/internal/scraper"
)

// NewFetchCmd creates the fetch command.
func NewFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch [nikaya...]",
		Short: "Download sutta pages into resumable JSON batch files",
		Long: `Fetch downloads sutta pages for the named Nikayas from tripitaka.online.

Pages are fetched sequentially, one request at a time, with a politeness
delay between requests. Extracted content is persisted in JSON batch
files under a per-Nikaya directory; each file covers a fixed span of
sutta IDs so an interrupted run resumes exactly where it stopped.

Pages that fail after retries are logged, recorded in the fetch
database, and skipped; they do not block the rest of the run.

Examples:
  # Fetch the Digha Nikaya
  tipitakafetch fetch digha

  # Fetch two divisions in one run
  tipitakafetch fetch digha majjhima

  # Fetch everything
  tipitakafetch fetch --all

  # Smaller batches and a longer delay
  tipitakafetch fetch --batch-size 50 --delay 2s khuddaka

  # Write a Markdown summary to a file
  tipitakafetch fetch --all --markdown --summary-file report.md

Configuration file (.tipitakafetch) example:
  baseURL: https://tripitaka.online
  defaults:
    batchSize: 50
    delay: 2s
  nikayas:
    digha:
      start: 17
      end: 100`,
		Args: cobra.ArbitraryArgs,
		RunE: runFetchCmd,
	}

	// Selection flags
	cmd.Flags().BoolP("all", "a", false,
		"Fetch every Nikaya in canonical order")

	// Fetch behavior flags
	cmd.Flags().IntP("batch-size", "b", config.DefaultBatchSize,
		"Number of sutta records per batch file")
	cmd.Flags().DurationP("delay", "d", config.DefaultDelay,
		"Politeness delay between consecutive requests")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Connection timeout for each request")
	cmd.Flags().IntP("retries", "r", config.DefaultRetries,
		"Retry attempts per page for transient failures")
	cmd.Flags().String("base-url", config.DefaultBaseURL,
		"Root URL of the source site")

	// Output flags
	cmd.Flags().StringP("output", "o", "",
		"Root directory for batch files (default: XDG data directory)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .tipitakafetch in current or home directory)")

	// Summary flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON summary (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown summary (mutually exclusive with --json)")
	cmd.Flags().String("summary-file", "",
		"Write the run summary to the specified file path")

	return cmd
}

// runFetchCmd executes the fetch command.
func runFetchCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := log.NewLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, finishing current page...")
		cancel()
	}()

	return runFetch(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	// Get flag values
	var err error

	cfg.All, err = cmd.Flags().GetBool("all")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch-size")
	if err != nil {
		return nil, err
	}

	cfg.Delay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.Retries, err = cmd.Flags().GetInt("retries")
	if err != nil {
		return nil, err
	}

	cfg.BaseURL, err = cmd.Flags().GetString("base-url")
	if err != nil {
		return nil, err
	}

	cfg.OutputDir, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = config.DefaultOutputDir()
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load overrides from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently continue without overrides.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.Overrides, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		applyFileDefaults(cmd, cfg)
	} else if explicitConfigPath {
		// User explicitly specified a config file that doesn't exist
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.JSONSummary, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownSummary, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.SummaryFile, err = cmd.Flags().GetString("summary-file")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Fetch history and progress markers live in the XDG data directory
	cfg.DBDir = config.XDGDataDir()

	// Positional arguments are Nikaya keys
	cfg.Nikayas = args

	return cfg, nil
}

// applyFileDefaults merges config file defaults into cfg, but only for
// flags the user left untouched. Explicit flags always win.
func applyFileDefaults(cmd *cobra.Command, cfg *config.Config) {
	if cfg.Overrides == nil {
		return
	}

	if cfg.Overrides.BaseURL != "" && !cmd.Flags().Changed("base-url") {
		cfg.BaseURL = cfg.Overrides.BaseURL
	}
	if cfg.Overrides.Defaults.BatchSize > 0 && !cmd.Flags().Changed("batch-size") {
		cfg.BatchSize = cfg.Overrides.Defaults.BatchSize
	}
	if cfg.Overrides.Defaults.UserAgent != "" {
		cfg.UserAgent = cfg.Overrides.Defaults.UserAgent
	}
	if !cmd.Flags().Changed("delay") {
		if d, ok, err := cfg.Overrides.Defaults.DelayDuration(); err == nil && ok {
			cfg.Delay = d
		}
	}
}

// runFetch executes the fetch run.
func runFetch(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	nikayas, err := cfg.SelectedNikayas()
	if err != nil {
		return err
	}

	logger.Info("starting fetch run",
		"nikayas", len(nikayas),
		"batchSize", cfg.BatchSize,
		"delay", cfg.Delay.String(),
		"output", cfg.OutputDir,
	)

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	fetcher, err := scraper.NewFetcher(cfg.BaseURL, cfg.Timeout,
		scraper.WithUserAgent(cfg.UserAgent),
		scraper.WithMaxBodySize(cfg.MaxBodySize),
		scraper.WithRetries(cfg.Retries),
	)
	if err != nil {
		return err
	}

	runner := bulk.NewRunner(fetcher, cfg.OutputDir,
		bulk.WithDB(db),
		bulk.WithBatchSize(cfg.BatchSize),
		bulk.WithDelay(cfg.Delay),
		bulk.WithLogger(logger),
	)

	for _, n := range nikayas {
		fmt.Printf("Fetching %s (%s, IDs %d-%d)...\n", n.NameEnglish, n.Key, n.Start, n.End)
	}

	runReport, runErr := runner.RunAll(ctx, nikayas)

	if err := outputReport(cfg, runReport); err != nil {
		logger.Error("summary output failed", "error", err)
	}

	return runErr
}

// outputReport writes the run summary in the requested format.
func outputReport(cfg *config.Config, runReport *model.RunReport) error {
	// Determine output destination
	var output *os.File
	if cfg.SummaryFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.SummaryFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create summary directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.SummaryFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create summary file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONSummary:
		writer = report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownSummary:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := writer.Write(runReport)
	return err
}
