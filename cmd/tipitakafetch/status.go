package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tipitaka-tools/tipitakafetch/internal/bulk"
	"github.com/tipitaka-tools/tipitakafetch/internal/config"
	"github.com/tipitaka-tools/tipitakafetch/internal/database"
	"github.com/tipitaka-tools/tipitakafetch/internal/log"
	"golang.org/x/sync/errgroup"
)

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show fetch progress per Nikaya",
		Long: `Status reports how far each Nikaya's fetch has progressed.

For every known Nikaya it shows the ID range, the last sutta ID covered
by a persisted batch file, and the fetch log counters (fetched, failed,
invalid) from the database. Status is read-only: it touches neither the
batch files nor the database contents.

Examples:
  # Show progress using default locations
  tipitakafetch status

  # Batch files in a custom directory
  tipitakafetch status -o ./texts`,
		Args: cobra.NoArgs,
		RunE: runStatusCmd,
	}

	cmd.Flags().StringP("output", "o", "",
		"Root directory for batch files (default: XDG data directory)")
	cmd.Flags().IntP("batch-size", "b", config.DefaultBatchSize,
		"Batch size used by the fetch runs being inspected")

	return cmd
}

// nikayaStatus holds the collected state of one Nikaya.
type nikayaStatus struct {
	nikaya    config.Nikaya
	completed int
	counts    database.FetchCounts
	hasCounts bool
}

// runStatusCmd executes the status command.
func runStatusCmd(cmd *cobra.Command, _ []string) error {
	outputDir, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if outputDir == "" {
		outputDir = config.DefaultOutputDir()
	}

	batchSize, err := cmd.Flags().GetInt("batch-size")
	if err != nil {
		return err
	}
	if batchSize <= 0 {
		return config.ErrInvalidBatchSize
	}

	logger := log.NewLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	// The database is optional for status: disk state alone still shows
	// batch coverage.
	var db *database.CrawlDB
	db, err = database.Open(config.XDGDataDir(), database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		logger.Debug("no fetch database, showing disk state only", "error", err)
		db = nil
	} else {
		defer db.Close()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	nikayas := config.Nikayas()
	statuses := make([]nikayaStatus, len(nikayas))

	// Disk scans are independent per Nikaya; collect them in parallel.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(len(nikayas))
	for i, n := range nikayas {
		i, n := i, n
		g.Go(func() error {
			completed, err := bulk.CompletedThrough(filepath.Join(outputDir, n.Key), n.Start, n.End, batchSize)
			if err != nil {
				return fmt.Errorf("scan %s: %w", n.Key, err)
			}

			st := nikayaStatus{nikaya: n, completed: completed}
			if db != nil {
				counts, err := db.CountFetches(gctx, n.Key)
				if err != nil {
					return fmt.Errorf("count %s: %w", n.Key, err)
				}
				if progress, err := db.Progress(gctx, n.Key); err == nil && progress > st.completed {
					st.completed = progress
				}
				st.counts = counts
				st.hasCounts = true
			}
			statuses[i] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	printStatuses(cmd, statuses)
	return nil
}

// printStatuses renders the per-Nikaya progress table.
func printStatuses(cmd *cobra.Command, statuses []nikayaStatus) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%-12s %-16s %10s %10s %8s %8s %8s\n",
		"NIKAYA", "RANGE", "COMPLETED", "REMAINING", "FETCHED", "FAILED", "INVALID")
	fmt.Fprintln(out, strings.Repeat("-", 80))

	for _, st := range statuses {
		n := st.nikaya

		completed := "-"
		remaining := n.Count()
		if st.completed >= n.Start {
			completed = fmt.Sprintf("%d", st.completed)
			remaining = n.End - st.completed
		}

		fetched, failed, invalid := "-", "-", "-"
		if st.hasCounts {
			fetched = fmt.Sprintf("%d", st.counts.Fetched)
			failed = fmt.Sprintf("%d", st.counts.Failed)
			invalid = fmt.Sprintf("%d", st.counts.Invalid)
		}

		fmt.Fprintf(out, "%-12s %-16s %10s %10d %8s %8s %8s\n",
			n.Key,
			fmt.Sprintf("%d-%d", n.Start, n.End),
			completed,
			remaining,
			fetched,
			failed,
			invalid,
		)
	}
}
