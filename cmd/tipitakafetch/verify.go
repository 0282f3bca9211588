package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/spf13/cobra"
	"github.com/tipitaka-tools/tipitakafetch/internal/bulk"
	"github.com/tipitaka-tools/tipitakafetch/internal/config"
	"github.com/tipitaka-tools/tipitakafetch/internal/log"
	"golang.org/x/sync/errgroup"
)

// NewVerifyCmd creates the verify command.
func NewVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [nikaya...]",
		Short: "Check persisted batch files for integrity",
		Long: `Verify inspects the batch files of the named Nikayas and reports
problems a fetch run or manual editing may have introduced.

Checks per batch file:
- the file parses as a JSON array of sutta records
- record IDs are in strictly ascending order
- every record falls within the batch's fixed ID span
- no span holds more records than the batch size

Verify is read-only and makes no network requests.

Examples:
  # Verify one division
  tipitakafetch verify digha

  # Verify everything on disk
  tipitakafetch verify --all`,
		Args: cobra.ArbitraryArgs,
		RunE: runVerifyCmd,
	}

	cmd.Flags().BoolP("all", "a", false,
		"Verify every Nikaya")
	cmd.Flags().StringP("output", "o", "",
		"Root directory for batch files (default: XDG data directory)")
	cmd.Flags().IntP("batch-size", "b", config.DefaultBatchSize,
		"Batch size used by the fetch runs being verified")

	return cmd
}

// runVerifyCmd executes the verify command.
func runVerifyCmd(cmd *cobra.Command, args []string) error {
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}

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

	cfg := config.NewConfig()
	cfg.All = all
	cfg.Nikayas = args
	nikayas, err := cfg.SelectedNikayas()
	if err != nil {
		return err
	}
	if len(nikayas) == 0 {
		return config.ErrNoNikaya
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	problems := make([][]string, len(nikayas))

	// Verification is pure file reading; fan out across divisions.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, n := range nikayas {
		i, n := i, n
		g.Go(func() error {
			found, err := verifyNikaya(gctx, filepath.Join(outputDir, n.Key), n, batchSize)
			if err != nil {
				return fmt.Errorf("verify %s: %w", n.Key, err)
			}
			problems[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	total := 0
	for i, n := range nikayas {
		i, n := i, n
		if len(problems[i]) == 0 {
			fmt.Fprintf(out, "[+] %s: OK\n", n.Key)
			continue
		}
		fmt.Fprintf(out, "[!] %s: %d problem(s)\n", n.Key, len(problems[i]))
		for _, p := range problems[i] {
			fmt.Fprintf(out, "    - %s\n", p)
		}
		total += len(problems[i])
	}

	if total > 0 {
		return fmt.Errorf("verification found %d problem(s)", total)
	}
	return nil
}

// verifyNikaya checks the batch files of one Nikaya directory.
// Returns human-readable problem descriptions; an empty slice means the
// directory is consistent. A missing directory is fine (nothing fetched
// yet).
func verifyNikaya(ctx context.Context, dir string, n config.Nikaya, batchSize int) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	writer, err := bulk.NewWriter(dir)
	if err != nil {
		return nil, err
	}

	var indexes []int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		index, ok := bulk.ParseBatchFileName(entry.Name())
		if !ok {
			continue
		}
		indexes = append(indexes, index)
	}
	sort.Ints(indexes)

	maxIndex := bulk.NumBatches(n.Start, n.End, batchSize)
	seen := make(map[int]int)

	var problems []string
	for _, index := range indexes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if index > maxIndex {
			problems = append(problems, fmt.Sprintf("batch %d exceeds the range's %d batches", index, maxIndex))
			continue
		}

		suttas, err := writer.Read(index)
		if err != nil {
			problems = append(problems, fmt.Sprintf("batch %d: %v", index, err))
			continue
		}

		if len(suttas) > batchSize {
			problems = append(problems, fmt.Sprintf("batch %d holds %d records, more than the batch size %d", index, len(suttas), batchSize))
		}

		lo, hi := bulk.BatchSpan(n.Start, n.End, batchSize, index)
		prev := 0
		for _, s := range suttas {
			if s.ID < lo || s.ID > hi {
				problems = append(problems, fmt.Sprintf("batch %d: ID %d outside span %d-%d", index, s.ID, lo, hi))
			}
			if prev != 0 && s.ID <= prev {
				problems = append(problems, fmt.Sprintf("batch %d: ID %d out of order after %d", index, s.ID, prev))
			}
			if other, dup := seen[s.ID]; dup {
				problems = append(problems, fmt.Sprintf("ID %d appears in both batch %d and batch %d", s.ID, other, index))
			}
			seen[s.ID] = index
			prev = s.ID
		}
	}

	return problems, nil
}
