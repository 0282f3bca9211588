package bulk

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/tipitaka-tools/tipitakafetch/internal/config"
	"github.com/tipitaka-tools/tipitakafetch/internal/database"
	"github.com/tipitaka-tools/tipitakafetch/internal/model"
	"github.com/tipitaka-tools/tipitakafetch/internal/scraper"
)

// Runner drives the sequential fetch loop for one or more Nikayas.
type Runner struct {
	// fetcher downloads individual pages.
	fetcher *scraper.Fetcher

	// db records fetch history and progress markers. May be nil, in which
	// case resumption relies on the batch files alone.
	db *database.CrawlDB

	// outputDir is the root under which each Nikaya gets its own directory.
	outputDir string

	// batchSize is the number of IDs per batch file.
	batchSize int

	// delay is the politeness pause between consecutive requests.
	delay time.Duration

	// logger receives progress and skip messages.
	logger *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithDB attaches a crawl database for fetch history and progress markers.
func WithDB(db *database.CrawlDB) RunnerOption {
	return func(r *Runner) {
		r.db = db
	}
}

// WithBatchSize sets the number of IDs per batch file.
func WithBatchSize(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// WithDelay sets the pause between consecutive requests.
func WithDelay(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d >= 0 {
			r.delay = d
		}
	}
}

// WithLogger sets the logger for progress messages.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a Runner writing batches under outputDir.
func NewRunner(fetcher *scraper.Fetcher, outputDir string, opts ...RunnerOption) *Runner {
	r := &Runner{
		fetcher:   fetcher,
		outputDir: outputDir,
		batchSize: config.DefaultBatchSize,
		delay:     config.DefaultDelay,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// NikayaDir returns the batch directory for a Nikaya key.
func (r *Runner) NikayaDir(key string) string {
	return filepath.Join(r.outputDir, key)
}

// resumePoint determines the last completed sutta ID for a Nikaya.
// It takes the maximum of the database marker and what the batch files on
// disk show, so either store can be lost without losing progress.
func (r *Runner) resumePoint(ctx context.Context, nikaya config.Nikaya) (int, error) {
	fromDisk, err := CompletedThrough(r.NikayaDir(nikaya.Key), nikaya.Start, nikaya.End, r.batchSize)
	if err != nil {
		return 0, err
	}

	last := fromDisk
	if r.db != nil {
		fromDB, err := r.db.Progress(ctx, nikaya.Key)
		if err != nil {
			return 0, err
		}
		if fromDB > last {
			last = fromDB
		}
	}

	return last, nil
}

// Run fetches one Nikaya's pages from its resume point through the end of
// its ID range, persisting them in fixed-span batch files.
//
// IDs that fail after retries are logged, recorded in the database, and
// skipped; they do not block the batch. The returned summary always
// describes what happened, even when the run was interrupted, and the
// error (if any) explains why the run stopped early.
func (r *Runner) Run(ctx context.Context, nikaya config.Nikaya) (*model.FetchSummary, error) {
	summary := &model.FetchSummary{
		Nikaya:     nikaya.Key,
		NikayaName: nikaya.NameEnglish,
		RangeStart: nikaya.Start,
		RangeEnd:   nikaya.End,
		StartedAt:  time.Now(),
	}
	defer func() {
		summary.Elapsed = time.Since(summary.StartedAt)
	}()

	writer, err := NewWriter(r.NikayaDir(nikaya.Key))
	if err != nil {
		summary.Err = err.Error()
		return summary, err
	}

	last, err := r.resumePoint(ctx, nikaya)
	if err != nil {
		summary.Err = err.Error()
		return summary, err
	}
	summary.ResumedFrom = last + 1

	if last >= nikaya.End {
		summary.ResumedFrom = nikaya.End
		summary.Complete = true
		r.logger.Info("nothing to fetch, range already complete",
			slog.String("nikaya", nikaya.Key),
			slog.Int("range_end", nikaya.End))
		return summary, nil
	}

	r.logger.Info("starting fetch",
		slog.String("nikaya", nikaya.Key),
		slog.Int("from", last+1),
		slog.Int("to", nikaya.End),
		slog.Int("batch_size", r.batchSize))

	var pending []*model.Sutta
	for id := last + 1; id <= nikaya.End; id++ {
		if err := ctx.Err(); err != nil {
			summary.Err = err.Error()
			return summary, err
		}

		sutta, fetchErr := r.fetcher.Fetch(ctx, id)
		switch {
		case fetchErr == nil:
			sutta.Nikaya = nikaya.Key
			summary.Fetched++
			if !sutta.Valid {
				summary.Invalid++
			}
			if err := r.recordSuccess(ctx, sutta); err != nil {
				summary.Err = err.Error()
				return summary, err
			}
			pending = append(pending, sutta)
		case errors.Is(fetchErr, context.Canceled) || errors.Is(fetchErr, context.DeadlineExceeded):
			summary.Err = fetchErr.Error()
			return summary, fetchErr
		default:
			// A dead ID: record it and move on. It will not be retried
			// on resume, the persisted batch covers its span.
			summary.Failed++
			r.logger.Warn("skipping sutta after failed fetch",
				slog.String("nikaya", nikaya.Key),
				slog.Int("sutta_id", id),
				slog.String("error", fetchErr.Error()))
			if err := r.recordFailure(ctx, nikaya.Key, id, fetchErr); err != nil {
				summary.Err = err.Error()
				return summary, err
			}
		}

		_, hi := BatchSpan(nikaya.Start, nikaya.End, r.batchSize, BatchIndex(nikaya.Start, r.batchSize, id))
		if id == hi {
			if err := r.flush(ctx, nikaya, writer, pending, hi); err != nil {
				summary.Err = err.Error()
				return summary, err
			}
			summary.Batches++
			pending = pending[:0]
		}

		if r.delay > 0 && id < nikaya.End {
			select {
			case <-ctx.Done():
				summary.Err = ctx.Err().Error()
				return summary, ctx.Err()
			case <-time.After(r.delay):
			}
		}
	}

	summary.Complete = true
	r.logger.Info("fetch complete",
		slog.String("nikaya", nikaya.Key),
		slog.Int("fetched", summary.Fetched),
		slog.Int("failed", summary.Failed),
		slog.Int("batches", summary.Batches))

	return summary, nil
}

// RunAll fetches the given Nikayas one after another.
// A failure in one Nikaya stops the whole run; its partial summary is
// still included in the report.
func (r *Runner) RunAll(ctx context.Context, nikayas []config.Nikaya) (*model.RunReport, error) {
	report := model.NewRunReport()
	defer func() {
		report.Elapsed = time.Since(report.StartedAt)
	}()

	for _, nikaya := range nikayas {
		summary, err := r.Run(ctx, nikaya)
		report.Add(*summary)
		if err != nil {
			return report, err
		}
	}

	return report, nil
}

// flush persists the pending records as the batch ending at hi and
// advances the progress marker. Marker after rename: the database never
// claims a span the disk does not hold.
func (r *Runner) flush(ctx context.Context, nikaya config.Nikaya, writer *Writer, pending []*model.Sutta, hi int) error {
	index := BatchIndex(nikaya.Start, r.batchSize, hi)
	path, err := writer.Write(index, pending)
	if err != nil {
		return err
	}

	r.logger.Debug("batch persisted",
		slog.String("nikaya", nikaya.Key),
		slog.Int("batch", index),
		slog.Int("records", len(pending)),
		slog.String("path", path))

	if r.db != nil {
		if err := r.db.SetProgress(ctx, nikaya.Key, hi); err != nil {
			return err
		}
	}

	return nil
}

// recordSuccess writes a fetch record for a downloaded page.
func (r *Runner) recordSuccess(ctx context.Context, sutta *model.Sutta) error {
	if r.db == nil {
		return nil
	}
	return r.db.RecordFetch(ctx, &database.FetchRecord{
		Nikaya:     sutta.Nikaya,
		SuttaID:    sutta.ID,
		URL:        sutta.URL,
		StatusCode: sutta.StatusCode,
		Title:      sutta.Title,
		Hash:       sutta.Hash,
		Valid:      sutta.Valid,
	})
}

// recordFailure writes a fetch record for a skipped ID.
func (r *Runner) recordFailure(ctx context.Context, nikayaKey string, id int, fetchErr error) error {
	if r.db == nil {
		return nil
	}
	return r.db.RecordFetch(ctx, &database.FetchRecord{
		Nikaya:  nikayaKey,
		SuttaID: id,
		URL:     r.fetcher.SuttaURL(id),
		Error:   fetchErr.Error(),
	})
}
