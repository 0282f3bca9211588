package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/tipitaka-tools/tipitakafetch/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables per-Nikaya timing detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.RunReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeNikayas(&sb, report)
	w.writeTotals(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.RunReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                       TIPITAKAFETCH REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Run Date:  %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Elapsed:   %s\n", report.Elapsed.Round(1e9)))

	if report.Complete() {
		sb.WriteString("Status:    Complete\n")
	} else {
		sb.WriteString("Status:    INCOMPLETE (resume with the same command)\n")
	}

	sb.WriteString("\n")
}

// writeNikayas writes one section per processed Nikaya.
func (w *SimpleWriter) writeNikayas(sb *strings.Builder, report *model.RunReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("NIKAYAS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(report.Summaries) == 0 {
		sb.WriteString("  Nothing processed\n\n")
		return
	}

	for _, s := range report.Summaries {
		w.writeNikaya(sb, s)
	}
}

// writeNikaya writes the summary of one Nikaya run.
func (w *SimpleWriter) writeNikaya(sb *strings.Builder, s model.FetchSummary) {
	indicator := "+"
	if !s.Complete {
		indicator = "!"
	}
	sb.WriteString(fmt.Sprintf("[%s] %s (%s)\n", indicator, s.NikayaName, s.Nikaya))
	sb.WriteString(fmt.Sprintf("    Range:    %d - %d\n", s.RangeStart, s.RangeEnd))
	if s.ResumedFrom > s.RangeStart {
		sb.WriteString(fmt.Sprintf("    Resumed:  from ID %d\n", s.ResumedFrom))
	}
	sb.WriteString(fmt.Sprintf("    Fetched:  %d\n", s.Fetched))
	if s.Failed > 0 {
		sb.WriteString(fmt.Sprintf("    Failed:   %d\n", s.Failed))
	}
	if s.Invalid > 0 {
		sb.WriteString(fmt.Sprintf("    Invalid:  %d\n", s.Invalid))
	}
	sb.WriteString(fmt.Sprintf("    Batches:  %d\n", s.Batches))
	if w.verbose {
		sb.WriteString(fmt.Sprintf("    Elapsed:  %s\n", s.Elapsed.Round(1e9)))
	}
	if s.Err != "" {
		sb.WriteString(fmt.Sprintf("    Stopped:  %s\n", s.Err))
	}
	sb.WriteString("\n")
}

// writeTotals writes the aggregate counters.
func (w *SimpleWriter) writeTotals(sb *strings.Builder, report *model.RunReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("TOTALS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Fetched:  %d\n", report.TotalFetched()))
	sb.WriteString(fmt.Sprintf("  Failed:   %d\n", report.TotalFailed()))
	sb.WriteString(fmt.Sprintf("  Batches:  %d\n", report.TotalBatches()))
	if rate := report.Rate(); rate > 0 {
		sb.WriteString(fmt.Sprintf("  Rate:     %.1f pages/min\n", rate))
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by tipitakafetch\n")
	sb.WriteString("https://github.com/tipitaka-tools/tipitakafetch\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
