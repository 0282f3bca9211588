package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/tipitaka-tools/tipitakafetch/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeNikayaTable(md, report)
	w.writeOutcomeChart(md, report)
	w.writeAlert(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.RunReport) {
	md.H1("Tipitaka Fetch Report")
	md.PlainText("")

	status := "✅ Complete"
	if !report.Complete() {
		status = "⚠️ Incomplete (resume with the same command)"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run Date", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", report.Elapsed.Round(1e9).String()},
			{"Pages Fetched", strconv.Itoa(report.TotalFetched())},
			{"Batches Written", strconv.Itoa(report.TotalBatches())},
			{"Status", status},
		},
	})
	md.PlainText("")
}

// writeNikayaTable writes the per-Nikaya results table.
func (w *MarkdownWriter) writeNikayaTable(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Nikayas")
	md.PlainText("")

	if len(report.Summaries) == 0 {
		md.PlainText("Nothing processed.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Summaries))
	for i, s := range report.Summaries {
		status := "✅"
		if !s.Complete {
			status = "⚠️"
		}
		rows[i] = []string{
			s.NikayaName,
			fmt.Sprintf("%d - %d", s.RangeStart, s.RangeEnd),
			strconv.Itoa(s.ResumedFrom),
			strconv.Itoa(s.Fetched),
			strconv.Itoa(s.Failed),
			strconv.Itoa(s.Invalid),
			strconv.Itoa(s.Batches),
			status,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Nikaya", "Range", "Resumed From", "Fetched", "Failed", "Invalid", "Batches", "Status"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeOutcomeChart writes a mermaid pie chart of fetch outcomes.
func (w *MarkdownWriter) writeOutcomeChart(md *markdown.Markdown, report *model.RunReport) {
	fetched := report.TotalFetched()
	failed := report.TotalFailed()
	if fetched == 0 && failed == 0 {
		return
	}

	invalid := 0
	for _, s := range report.Summaries {
		invalid += s.Invalid
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Fetch Outcomes"),
		piechart.WithShowData(true),
	)

	if valid := fetched - invalid; valid > 0 {
		chart.LabelAndIntValue("Valid content", uint64(valid))
	}
	if invalid > 0 {
		chart.LabelAndIntValue("Invalid content", uint64(invalid))
	}
	if failed > 0 {
		chart.LabelAndIntValue("Failed", uint64(failed))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert reflecting the run outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.RunReport) {
	switch {
	case !report.Complete():
		md.Warning("The run did not finish every Nikaya. Re-run the same command to resume from the last completed batch.")
	case report.TotalFailed() > 0:
		md.Importantf(
			"%d page(s) could not be fetched and were skipped. See the fetch log for their IDs.",
			report.TotalFailed(),
		)
	default:
		md.Tip("All requested pages fetched without errors.")
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [tipitakafetch](https://github.com/tipitaka-tools/tipitakafetch)*")
}
