// Package report renders fetch run reports in multiple output formats.
//
// Three writers share the Writer interface: SimpleWriter for terminal
// text, MarkdownWriter for documentation-friendly Markdown with a mermaid
// chart, and JSONWriter for machine consumption. MultiWriter fans a
// report out to several destinations at once.
package report
