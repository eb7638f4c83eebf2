// Package report renders training results for people and tools.
//
// This package contains writers for different output formats:
//   - SimpleWriter: human-readable text output for terminal display
//   - JSONWriter: structured JSON output for tool integration
//   - MarkdownWriter: GitHub Flavored Markdown for documentation
//
// Design decision: report rendering is separated from the report data
// structures (model package) so new output formats can be added without
// touching the pipeline. Writers share one interface and compose through
// MultiWriter for simultaneous terminal and file output.
package report
