package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/phishguard/phishguard/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides type-safe tables, code blocks, and
// GitHub-flavored markdown alerts.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the training report in Markdown format.
func (w *MarkdownWriter) Write(report *model.TrainingReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	if report.Error != "" {
		md.Cautionf("Training failed: %s", report.Error)
		return len(md.String()), md.Build()
	}

	w.writeMetrics(md, report)
	w.writeHistory(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the run summary table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.TrainingReport) {
	md.H1("PhishGuard Training Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Dataset", "`" + report.DatasetPath + "`"},
			{"Rows", strconv.Itoa(report.Rows)},
			{"Degraded rows", strconv.Itoa(report.DegradedRows)},
			{"Split", fmt.Sprintf("%d train / %d test", report.TrainRows, report.TestRows)},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", report.Duration.String()},
			{"Model", "`" + report.ModelPath + "`"},
		},
	})
	md.PlainText("")
}

// writeMetrics writes the held-out evaluation section.
func (w *MarkdownWriter) writeMetrics(md *markdown.Markdown, report *model.TrainingReport) {
	md.H2("Held-out Evaluation")
	md.PlainText("")

	pct := func(v float64) string { return fmt.Sprintf("%.2f%%", v*100) }
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Loss", fmt.Sprintf("%.4f", report.Metrics.Loss)},
			{"Accuracy", pct(report.Metrics.Accuracy)},
			{"Precision", pct(report.Metrics.Precision)},
			{"Recall", pct(report.Metrics.Recall)},
			{"F1 Score", pct(report.Metrics.F1)},
		},
	})
	md.PlainText("")

	md.Note("The model is fitted on the full matrix; the held-out rows were " +
		"also seen during training, so these metrics lean optimistic.")
	md.PlainText("")

	if report.Metrics.Accuracy < 0.8 {
		md.Warningf("Held-out accuracy is %s; the model may need more data or tuning.",
			pct(report.Metrics.Accuracy))
		md.PlainText("")
	}
}

// writeHistory writes the per-epoch training trace.
func (w *MarkdownWriter) writeHistory(md *markdown.Markdown, report *model.TrainingReport) {
	if report.History == nil || report.History.Epochs() == 0 {
		return
	}

	md.H2("Training History")
	md.PlainText("")

	rows := make([][]string, 0, report.History.Epochs())
	for i := range report.History.Loss {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			fmt.Sprintf("%.4f", report.History.Loss[i]),
			fmt.Sprintf("%.4f", report.History.Accuracy[i]),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Epoch", "Loss", "Accuracy"},
		Rows:   rows,
	})
	md.PlainText("")
}
