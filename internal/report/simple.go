package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/phishguard/phishguard/internal/model"
)

// SimpleWriter outputs human-readable text reports.
//
// Design decision: plain text with ASCII formatting rather than ANSI
// colors because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
type SimpleWriter struct {
	baseWriter

	// verbose enables the per-epoch history section.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output including the training history.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the training report in human-readable format.
func (w *SimpleWriter) Write(report *model.TrainingReport) (int, error) {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                       PHISHGUARD TRAINING REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Dataset:        %s\n", report.DatasetPath))
	sb.WriteString(fmt.Sprintf("Rows:           %d (degraded: %d)\n", report.Rows, report.DegradedRows))
	sb.WriteString(fmt.Sprintf("Split:          %d train / %d test\n", report.TrainRows, report.TestRows))
	sb.WriteString(fmt.Sprintf("Started:        %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Duration:       %s\n", report.Duration.Round(time.Millisecond)))

	if report.Error != "" {
		sb.WriteString(fmt.Sprintf("Status:         FAILED - %s\n\n", report.Error))
		return w.output.Write([]byte(sb.String()))
	}
	sb.WriteString(fmt.Sprintf("Model:          %s\n\n", report.ModelPath))

	sb.WriteString("Held-out evaluation\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  Loss:      %.4f\n", report.Metrics.Loss))
	sb.WriteString(fmt.Sprintf("  Accuracy:  %.2f%%\n", report.Metrics.Accuracy*100))
	sb.WriteString(fmt.Sprintf("  Precision: %.2f%%\n", report.Metrics.Precision*100))
	sb.WriteString(fmt.Sprintf("  Recall:    %.2f%%\n", report.Metrics.Recall*100))
	sb.WriteString(fmt.Sprintf("  F1 Score:  %.2f%%\n", report.Metrics.F1*100))
	sb.WriteString("\n")

	// The model is fitted on the full matrix, so these held-out numbers
	// lean optimistic. Say so rather than letting the report oversell.
	sb.WriteString("Note: evaluation rows were also part of the training matrix;\n")
	sb.WriteString("metrics are optimistic rather than a generalization estimate.\n")

	if w.verbose && report.History != nil && report.History.Epochs() > 0 {
		sb.WriteString("\nTraining history\n")
		sb.WriteString(strings.Repeat("-", 70))
		sb.WriteString("\n")
		for i := range report.History.Loss {
			sb.WriteString(fmt.Sprintf("  epoch %3d  loss %.4f  accuracy %.4f\n",
				i+1, report.History.Loss[i], report.History.Accuracy[i]))
		}
	}
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}
