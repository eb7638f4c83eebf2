package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/phishguard/phishguard/internal/model"
)

func testReport() *model.TrainingReport {
	return &model.TrainingReport{
		DatasetPath:  "data/dataset.csv",
		Rows:         100,
		DegradedRows: 2,
		TrainRows:    80,
		TestRows:     20,
		ModelPath:    "model_save/model.json",
		Metrics: model.Metrics{
			Loss:      0.31,
			Accuracy:  0.92,
			Precision: 0.91,
			Recall:    0.89,
			F1:        0.8999,
		},
		History: &model.History{
			Loss:     []float64{0.6, 0.4, 0.31},
			Accuracy: []float64{0.7, 0.85, 0.92},
		},
		StartedAt: time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC),
		Duration:  90 * time.Second,
	}
}

func TestSimpleWriter_Write(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewSimpleWriter(&buf)
	n, err := w.Write(testReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != buf.Len() {
		t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
	}

	out := buf.String()
	for _, want := range []string{
		"PHISHGUARD TRAINING REPORT",
		"data/dataset.csv",
		"80 train / 20 test",
		"Accuracy:  92.00%",
		"Precision: 91.00%",
		"Recall:    89.00%",
		"F1 Score:  89.99%",
		"optimistic",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// History is only shown in verbose mode.
	if strings.Contains(out, "Training history") {
		t.Error("non-verbose output should not contain training history")
	}
}

func TestSimpleWriter_WriteVerbose(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewSimpleWriter(&buf, WithVerbose(true))
	if _, err := w.Write(testReport()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "epoch   3") {
		t.Errorf("verbose output missing epoch lines:\n%s", buf.String())
	}
}

func TestSimpleWriter_WriteFailedRun(t *testing.T) {
	t.Parallel()

	report := testReport()
	report.Error = "fit failed"
	report.ModelPath = ""

	var buf bytes.Buffer
	if _, err := NewSimpleWriter(&buf).Write(report); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "FAILED - fit failed") {
		t.Errorf("failed run output missing status:\n%s", buf.String())
	}
}

func TestJSONWriter_Write(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewJSONWriter(&buf)
	if _, err := w.Write(testReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded model.TrainingReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Metrics.Accuracy != 0.92 {
		t.Errorf("round-tripped accuracy = %v, want 0.92", decoded.Metrics.Accuracy)
	}
	if decoded.History == nil || decoded.History.Epochs() != 3 {
		t.Error("round-tripped history missing or wrong length")
	}
}

func TestJSONWriter_WritePretty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewJSONWriter(&buf, WithPrettyPrint())
	if _, err := w.Write(testReport()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\n  \"") {
		t.Error("pretty-printed output is not indented")
	}
}

func TestMarkdownWriter_Write(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewMarkdownWriter(&buf)
	if _, err := w.Write(testReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# PhishGuard Training Report",
		"## Held-out Evaluation",
		"## Training History",
		"92.00%",
		"`data/dataset.csv`",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q:\n%s", want, out)
		}
	}
}

func TestMarkdownWriter_WriteFailedRun(t *testing.T) {
	t.Parallel()

	report := testReport()
	report.Error = "dataset unreadable"

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "dataset unreadable") {
		t.Errorf("failed run output missing error:\n%s", buf.String())
	}
}

func TestMultiWriter_Write(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	mw := NewMultiWriter(NewSimpleWriter(&a), NewJSONWriter(&b))
	if _, err := mw.Write(testReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Len() == 0 || b.Len() == 0 {
		t.Error("multi writer did not write to all destinations")
	}
}

type failingWriter struct{}

func (failingWriter) Write(*model.TrainingReport) (int, error) {
	return 0, errors.New("sink closed")
}

func TestMultiWriter_StopsOnError(t *testing.T) {
	t.Parallel()

	var after bytes.Buffer
	mw := NewMultiWriter(failingWriter{}, NewSimpleWriter(&after))
	if _, err := mw.Write(testReport()); err == nil {
		t.Fatal("expected error from failing writer")
	}
	if after.Len() != 0 {
		t.Error("writers after a failure should not be invoked")
	}
}
