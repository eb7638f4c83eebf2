package model

import (
	"math"
	"testing"
	"time"
)

func TestComputeMetrics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		labels    []float64
		probs     []float64
		threshold float64
		want      Metrics
	}{
		{
			name:      "perfect classifier",
			labels:    []float64{0, 0, 1, 1},
			probs:     []float64{0.1, 0.2, 0.9, 0.8},
			threshold: 0.5,
			want:      Metrics{Accuracy: 1, Precision: 1, Recall: 1, F1: 1},
		},
		{
			name:      "one false positive one false negative",
			labels:    []float64{0, 0, 1, 1},
			probs:     []float64{0.9, 0.2, 0.1, 0.8},
			threshold: 0.5,
			want:      Metrics{Accuracy: 0.5, Precision: 0.5, Recall: 0.5, F1: 0.5},
		},
		{
			name:      "nothing predicted positive degrades precision to zero",
			labels:    []float64{0, 1},
			probs:     []float64{0.1, 0.2},
			threshold: 0.5,
			want:      Metrics{Accuracy: 0.5, Precision: 0, Recall: 0, F1: 0},
		},
		{
			name:      "no positive labels degrades recall to zero",
			labels:    []float64{0, 0},
			probs:     []float64{0.9, 0.1},
			threshold: 0.5,
			want:      Metrics{Accuracy: 0.5, Precision: 0, Recall: 0, F1: 0},
		},
		{
			name:      "probability at threshold counts as positive",
			labels:    []float64{1},
			probs:     []float64{0.5},
			threshold: 0.5,
			want:      Metrics{Accuracy: 1, Precision: 1, Recall: 1, F1: 1},
		},
		{
			name:      "empty input",
			labels:    nil,
			probs:     nil,
			threshold: 0.5,
			want:      Metrics{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ComputeMetrics(tt.labels, tt.probs, tt.threshold)
			approx := func(a, b float64) bool { return math.Abs(a-b) < 1e-12 }
			if !approx(got.Accuracy, tt.want.Accuracy) ||
				!approx(got.Precision, tt.want.Precision) ||
				!approx(got.Recall, tt.want.Recall) ||
				!approx(got.F1, tt.want.F1) {
				t.Errorf("ComputeMetrics = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestHistory(t *testing.T) {
	t.Parallel()

	h := &History{}
	if h.Epochs() != 0 {
		t.Errorf("empty history epochs = %d, want 0", h.Epochs())
	}
	if loss, acc := h.Final(); loss != 0 || acc != 0 {
		t.Errorf("empty history final = (%v, %v), want zeros", loss, acc)
	}

	h.Loss = []float64{0.7, 0.5, 0.3}
	h.Accuracy = []float64{0.5, 0.7, 0.9}
	if h.Epochs() != 3 {
		t.Errorf("epochs = %d, want 3", h.Epochs())
	}
	if loss, acc := h.Final(); loss != 0.3 || acc != 0.9 {
		t.Errorf("final = (%v, %v), want (0.3, 0.9)", loss, acc)
	}
}

func TestTrainingReport_Succeeded(t *testing.T) {
	t.Parallel()

	r := &TrainingReport{ModelPath: "model_save/model.json"}
	if !r.Succeeded() {
		t.Error("report with model path should have succeeded")
	}

	r.Error = "fit failed"
	if r.Succeeded() {
		t.Error("report with error should not have succeeded")
	}

	if (&TrainingReport{}).Succeeded() {
		t.Error("report without model path should not have succeeded")
	}
}

func TestNewTrainingRun(t *testing.T) {
	t.Parallel()

	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	report := &TrainingReport{
		DatasetPath: "data/dataset.csv",
		Rows:        100,
		TrainRows:   80,
		TestRows:    20,
		ModelPath:   "model_save/model.json",
		Metrics:     Metrics{Accuracy: 0.9},
		History:     &History{Loss: []float64{0.5, 0.4}, Accuracy: []float64{0.8, 0.9}},
		StartedAt:   started,
		Duration:    2 * time.Minute,
	}

	run := NewTrainingRun(report)
	if run.Epochs != 2 {
		t.Errorf("epochs = %d, want 2", run.Epochs)
	}
	if run.Rows != 100 || run.TrainRows != 80 || run.TestRows != 20 {
		t.Errorf("unexpected row counts: %+v", run)
	}
	if !run.CreatedAt.Equal(started.Add(2 * time.Minute)) {
		t.Errorf("created at = %v, want %v", run.CreatedAt, started.Add(2*time.Minute))
	}
}
