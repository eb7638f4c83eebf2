package model

import "time"

// TrainingReport collects everything a completed (or failed) training run
// produced: dataset counts, the held-out evaluation metrics, the per-epoch
// history, and the artifact locations. Report writers render it; the run
// database persists a summary of it.
type TrainingReport struct {
	// DatasetPath is the CSV dataset the run trained on.
	DatasetPath string `json:"dataset_path"`

	// Rows is the number of retained dataset rows (malformed rows are
	// dropped during loading and never counted).
	Rows int `json:"rows"`

	// DegradedRows is the number of URLs that failed to parse and
	// contributed the zero feature vector.
	DegradedRows int `json:"degraded_rows"`

	// TrainRows and TestRows are the partition sizes of the 80/20 split.
	// Fitting uses the full matrix; the split exists only for evaluation.
	TrainRows int `json:"train_rows"`
	TestRows  int `json:"test_rows"`

	// ModelPath is where the trained model was saved, empty if the run
	// failed before saving.
	ModelPath string `json:"model_path,omitempty"`

	// Metrics are the held-out evaluation results.
	Metrics Metrics `json:"metrics"`

	// History is the per-epoch training trace.
	History *History `json:"history,omitempty"`

	// StartedAt marks when the run began; Duration how long it took.
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`

	// Error holds the failure message when the run did not complete.
	Error string `json:"error,omitempty"`
}

// Succeeded reports whether the run completed and produced a model file.
func (r *TrainingReport) Succeeded() bool {
	return r.Error == "" && r.ModelPath != ""
}
