package model

import "time"

// TrainingRun is the persisted summary of one completed training run, as
// stored in the run history database. It carries enough to compare runs
// over time without retaining the full feature matrix or model weights.
type TrainingRun struct {
	// ID is the database row ID, zero until saved.
	ID int64 `json:"id"`

	// DatasetPath identifies the dataset the run trained on.
	DatasetPath string `json:"dataset_path"`

	// Rows, TrainRows, and TestRows are the dataset and partition sizes.
	Rows      int `json:"rows"`
	TrainRows int `json:"train_rows"`
	TestRows  int `json:"test_rows"`

	// Epochs is the number of completed training epochs.
	Epochs int `json:"epochs"`

	// Metrics are the held-out evaluation results for the run.
	Metrics Metrics `json:"metrics"`

	// ModelPath is where the trained model was saved.
	ModelPath string `json:"model_path"`

	// CreatedAt is when the run finished.
	CreatedAt time.Time `json:"created_at"`
}

// NewTrainingRun builds a persistable run summary from a finished report.
func NewTrainingRun(report *TrainingReport) *TrainingRun {
	run := &TrainingRun{
		DatasetPath: report.DatasetPath,
		Rows:        report.Rows,
		TrainRows:   report.TrainRows,
		TestRows:    report.TestRows,
		Metrics:     report.Metrics,
		ModelPath:   report.ModelPath,
		CreatedAt:   report.StartedAt.Add(report.Duration),
	}
	if report.History != nil {
		run.Epochs = report.History.Epochs()
	}
	return run
}
