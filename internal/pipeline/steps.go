package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phishguard/phishguard/internal/database"
	"github.com/phishguard/phishguard/internal/dataset"
	"github.com/phishguard/phishguard/internal/feature"
	"github.com/phishguard/phishguard/internal/model"
	"github.com/phishguard/phishguard/internal/nn"
)

// ErrEmptyDataset is returned when the dataset file yields no usable rows.
var ErrEmptyDataset = errors.New("dataset contains no usable rows")

// LoadStep reads the labeled dataset from CSV.
type LoadStep struct{}

// NewLoadStep creates a dataset loading step.
func NewLoadStep() *LoadStep {
	return &LoadStep{}
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return "load_dataset"
}

// Do loads the CSV dataset into the run state.
func (s *LoadStep) Do(_ context.Context, state *State) error {
	rows, err := dataset.Load(state.Config.DatasetPath)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	if len(rows) == 0 {
		return ErrEmptyDataset
	}

	state.Rows = rows
	state.Report.Rows = len(rows)
	return nil
}

// ExtractStep converts the loaded rows into the feature matrix.
type ExtractStep struct {
	// logger for structured logging.
	logger *slog.Logger
}

// ExtractStepOption configures an ExtractStep.
type ExtractStepOption func(*ExtractStep)

// WithExtractLogger sets a custom logger for the extraction step.
func WithExtractLogger(logger *slog.Logger) ExtractStepOption {
	return func(s *ExtractStep) {
		s.logger = logger
	}
}

// NewExtractStep creates a feature extraction step.
func NewExtractStep(opts ...ExtractStepOption) *ExtractStep {
	s := &ExtractStep{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *ExtractStep) Name() string {
	return "extract_features"
}

// Do builds the feature matrix and label vector from the loaded rows.
func (s *ExtractStep) Do(ctx context.Context, state *State) error {
	builder := dataset.NewBuilder(dataset.WithLogger(s.logger))
	matrix, labels, degraded, err := builder.Build(ctx, state.Rows)
	if err != nil {
		return fmt.Errorf("extract features: %w", err)
	}

	state.X = matrix
	state.Y = labels
	state.Report.DegradedRows = degraded

	if degraded > 0 {
		s.logger.Warn("some URLs degraded to the zero vector",
			"degraded", degraded,
			"rows", len(state.Rows),
		)
	}
	return nil
}

// SplitStep partitions the matrix into train and test sets.
type SplitStep struct{}

// NewSplitStep creates a split step.
func NewSplitStep() *SplitStep {
	return &SplitStep{}
}

// Name returns the step name.
func (s *SplitStep) Name() string {
	return "split_dataset"
}

// Do partitions the feature matrix using the configured fraction and seed.
func (s *SplitStep) Do(_ context.Context, state *State) error {
	state.Split = dataset.NewSplit(state.X, state.Y, state.Config.TestFraction, state.Config.Seed)
	state.Report.TrainRows = len(state.Split.TrainX)
	state.Report.TestRows = len(state.Split.TestX)
	return nil
}

// TrainStep fits the network on the feature matrix.
//
// The fit deliberately uses the full matrix rather than the train
// partition; the split feeds only the evaluation step. This mirrors the
// behavior the bundled model was developed with and keeps trained weights
// reproducible against it.
type TrainStep struct {
	// logger receives per-epoch progress lines.
	logger *slog.Logger
}

// TrainStepOption configures a TrainStep.
type TrainStepOption func(*TrainStep)

// WithTrainLogger sets a custom logger for the training step.
func WithTrainLogger(logger *slog.Logger) TrainStepOption {
	return func(s *TrainStep) {
		s.logger = logger
	}
}

// NewTrainStep creates a training step.
func NewTrainStep(opts ...TrainStepOption) *TrainStep {
	s := &TrainStep{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *TrainStep) Name() string {
	return "train_model"
}

// Do builds the network from the configured architecture and fits it.
func (s *TrainStep) Do(ctx context.Context, state *State) error {
	cfg := state.Config

	network := nn.New(nn.Arch{
		InputDim:     feature.NumFeatures,
		HiddenLayers: cfg.HiddenLayers,
		DropoutRate:  cfg.DropoutRate,
	}, cfg.Seed)

	history, err := network.Fit(ctx, state.X, state.Y, nn.FitConfig{
		Epochs:              cfg.Epochs,
		BatchSize:           cfg.BatchSize,
		InitialLearningRate: cfg.InitialLearningRate,
		DecaySteps:          float64(cfg.DecaySteps),
		DecayRate:           cfg.DecayRate,
	}, s.logger)
	if err != nil {
		return fmt.Errorf("train model: %w", err)
	}

	state.Network = network
	state.Report.History = history
	return nil
}

// EvaluateStep computes held-out metrics for the trained network.
type EvaluateStep struct{}

// NewEvaluateStep creates an evaluation step.
func NewEvaluateStep() *EvaluateStep {
	return &EvaluateStep{}
}

// Name returns the step name.
func (s *EvaluateStep) Name() string {
	return "evaluate_model"
}

// Do runs the network over the test partition and records the metrics.
func (s *EvaluateStep) Do(_ context.Context, state *State) error {
	loss, probs := state.Network.Evaluate(state.Split.TestX, state.Split.TestY)
	metrics := model.ComputeMetrics(state.Split.TestY, probs, state.Config.Threshold)
	metrics.Loss = loss
	state.Report.Metrics = metrics
	return nil
}

// SaveStep persists the trained network snapshot.
type SaveStep struct{}

// NewSaveStep creates a model save step.
func NewSaveStep() *SaveStep {
	return &SaveStep{}
}

// Name returns the step name.
func (s *SaveStep) Name() string {
	return "save_model"
}

// Do writes the model snapshot to the configured path.
func (s *SaveStep) Do(_ context.Context, state *State) error {
	if err := state.Network.Save(state.Config.ModelPath); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	state.Report.ModelPath = state.Config.ModelPath
	return nil
}

// RecordStep persists a run summary to the history database.
type RecordStep struct {
	// db is the open run database. The step does not own it; the caller
	// closes it after the pipeline finishes.
	db *database.RunDB
}

// NewRecordStep creates a run recording step backed by the given database.
func NewRecordStep(db *database.RunDB) *RecordStep {
	return &RecordStep{db: db}
}

// Name returns the step name.
func (s *RecordStep) Name() string {
	return "record_run"
}

// Do saves a summary of the report to the run history database.
func (s *RecordStep) Do(ctx context.Context, state *State) error {
	run := model.NewTrainingRun(state.Report)
	if _, err := s.db.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}
