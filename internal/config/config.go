package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
// The training defaults mirror the hyperparameters the bundled model was
// developed with; they work well on datasets in the tens of thousands of
// rows and can all be overridden via CLI flags or the config file.
const (
	// DefaultModelPath is where the trained model snapshot is written.
	// The JSON snapshot is the native format and preserves full precision.
	DefaultModelPath = "model_save/model.json"

	// DefaultArtifactPath is where the portable inference artifact is written.
	// The artifact is a compact binary with batch normalization folded away,
	// suitable for embedding in other tools.
	DefaultArtifactPath = "model_save/model.bin"

	// DefaultSeed drives every random decision in a run: the train/test
	// split, weight initialization, epoch shuffling, and dropout masks.
	// Two runs with the same seed and dataset produce identical models.
	DefaultSeed = 42

	// DefaultTestFraction is the share of rows held out for evaluation.
	DefaultTestFraction = 0.2

	// DefaultEpochs balances convergence against training time. The loss
	// curve typically flattens well before 50 epochs on lexical features.
	DefaultEpochs = 50

	// DefaultBatchSize of 64 keeps gradient estimates stable without
	// making epochs slow on large datasets.
	DefaultBatchSize = 64

	// DefaultDropoutRate regularizes the two wider hidden layers.
	DefaultDropoutRate = 0.2

	// DefaultInitialLearningRate is the Adam starting step size.
	DefaultInitialLearningRate = 0.001

	// DefaultDecaySteps and DefaultDecayRate define the exponential
	// learning-rate schedule: lr = initial * rate^(step/steps).
	DefaultDecaySteps = 1000
	DefaultDecayRate  = 0.9

	// DefaultThreshold converts sigmoid probabilities into class labels.
	DefaultThreshold = 0.5

	// AppName is the application name used for XDG directory paths.
	AppName = "phishguard"
)

// DefaultHiddenLayers returns the default hidden layer widths.
// A fresh slice is returned so callers can mutate it safely.
func DefaultHiddenLayers() []int {
	return []int{32, 16, 8}
}

// Config holds all configuration options for PhishGuard.
// This struct is designed to be populated from CLI flags and the optional
// config file, then passed through the application via dependency injection
// rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., TrainConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// DatasetPath is the CSV file containing url,label rows to train on.
	// Required for training; labels must be numeric (1 phishing, 0 safe).
	DatasetPath string

	// ModelPath is where the trained model snapshot is written, and where
	// predict and export read it from.
	ModelPath string

	// ArtifactPath is where export writes the portable binary artifact.
	ArtifactPath string

	// Seed is the random seed used for the split, weight initialization,
	// shuffling, and dropout. Fixed seed means reproducible runs.
	Seed int64

	// TestFraction is the share of rows held out for evaluation, in (0, 1).
	TestFraction float64

	// Epochs is the number of full passes over the training matrix.
	Epochs int

	// BatchSize is the mini-batch size for gradient updates.
	BatchSize int

	// HiddenLayers lists the width of each hidden dense layer, in order.
	HiddenLayers []int

	// DropoutRate is the dropout probability applied after each hidden
	// layer except the last. Zero disables dropout.
	DropoutRate float64

	// InitialLearningRate is the Adam optimizer's starting step size.
	InitialLearningRate float64

	// DecaySteps and DecayRate define the exponential learning-rate
	// schedule. DecaySteps must be positive; DecayRate in (0, 1].
	DecaySteps int
	DecayRate  float64

	// Threshold converts predicted probabilities into class labels for
	// metric computation and the predict command.
	Threshold float64

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .phishguard in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// DBDir is the directory path for storing the SQLite run database.
	// Defaults to the XDG data directory (~/.local/share/phishguard on Linux).
	DBDir string

	// SaveToDB indicates whether to record training runs in the database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., epochs, learning
// rate). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		ModelPath:           DefaultModelPath,
		ArtifactPath:        DefaultArtifactPath,
		Seed:                DefaultSeed,
		TestFraction:        DefaultTestFraction,
		Epochs:              DefaultEpochs,
		BatchSize:           DefaultBatchSize,
		HiddenLayers:        DefaultHiddenLayers(),
		DropoutRate:         DefaultDropoutRate,
		InitialLearningRate: DefaultInitialLearningRate,
		DecaySteps:          DefaultDecaySteps,
		DecayRate:           DefaultDecayRate,
		Threshold:           DefaultThreshold,
	}
}

// XDGDataDir returns the XDG data directory for PhishGuard.
// On Linux: ~/.local/share/phishguard
// On macOS: ~/Library/Application Support/phishguard
// On Windows: %LOCALAPPDATA%\phishguard
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for PhishGuard.
// On Linux: ~/.config/phishguard
// On macOS: ~/Library/Application Support/phishguard
// On Windows: %APPDATA%\phishguard
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid for a training run.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any training begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.DatasetPath == "" {
		return ErrNoDataset
	}

	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		return ErrInvalidTestFraction
	}

	if c.Epochs <= 0 {
		return ErrInvalidEpochs
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if len(c.HiddenLayers) == 0 {
		return ErrNoHiddenLayers
	}
	for _, width := range c.HiddenLayers {
		if width <= 0 {
			return ErrNoHiddenLayers
		}
	}

	if c.DropoutRate < 0 || c.DropoutRate >= 1 {
		return ErrInvalidDropoutRate
	}

	if c.InitialLearningRate <= 0 {
		return ErrInvalidLearningRate
	}

	if c.DecaySteps <= 0 || c.DecayRate <= 0 || c.DecayRate > 1 {
		return ErrInvalidDecay
	}

	if c.Threshold <= 0 || c.Threshold >= 1 {
		return ErrInvalidThreshold
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
