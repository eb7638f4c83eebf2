package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoDataset is returned when no dataset CSV path is specified.
	ErrNoDataset = errors.New("no dataset specified: provide a CSV file with url,label rows")

	// ErrInvalidTestFraction is returned when the held-out fraction is
	// outside (0, 1). A fraction of 0 leaves nothing to evaluate; 1 leaves
	// nothing to train on.
	ErrInvalidTestFraction = errors.New("invalid test fraction: must be between 0 and 1 exclusive")

	// ErrInvalidEpochs is returned when the epoch count is not positive.
	ErrInvalidEpochs = errors.New("invalid epochs: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrNoHiddenLayers is returned when the hidden layer list is empty or
	// contains a non-positive width.
	ErrNoHiddenLayers = errors.New("invalid hidden layers: need at least one positive layer width")

	// ErrInvalidDropoutRate is returned when the dropout rate is outside
	// [0, 1). A rate of 1 would zero every activation.
	ErrInvalidDropoutRate = errors.New("invalid dropout rate: must be in [0, 1)")

	// ErrInvalidLearningRate is returned when the learning rate is not positive.
	ErrInvalidLearningRate = errors.New("invalid learning rate: must be positive")

	// ErrInvalidDecay is returned when the decay schedule is malformed.
	// Decay steps must be positive and the decay rate in (0, 1].
	ErrInvalidDecay = errors.New("invalid decay schedule: steps must be positive and rate in (0, 1]")

	// ErrInvalidThreshold is returned when the classification threshold is
	// outside (0, 1).
	ErrInvalidThreshold = errors.New("invalid threshold: must be between 0 and 1 exclusive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
