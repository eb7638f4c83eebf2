package nn

import "errors"

// Training and model loading errors.
//
// Design decision: package-level sentinel errors allow callers to branch
// with errors.Is while keeping the messages human-readable. A failed fit is
// fatal for the whole run; there is no retry path, so these errors surface
// all the way to the command layer.
var (
	// ErrEmptyTrainingSet is returned when Fit is called with no examples.
	ErrEmptyTrainingSet = errors.New("nn: training set is empty")

	// ErrDimensionMismatch is returned when a feature row does not match
	// the network's input width, or labels and rows differ in count.
	ErrDimensionMismatch = errors.New("nn: input dimensions do not match network architecture")

	// ErrInvalidFitConfig is returned when epochs, batch size, or the
	// learning rate schedule are not positive.
	ErrInvalidFitConfig = errors.New("nn: fit configuration values must be positive")

	// ErrInvalidSnapshot is returned when a serialized model cannot be
	// reconstructed into a network.
	ErrInvalidSnapshot = errors.New("nn: model snapshot is malformed")
)
