package nn

import (
	"context"
	"log/slog"
	"math/rand"

	"github.com/phishguard/phishguard/internal/model"
)

// Batch normalization defaults. Momentum controls how quickly the running
// statistics track the batch statistics; epsilon keeps the normalization
// denominator away from zero.
const (
	defaultBNMomentum = 0.99
	defaultBNEpsilon  = 1e-3
)

// Arch describes the network architecture.
type Arch struct {
	// InputDim is the feature vector width.
	InputDim int

	// HiddenLayers are the widths of the hidden dense layers, in order.
	// Each hidden layer is preceded by batch normalization and followed
	// by relu; all but the last are followed by dropout.
	HiddenLayers []int

	// DropoutRate is the fraction of units deactivated by each dropout
	// layer during training.
	DropoutRate float64
}

// FitConfig holds the training hyperparameters.
type FitConfig struct {
	// Epochs is the number of full passes over the training matrix.
	Epochs int

	// BatchSize is the mini-batch size.
	BatchSize int

	// InitialLearningRate is the Adam learning rate at step zero.
	InitialLearningRate float64

	// DecaySteps and DecayRate define the exponential learning rate
	// schedule: the rate is multiplied by DecayRate every DecaySteps
	// optimization steps, decaying continuously between them.
	DecaySteps float64
	DecayRate  float64
}

// Network is a feed-forward binary classifier.
//
// A Network is not safe for concurrent use: training mutates weights and
// per-layer caches in place. The surrounding pipeline is single-threaded,
// so no locking is provided.
type Network struct {
	inputDim int
	layers   []layer
	rng      *rand.Rand
}

// New builds an untrained network with the given architecture. The seed
// drives weight initialization, epoch shuffling, and dropout masks, so two
// networks built and fitted with the same seed and data are identical.
func New(arch Arch, seed int64) *Network {
	rng := rand.New(rand.NewSource(seed))
	n := &Network{
		inputDim: arch.InputDim,
		rng:      rng,
	}

	prev := arch.InputDim
	for i, h := range arch.HiddenLayers {
		n.layers = append(n.layers,
			newBatchNorm(prev, defaultBNMomentum, defaultBNEpsilon),
			newDense(prev, h, rng),
			&relu{},
		)
		if i < len(arch.HiddenLayers)-1 {
			n.layers = append(n.layers, newDropout(arch.DropoutRate, rng))
		}
		prev = h
	}
	n.layers = append(n.layers, newDense(prev, 1, rng), &sigmoid{})
	return n
}

// InputDim returns the expected feature vector width.
func (n *Network) InputDim() int {
	return n.inputDim
}

// Fit trains the network on the full matrix for the configured number of
// epochs and returns the per-epoch loss/accuracy history.
//
// The context is checked between batches so a cancelled run stops promptly;
// a cancelled fit returns the context error and the model must be treated
// as unusable.
func (n *Network) Fit(ctx context.Context, x [][]float64, y []float64, cfg FitConfig, logger *slog.Logger) (*model.History, error) {
	if len(x) == 0 {
		return nil, ErrEmptyTrainingSet
	}
	if len(x) != len(y) {
		return nil, ErrDimensionMismatch
	}
	for _, row := range x {
		if len(row) != n.inputDim {
			return nil, ErrDimensionMismatch
		}
	}
	if cfg.Epochs <= 0 || cfg.BatchSize <= 0 ||
		cfg.InitialLearningRate <= 0 || cfg.DecaySteps <= 0 || cfg.DecayRate <= 0 {
		return nil, ErrInvalidFitConfig
	}
	if logger == nil {
		logger = slog.Default()
	}

	opt := newAdam(n.parameters(), cfg.InitialLearningRate, cfg.DecaySteps, cfg.DecayRate)
	history := &model.History{}

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		perm := n.rng.Perm(len(x))

		var epochLoss float64
		var correct int
		for start := 0; start < len(perm); start += cfg.BatchSize {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			end := start + cfg.BatchSize
			if end > len(perm) {
				end = len(perm)
			}
			batchX := make([][]float64, 0, end-start)
			batchY := make([]float64, 0, end-start)
			for _, idx := range perm[start:end] {
				batchX = append(batchX, x[idx])
				batchY = append(batchY, y[idx])
			}

			out := n.forward(batchX, true)
			probs := column(out)
			epochLoss += binaryCrossEntropy(probs, batchY) * float64(len(batchY))
			for i, p := range probs {
				if (p >= 0.5) == (batchY[i] >= 0.5) {
					correct++
				}
			}

			grad := make([]float64, len(probs))
			bceGradient(probs, batchY, grad)
			n.backward(grad)
			opt.apply()
		}

		loss := epochLoss / float64(len(x))
		accuracy := float64(correct) / float64(len(x))
		history.Loss = append(history.Loss, loss)
		history.Accuracy = append(history.Accuracy, accuracy)
		logger.Debug("epoch complete",
			"epoch", epoch+1,
			"loss", loss,
			"accuracy", accuracy,
			"learning_rate", opt.learningRate(),
		)
	}
	return history, nil
}

// Predict returns the phishing probability for each input row.
func (n *Network) Predict(x [][]float64) []float64 {
	if len(x) == 0 {
		return nil
	}
	return column(n.forward(x, false))
}

// PredictOne returns the phishing probability for a single feature vector.
func (n *Network) PredictOne(features []float64) float64 {
	return n.Predict([][]float64{features})[0]
}

// Evaluate computes the mean binary cross-entropy loss and the predicted
// probabilities over a labeled set.
func (n *Network) Evaluate(x [][]float64, y []float64) (loss float64, probs []float64) {
	probs = n.Predict(x)
	if len(probs) == 0 {
		return 0, nil
	}
	return binaryCrossEntropy(probs, y), probs
}

func (n *Network) forward(x [][]float64, training bool) [][]float64 {
	out := x
	for _, l := range n.layers {
		out = l.forward(out, training)
	}
	return out
}

// backward propagates the gradient of the loss with respect to the sigmoid
// output back through every layer.
func (n *Network) backward(outGrad []float64) {
	grad := make([][]float64, len(outGrad))
	for i, g := range outGrad {
		grad[i] = []float64{g}
	}
	for i := len(n.layers) - 1; i >= 0; i-- {
		grad = n.layers[i].backward(grad)
	}
}

func (n *Network) parameters() []*Param {
	var params []*Param
	for _, l := range n.layers {
		params = append(params, l.params()...)
	}
	return params
}

// column flattens a batch of single-value rows into one slice.
func column(out [][]float64) []float64 {
	probs := make([]float64, len(out))
	for i := range out {
		probs[i] = out[i][0]
	}
	return probs
}
