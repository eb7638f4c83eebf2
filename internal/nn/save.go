package nn

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
)

// Layer type names used in the serialized model.
const (
	LayerBatchNorm = "batchnorm"
	LayerDense     = "dense"
	LayerReLU      = "relu"
	LayerSigmoid   = "sigmoid"
	LayerDropout   = "dropout"
)

// snapshotVersion is the serialized model format version.
const snapshotVersion = 1

// Snapshot is the serializable form of a trained network. It captures
// everything inference needs: layer order, weights, and the frozen batch
// normalization statistics.
type Snapshot struct {
	Version  int             `json:"version"`
	InputDim int             `json:"input_dim"`
	Layers   []LayerSnapshot `json:"layers"`
}

// LayerSnapshot is one serialized layer. Type decides which fields are
// populated.
type LayerSnapshot struct {
	Type string `json:"type"`

	// Dense fields. Weights are row-major (OutputDim x InputDim).
	InputDim  int       `json:"input_dim,omitempty"`
	OutputDim int       `json:"output_dim,omitempty"`
	Weights   []float64 `json:"weights,omitempty"`
	Bias      []float64 `json:"bias,omitempty"`

	// Batch normalization fields.
	Gamma    []float64 `json:"gamma,omitempty"`
	Beta     []float64 `json:"beta,omitempty"`
	Mean     []float64 `json:"mean,omitempty"`
	Variance []float64 `json:"variance,omitempty"`
	Epsilon  float64   `json:"epsilon,omitempty"`

	// Dropout fields.
	Rate float64 `json:"rate,omitempty"`
}

// Snapshot captures the network's current weights and statistics.
func (n *Network) Snapshot() *Snapshot {
	s := &Snapshot{
		Version:  snapshotVersion,
		InputDim: n.inputDim,
	}
	for _, l := range n.layers {
		switch layer := l.(type) {
		case *batchNorm:
			s.Layers = append(s.Layers, LayerSnapshot{
				Type:     LayerBatchNorm,
				Gamma:    append([]float64(nil), layer.gamma.Data...),
				Beta:     append([]float64(nil), layer.beta.Data...),
				Mean:     append([]float64(nil), layer.runMean...),
				Variance: append([]float64(nil), layer.runVar...),
				Epsilon:  layer.epsilon,
			})
		case *dense:
			s.Layers = append(s.Layers, LayerSnapshot{
				Type:      LayerDense,
				InputDim:  layer.in,
				OutputDim: layer.out,
				Weights:   append([]float64(nil), layer.w.Data...),
				Bias:      append([]float64(nil), layer.b.Data...),
			})
		case *relu:
			s.Layers = append(s.Layers, LayerSnapshot{Type: LayerReLU})
		case *sigmoid:
			s.Layers = append(s.Layers, LayerSnapshot{Type: LayerSigmoid})
		case *dropout:
			s.Layers = append(s.Layers, LayerSnapshot{Type: LayerDropout, Rate: layer.rate})
		}
	}
	return s
}

// FromSnapshot reconstructs a network from a snapshot. The result carries
// the saved weights and frozen statistics and is ready for inference or
// further training.
func FromSnapshot(s *Snapshot) (*Network, error) {
	if s.InputDim <= 0 || len(s.Layers) == 0 {
		return nil, fmt.Errorf("%w: no layers or non-positive input width", ErrInvalidSnapshot)
	}

	rng := rand.New(rand.NewSource(0))
	n := &Network{
		inputDim: s.InputDim,
		rng:      rng,
	}
	for i, ls := range s.Layers {
		switch ls.Type {
		case LayerBatchNorm:
			dim := len(ls.Gamma)
			if dim == 0 || len(ls.Beta) != dim || len(ls.Mean) != dim || len(ls.Variance) != dim {
				return nil, fmt.Errorf("%w: inconsistent batchnorm vectors in layer %d", ErrInvalidSnapshot, i)
			}
			bn := newBatchNorm(dim, defaultBNMomentum, ls.Epsilon)
			copy(bn.gamma.Data, ls.Gamma)
			copy(bn.beta.Data, ls.Beta)
			copy(bn.runMean, ls.Mean)
			copy(bn.runVar, ls.Variance)
			n.layers = append(n.layers, bn)
		case LayerDense:
			if ls.InputDim <= 0 || ls.OutputDim <= 0 ||
				len(ls.Weights) != ls.InputDim*ls.OutputDim || len(ls.Bias) != ls.OutputDim {
				return nil, fmt.Errorf("%w: inconsistent dense shape in layer %d", ErrInvalidSnapshot, i)
			}
			d := newDense(ls.InputDim, ls.OutputDim, rng)
			copy(d.w.Data, ls.Weights)
			copy(d.b.Data, ls.Bias)
			n.layers = append(n.layers, d)
		case LayerReLU:
			n.layers = append(n.layers, &relu{})
		case LayerSigmoid:
			n.layers = append(n.layers, &sigmoid{})
		case LayerDropout:
			n.layers = append(n.layers, newDropout(ls.Rate, rng))
		default:
			return nil, fmt.Errorf("%w: unknown layer type %q", ErrInvalidSnapshot, ls.Type)
		}
	}
	return n, nil
}

// Save writes the network to path as JSON, creating parent directories as
// needed. The file is overwritten if it exists.
func (n *Network) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create model directory: %w", err)
		}
	}

	data, err := json.Marshal(n.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write model file: %w", err)
	}
	return nil
}

// Load reads a previously saved network from path.
func Load(path string) (*Network, error) {
	data, err := os.ReadFile(path) //nolint:gosec // model path is operator input
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode model file: %w", err)
	}
	if s.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, s.Version)
	}
	return FromSnapshot(&s)
}
