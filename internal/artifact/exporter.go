package artifact

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/phishguard/phishguard/internal/nn"
)

// Convert folds a model snapshot into the flat dense-layer inference graph.
//
// Each batch normalization layer must be immediately consumed by a dense
// layer (ignoring activations and dropout, which carry no state): batchnorm
// applies x' = gamma*(x-mean)/sqrt(var+eps) + beta, an affine map, so it
// folds into the following dense weights exactly. Graphs that end with a
// dangling batchnorm, or stack two batchnorms, cannot be represented and
// fail conversion.
func Convert(s *nn.Snapshot) (*Model, error) {
	m := &Model{}

	// scale/shift hold a pending batchnorm waiting to be folded into the
	// next dense layer.
	var scale, shift []float64

	for i, ls := range s.Layers {
		switch ls.Type {
		case nn.LayerBatchNorm:
			if scale != nil {
				return nil, fmt.Errorf("%w: consecutive normalization layers at %d", ErrUnsupportedGraph, i)
			}
			dim := len(ls.Gamma)
			scale = make([]float64, dim)
			shift = make([]float64, dim)
			for j := 0; j < dim; j++ {
				invStd := 1 / math.Sqrt(ls.Variance[j]+ls.Epsilon)
				scale[j] = ls.Gamma[j] * invStd
				shift[j] = ls.Beta[j] - ls.Gamma[j]*ls.Mean[j]*invStd
			}

		case nn.LayerDense:
			l := Layer{
				InputDim:   ls.InputDim,
				OutputDim:  ls.OutputDim,
				Activation: ActivationLinear,
				Weights:    make([]float32, ls.InputDim*ls.OutputDim),
				Bias:       make([]float32, ls.OutputDim),
			}
			if scale != nil && len(scale) != ls.InputDim {
				return nil, fmt.Errorf("%w: normalization width does not match dense input at %d", ErrUnsupportedGraph, i)
			}
			for o := 0; o < ls.OutputDim; o++ {
				bias := ls.Bias[o]
				for k := 0; k < ls.InputDim; k++ {
					w := ls.Weights[o*ls.InputDim+k]
					if scale != nil {
						bias += w * shift[k]
						w *= scale[k]
					}
					l.Weights[o*ls.InputDim+k] = float32(w)
				}
				l.Bias[o] = float32(bias)
			}
			scale, shift = nil, nil
			m.Layers = append(m.Layers, l)

		case nn.LayerReLU, nn.LayerSigmoid:
			if len(m.Layers) == 0 {
				return nil, fmt.Errorf("%w: activation before any dense layer", ErrUnsupportedGraph)
			}
			last := &m.Layers[len(m.Layers)-1]
			if last.Activation != ActivationLinear {
				return nil, fmt.Errorf("%w: stacked activations at %d", ErrUnsupportedGraph, i)
			}
			if ls.Type == nn.LayerReLU {
				last.Activation = ActivationReLU
			} else {
				last.Activation = ActivationSigmoid
			}

		case nn.LayerDropout:
			// Identity at inference.

		default:
			return nil, fmt.Errorf("%w: layer type %q", ErrUnsupportedGraph, ls.Type)
		}
	}

	if scale != nil {
		return nil, fmt.Errorf("%w: dangling normalization layer", ErrUnsupportedGraph)
	}
	if len(m.Layers) == 0 {
		return nil, fmt.Errorf("%w: no dense layers", ErrUnsupportedGraph)
	}
	return m, nil
}

// Export loads a saved model, converts it to the portable format, and
// writes the artifact to outPath, creating parent directories as needed.
//
// Any failure is fatal and leaves no partial artifact: the bytes are fully
// encoded in memory before the output file is touched.
func Export(modelPath, outPath string) error {
	network, err := nn.Load(modelPath)
	if err != nil {
		return fmt.Errorf("failed to load model: %w", err)
	}

	m, err := Convert(network.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to convert model: %w", err)
	}

	data, err := Encode(m)
	if err != nil {
		return fmt.Errorf("failed to encode artifact: %w", err)
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create artifact directory: %w", err)
		}
	}
	if err := os.WriteFile(outPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	return nil
}

// Open reads and decodes a portable artifact from disk.
func Open(path string) (*Model, error) {
	data, err := os.ReadFile(path) //nolint:gosec // artifact path is operator input
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	return Decode(data)
}
