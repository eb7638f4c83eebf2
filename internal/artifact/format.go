package artifact

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// Artifact file layout, all little-endian:
//
//	magic      [4]byte  "PGNN"
//	version    uint16
//	layerCount uint16
//	per layer:
//	  inputDim   uint32
//	  outputDim  uint32
//	  activation uint8
//	  weights    [outputDim*inputDim]float32  row-major
//	  bias       [outputDim]float32
var magic = [4]byte{'P', 'G', 'N', 'N'}

// formatVersion is the artifact format version.
const formatVersion = 1

// Activation codes stored in the artifact.
const (
	ActivationLinear uint8 = iota
	ActivationReLU
	ActivationSigmoid
)

// Artifact decoding errors.
var (
	// ErrInvalidArtifact is returned when the artifact bytes are
	// malformed: wrong magic, bad version, truncated data, or
	// inconsistent layer shapes.
	ErrInvalidArtifact = errors.New("artifact: invalid or corrupt artifact")

	// ErrUnsupportedGraph is returned when a model graph cannot be
	// converted to the flat dense-layer format.
	ErrUnsupportedGraph = errors.New("artifact: model graph contains an unsupported construct")
)

// Layer is one folded dense layer of the portable model.
type Layer struct {
	InputDim   int
	OutputDim  int
	Activation uint8

	// Weights are row-major (OutputDim x InputDim).
	Weights []float32
	Bias    []float32
}

// Model is a loaded portable artifact, ready for inference.
type Model struct {
	Layers []Layer
}

// InputDim returns the feature vector width the model expects.
func (m *Model) InputDim() int {
	if len(m.Layers) == 0 {
		return 0
	}
	return m.Layers[0].InputDim
}

// Predict runs the folded network over one feature vector and returns the
// phishing probability.
func (m *Model) Predict(features []float64) (float64, error) {
	if len(features) != m.InputDim() {
		return 0, fmt.Errorf("%w: expected %d features, got %d", ErrInvalidArtifact, m.InputDim(), len(features))
	}

	x := features
	for _, l := range m.Layers {
		out := make([]float64, l.OutputDim)
		for o := 0; o < l.OutputDim; o++ {
			sum := float64(l.Bias[o])
			row := l.Weights[o*l.InputDim : (o+1)*l.InputDim]
			for k, w := range row {
				sum += float64(w) * x[k]
			}
			switch l.Activation {
			case ActivationReLU:
				if sum < 0 {
					sum = 0
				}
			case ActivationSigmoid:
				sum = 1.0 / (1.0 + math.Exp(-sum))
			}
			out[o] = sum
		}
		x = out
	}
	return x[0], nil
}

// Encode serializes the model into the portable byte format.
func Encode(m *Model) ([]byte, error) {
	if len(m.Layers) == 0 {
		return nil, fmt.Errorf("%w: no layers", ErrUnsupportedGraph)
	}

	var buf bytes.Buffer
	buf.Write(magic[:])
	if err := binary.Write(&buf, binary.LittleEndian, uint16(formatVersion)); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, uint16(len(m.Layers))); err != nil {
		return nil, err
	}
	for _, l := range m.Layers {
		if len(l.Weights) != l.InputDim*l.OutputDim || len(l.Bias) != l.OutputDim {
			return nil, fmt.Errorf("%w: layer shape does not match weight count", ErrUnsupportedGraph)
		}
		if err := binary.Write(&buf, binary.LittleEndian, uint32(l.InputDim)); err != nil {
			return nil, err
		}
		if err := binary.Write(&buf, binary.LittleEndian, uint32(l.OutputDim)); err != nil {
			return nil, err
		}
		if err := buf.WriteByte(l.Activation); err != nil {
			return nil, err
		}
		if err := binary.Write(&buf, binary.LittleEndian, l.Weights); err != nil {
			return nil, err
		}
		if err := binary.Write(&buf, binary.LittleEndian, l.Bias); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// Decode parses portable artifact bytes into a Model.
func Decode(data []byte) (*Model, error) {
	r := bytes.NewReader(data)

	var gotMagic [4]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil {
		return nil, fmt.Errorf("%w: too short", ErrInvalidArtifact)
	}
	if gotMagic != magic {
		return nil, fmt.Errorf("%w: bad magic", ErrInvalidArtifact)
	}

	var version, layerCount uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("%w: truncated header", ErrInvalidArtifact)
	}
	if version != formatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidArtifact, version)
	}
	if err := binary.Read(r, binary.LittleEndian, &layerCount); err != nil {
		return nil, fmt.Errorf("%w: truncated header", ErrInvalidArtifact)
	}
	if layerCount == 0 {
		return nil, fmt.Errorf("%w: no layers", ErrInvalidArtifact)
	}

	m := &Model{Layers: make([]Layer, 0, layerCount)}
	for i := 0; i < int(layerCount); i++ {
		var in, out uint32
		if err := binary.Read(r, binary.LittleEndian, &in); err != nil {
			return nil, fmt.Errorf("%w: truncated layer %d", ErrInvalidArtifact, i)
		}
		if err := binary.Read(r, binary.LittleEndian, &out); err != nil {
			return nil, fmt.Errorf("%w: truncated layer %d", ErrInvalidArtifact, i)
		}
		activation, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: truncated layer %d", ErrInvalidArtifact, i)
		}
		if activation > ActivationSigmoid {
			return nil, fmt.Errorf("%w: unknown activation %d", ErrInvalidArtifact, activation)
		}
		// A sanity cap: the layer sizes in this model family are tiny.
		const maxDim = 1 << 16
		if in == 0 || out == 0 || in > maxDim || out > maxDim {
			return nil, fmt.Errorf("%w: implausible layer shape %dx%d", ErrInvalidArtifact, out, in)
		}

		l := Layer{
			InputDim:   int(in),
			OutputDim:  int(out),
			Activation: activation,
			Weights:    make([]float32, int(in)*int(out)),
			Bias:       make([]float32, int(out)),
		}
		if err := binary.Read(r, binary.LittleEndian, l.Weights); err != nil {
			return nil, fmt.Errorf("%w: truncated weights in layer %d", ErrInvalidArtifact, i)
		}
		if err := binary.Read(r, binary.LittleEndian, l.Bias); err != nil {
			return nil, fmt.Errorf("%w: truncated bias in layer %d", ErrInvalidArtifact, i)
		}

		if i > 0 && m.Layers[i-1].OutputDim != l.InputDim {
			return nil, fmt.Errorf("%w: layer %d input does not match previous output", ErrInvalidArtifact, i)
		}
		m.Layers = append(m.Layers, l)
	}

	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: trailing bytes", ErrInvalidArtifact)
	}
	return m, nil
}
