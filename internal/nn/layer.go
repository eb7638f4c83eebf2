package nn

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Param is a learnable tensor together with its accumulated gradient.
// Layers accumulate into Grad during backward passes; the optimizer applies
// and clears Grad on each step.
type Param struct {
	Data []float64
	Grad []float64
}

func newParam(n int) *Param {
	return &Param{
		Data: make([]float64, n),
		Grad: make([]float64, n),
	}
}

// layer is one stage of the network. Forward and backward operate on whole
// mini-batches (one row per example) so that batch normalization can see
// batch statistics.
type layer interface {
	// forward computes the layer output for a batch. When training is
	// true the layer may cache intermediate values for backward and
	// update any running statistics.
	forward(x [][]float64, training bool) [][]float64

	// backward consumes the gradient of the loss with respect to the
	// layer output and returns the gradient with respect to the input.
	// Parameter gradients are accumulated into the layer's Params.
	backward(grad [][]float64) [][]float64

	// params returns the layer's learnable parameters, if any.
	params() []*Param
}

func newBatch(rows, cols int) [][]float64 {
	out := make([][]float64, rows)
	backing := make([]float64, rows*cols)
	for i := range out {
		out[i] = backing[i*cols : (i+1)*cols]
	}
	return out
}

// dense is a fully-connected affine layer: y = Wx + b.
// Weights are stored flat in row-major order (out x in) so the optimizer
// sees a single contiguous parameter slice.
type dense struct {
	in, out int
	w       *Param
	b       *Param

	// x caches the input batch for the backward pass.
	x [][]float64
}

// newDense creates a dense layer with Glorot-uniform initialized weights
// and zero biases.
func newDense(in, out int, rng *rand.Rand) *dense {
	d := &dense{
		in:  in,
		out: out,
		w:   newParam(in * out),
		b:   newParam(out),
	}
	limit := math.Sqrt(6.0 / float64(in+out))
	for i := range d.w.Data {
		d.w.Data[i] = rng.Float64()*2*limit - limit
	}
	return d
}

func (d *dense) forward(x [][]float64, training bool) [][]float64 {
	if training {
		d.x = x
	}
	out := newBatch(len(x), d.out)
	for i := range x {
		for o := 0; o < d.out; o++ {
			row := d.w.Data[o*d.in : (o+1)*d.in]
			out[i][o] = floats.Dot(row, x[i]) + d.b.Data[o]
		}
	}
	return out
}

func (d *dense) backward(grad [][]float64) [][]float64 {
	dx := newBatch(len(grad), d.in)
	for i := range grad {
		for o := 0; o < d.out; o++ {
			g := grad[i][o]
			if g == 0 {
				continue
			}
			wRow := d.w.Data[o*d.in : (o+1)*d.in]
			gRow := d.w.Grad[o*d.in : (o+1)*d.in]
			floats.AddScaled(gRow, g, d.x[i])
			floats.AddScaled(dx[i], g, wRow)
			d.b.Grad[o] += g
		}
	}
	return dx
}

func (d *dense) params() []*Param {
	return []*Param{d.w, d.b}
}

// relu applies max(0, x) elementwise.
type relu struct {
	// active caches which units were positive during forward.
	active [][]bool
}

func (r *relu) forward(x [][]float64, training bool) [][]float64 {
	out := newBatch(len(x), width(x))
	if training {
		r.active = make([][]bool, len(x))
	}
	for i := range x {
		if training {
			r.active[i] = make([]bool, len(x[i]))
		}
		for j, v := range x[i] {
			if v > 0 {
				out[i][j] = v
				if training {
					r.active[i][j] = true
				}
			}
		}
	}
	return out
}

func (r *relu) backward(grad [][]float64) [][]float64 {
	dx := newBatch(len(grad), width(grad))
	for i := range grad {
		for j, g := range grad[i] {
			if r.active[i][j] {
				dx[i][j] = g
			}
		}
	}
	return dx
}

func (r *relu) params() []*Param { return nil }

// sigmoid squashes each value into (0, 1).
type sigmoid struct {
	// out caches the forward output; the derivative is out*(1-out).
	out [][]float64
}

func (s *sigmoid) forward(x [][]float64, training bool) [][]float64 {
	out := newBatch(len(x), width(x))
	for i := range x {
		for j, v := range x[i] {
			out[i][j] = 1.0 / (1.0 + math.Exp(-v))
		}
	}
	if training {
		s.out = out
	}
	return out
}

func (s *sigmoid) backward(grad [][]float64) [][]float64 {
	dx := newBatch(len(grad), width(grad))
	for i := range grad {
		for j, g := range grad[i] {
			o := s.out[i][j]
			dx[i][j] = g * o * (1 - o)
		}
	}
	return dx
}

func (s *sigmoid) params() []*Param { return nil }

// dropout randomly deactivates units during training, scaling the survivors
// so the expected activation is unchanged (inverted dropout). At inference
// it is the identity.
type dropout struct {
	rate float64
	rng  *rand.Rand

	mask [][]float64
}

func newDropout(rate float64, rng *rand.Rand) *dropout {
	return &dropout{rate: rate, rng: rng}
}

func (d *dropout) forward(x [][]float64, training bool) [][]float64 {
	if !training || d.rate <= 0 {
		return x
	}
	keep := 1 - d.rate
	out := newBatch(len(x), width(x))
	d.mask = newBatch(len(x), width(x))
	for i := range x {
		for j, v := range x[i] {
			if d.rng.Float64() < keep {
				d.mask[i][j] = 1 / keep
				out[i][j] = v / keep
			}
		}
	}
	return out
}

func (d *dropout) backward(grad [][]float64) [][]float64 {
	if d.rate <= 0 {
		return grad
	}
	dx := newBatch(len(grad), width(grad))
	for i := range grad {
		for j, g := range grad[i] {
			dx[i][j] = g * d.mask[i][j]
		}
	}
	return dx
}

func (d *dropout) params() []*Param { return nil }

// batchNorm normalizes each feature using batch statistics during training
// and frozen running statistics at inference.
type batchNorm struct {
	dim      int
	gamma    *Param
	beta     *Param
	runMean  []float64
	runVar   []float64
	momentum float64
	epsilon  float64

	// caches for backward
	xhat   [][]float64
	invStd []float64
}

func newBatchNorm(dim int, momentum, epsilon float64) *batchNorm {
	bn := &batchNorm{
		dim:      dim,
		gamma:    newParam(dim),
		beta:     newParam(dim),
		runMean:  make([]float64, dim),
		runVar:   make([]float64, dim),
		momentum: momentum,
		epsilon:  epsilon,
	}
	for i := 0; i < dim; i++ {
		bn.gamma.Data[i] = 1
		bn.runVar[i] = 1
	}
	return bn
}

func (bn *batchNorm) forward(x [][]float64, training bool) [][]float64 {
	m := len(x)
	out := newBatch(m, bn.dim)

	if !training {
		for i := range x {
			for j := 0; j < bn.dim; j++ {
				xhat := (x[i][j] - bn.runMean[j]) / math.Sqrt(bn.runVar[j]+bn.epsilon)
				out[i][j] = bn.gamma.Data[j]*xhat + bn.beta.Data[j]
			}
		}
		return out
	}

	mean := make([]float64, bn.dim)
	variance := make([]float64, bn.dim)
	for i := range x {
		floats.Add(mean, x[i])
	}
	floats.Scale(1/float64(m), mean)
	for i := range x {
		for j := 0; j < bn.dim; j++ {
			d := x[i][j] - mean[j]
			variance[j] += d * d
		}
	}
	floats.Scale(1/float64(m), variance)

	bn.invStd = make([]float64, bn.dim)
	for j := 0; j < bn.dim; j++ {
		bn.invStd[j] = 1 / math.Sqrt(variance[j]+bn.epsilon)
	}

	bn.xhat = newBatch(m, bn.dim)
	for i := range x {
		for j := 0; j < bn.dim; j++ {
			bn.xhat[i][j] = (x[i][j] - mean[j]) * bn.invStd[j]
			out[i][j] = bn.gamma.Data[j]*bn.xhat[i][j] + bn.beta.Data[j]
		}
	}

	// Update the running statistics used at inference.
	for j := 0; j < bn.dim; j++ {
		bn.runMean[j] = bn.momentum*bn.runMean[j] + (1-bn.momentum)*mean[j]
		bn.runVar[j] = bn.momentum*bn.runVar[j] + (1-bn.momentum)*variance[j]
	}
	return out
}

func (bn *batchNorm) backward(grad [][]float64) [][]float64 {
	m := len(grad)
	dx := newBatch(m, bn.dim)

	// Per-feature sums over the batch, needed because the batch mean and
	// variance couple every example's gradient.
	sumDxhat := make([]float64, bn.dim)
	sumDxhatXhat := make([]float64, bn.dim)
	for i := range grad {
		for j := 0; j < bn.dim; j++ {
			g := grad[i][j]
			bn.gamma.Grad[j] += g * bn.xhat[i][j]
			bn.beta.Grad[j] += g
			dxhat := g * bn.gamma.Data[j]
			sumDxhat[j] += dxhat
			sumDxhatXhat[j] += dxhat * bn.xhat[i][j]
		}
	}
	fm := float64(m)
	for i := range grad {
		for j := 0; j < bn.dim; j++ {
			dxhat := grad[i][j] * bn.gamma.Data[j]
			dx[i][j] = bn.invStd[j] / fm *
				(fm*dxhat - sumDxhat[j] - bn.xhat[i][j]*sumDxhatXhat[j])
		}
	}
	return dx
}

func (bn *batchNorm) params() []*Param {
	return []*Param{bn.gamma, bn.beta}
}

func width(x [][]float64) int {
	if len(x) == 0 {
		return 0
	}
	return len(x[0])
}
