package nn

import "math"

// Adam hyperparameters. The moment decay rates are the standard defaults;
// the epsilon matches the value the trained models were tuned against.
const (
	adamBeta1   = 0.9
	adamBeta2   = 0.999
	adamEpsilon = 1e-7
)

// adam applies the Adam update rule with an exponentially decaying learning
// rate: lr(t) = initial * rate^(t/steps), evaluated continuously per
// optimization step.
type adam struct {
	params []*Param
	m      [][]float64
	v      [][]float64
	step   int

	initialLR  float64
	decaySteps float64
	decayRate  float64
}

func newAdam(params []*Param, initialLR, decaySteps, decayRate float64) *adam {
	a := &adam{
		params:     params,
		m:          make([][]float64, len(params)),
		v:          make([][]float64, len(params)),
		initialLR:  initialLR,
		decaySteps: decaySteps,
		decayRate:  decayRate,
	}
	for i, p := range params {
		a.m[i] = make([]float64, len(p.Data))
		a.v[i] = make([]float64, len(p.Data))
	}
	return a
}

// learningRate returns the decayed learning rate for the current step.
func (a *adam) learningRate() float64 {
	return a.initialLR * math.Pow(a.decayRate, float64(a.step)/a.decaySteps)
}

// apply performs one optimization step using the accumulated gradients,
// then clears them.
func (a *adam) apply() {
	lr := a.learningRate()
	a.step++
	c1 := 1 - math.Pow(adamBeta1, float64(a.step))
	c2 := 1 - math.Pow(adamBeta2, float64(a.step))

	for i, p := range a.params {
		m, v := a.m[i], a.v[i]
		for j := range p.Data {
			g := p.Grad[j]
			m[j] = adamBeta1*m[j] + (1-adamBeta1)*g
			v[j] = adamBeta2*v[j] + (1-adamBeta2)*g*g
			mhat := m[j] / c1
			vhat := v[j] / c2
			p.Data[j] -= lr * mhat / (math.Sqrt(vhat) + adamEpsilon)
			p.Grad[j] = 0
		}
	}
}
