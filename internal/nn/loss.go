package nn

import "math"

// probEpsilon clips predicted probabilities away from 0 and 1 so the
// cross-entropy logarithms stay finite.
const probEpsilon = 1e-7

// clipProb constrains p to [probEpsilon, 1-probEpsilon].
func clipProb(p float64) float64 {
	if p < probEpsilon {
		return probEpsilon
	}
	if p > 1-probEpsilon {
		return 1 - probEpsilon
	}
	return p
}

// binaryCrossEntropy returns the mean binary cross-entropy between the
// predicted probabilities and the 0/1 labels.
func binaryCrossEntropy(probs, labels []float64) float64 {
	var sum float64
	for i, p := range probs {
		p = clipProb(p)
		y := labels[i]
		sum += -(y*math.Log(p) + (1-y)*math.Log(1-p))
	}
	return sum / float64(len(probs))
}

// bceGradient fills grad with the derivative of the mean binary
// cross-entropy with respect to each predicted probability.
func bceGradient(probs, labels []float64, grad []float64) {
	m := float64(len(probs))
	for i, p := range probs {
		p = clipProb(p)
		grad[i] = (p - labels[i]) / (p * (1 - p)) / m
	}
}
