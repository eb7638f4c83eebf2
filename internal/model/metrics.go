package model

// Metrics holds the evaluation results computed on the held-out partition.
// All values are in [0, 1].
type Metrics struct {
	// Loss is the mean binary cross-entropy on the held-out set.
	Loss float64 `json:"loss"`

	// Accuracy is the share of held-out examples classified correctly
	// after thresholding.
	Accuracy float64 `json:"accuracy"`

	// Precision is TP / (TP + FP); zero when nothing was predicted
	// positive.
	Precision float64 `json:"precision"`

	// Recall is TP / (TP + FN); zero when no positives exist.
	Recall float64 `json:"recall"`

	// F1 is the harmonic mean of precision and recall; zero when both
	// are zero.
	F1 float64 `json:"f1"`
}

// ComputeMetrics derives accuracy, precision, recall, and F1 from predicted
// probabilities and 0/1 labels. Probabilities at or above threshold count
// as the positive (phishing) class. Loss is left for the caller to fill in.
//
// Undefined ratios degrade to zero rather than NaN, matching the common
// zero-division convention for classification metrics.
func ComputeMetrics(labels, probs []float64, threshold float64) Metrics {
	var tp, fp, tn, fn int
	for i, p := range probs {
		predicted := p >= threshold
		actual := labels[i] >= 0.5
		switch {
		case predicted && actual:
			tp++
		case predicted && !actual:
			fp++
		case !predicted && !actual:
			tn++
		default:
			fn++
		}
	}

	var m Metrics
	total := tp + fp + tn + fn
	if total == 0 {
		return m
	}
	m.Accuracy = float64(tp+tn) / float64(total)
	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}
