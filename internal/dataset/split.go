package dataset

import (
	"math"
	"math/rand"
)

// Split holds the train/test partitions of a feature matrix.
//
// The split exists only for post-hoc evaluation: the trainer deliberately
// fits on the full unsplit matrix, so metrics computed on Test are
// optimistic rather than a true generalization estimate. That inconsistency
// is inherited behavior and is documented, not silently corrected.
type Split struct {
	TrainX [][]float64
	TrainY []float64
	TestX  [][]float64
	TestY  []float64
}

// NewSplit partitions the matrix and labels into train and test sets.
//
// testFraction is the share of rows held out for evaluation (0.2 gives an
// 80/20 split; the held-out count is rounded up so small datasets still get
// a non-empty test set). The shuffle is driven only by seed, so the same
// seed always yields the same partition membership.
func NewSplit(matrix [][]float64, labels []float64, testFraction float64, seed int64) Split {
	n := len(matrix)
	testN := int(math.Ceil(float64(n) * testFraction))
	if testN > n {
		testN = n
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)

	s := Split{
		TrainX: make([][]float64, 0, n-testN),
		TrainY: make([]float64, 0, n-testN),
		TestX:  make([][]float64, 0, testN),
		TestY:  make([]float64, 0, testN),
	}
	for i, idx := range perm {
		if i < testN {
			s.TestX = append(s.TestX, matrix[idx])
			s.TestY = append(s.TestY, labels[idx])
			continue
		}
		s.TrainX = append(s.TrainX, matrix[idx])
		s.TrainY = append(s.TrainY, labels[idx])
	}
	return s
}
