package dataset

import "testing"

// makeMatrix builds an n-row matrix whose first column is the row index,
// so partition membership can be traced after shuffling.
func makeMatrix(n int) ([][]float64, []float64) {
	matrix := make([][]float64, n)
	labels := make([]float64, n)
	for i := range matrix {
		matrix[i] = []float64{float64(i), 0, 0}
		labels[i] = float64(i % 2)
	}
	return matrix, labels
}

func TestNewSplit_Sizes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		n            int
		testFraction float64
		wantTest     int
	}{
		{name: "100 rows at 20 percent", n: 100, testFraction: 0.2, wantTest: 20},
		{name: "held out count rounds up", n: 10, testFraction: 0.25, wantTest: 3},
		{name: "tiny dataset keeps test non-empty", n: 3, testFraction: 0.2, wantTest: 1},
		{name: "zero fraction holds out nothing", n: 10, testFraction: 0, wantTest: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			matrix, labels := makeMatrix(tt.n)
			s := NewSplit(matrix, labels, tt.testFraction, 42)

			if len(s.TestX) != tt.wantTest {
				t.Errorf("test rows = %d, want %d", len(s.TestX), tt.wantTest)
			}
			if len(s.TrainX) != tt.n-tt.wantTest {
				t.Errorf("train rows = %d, want %d", len(s.TrainX), tt.n-tt.wantTest)
			}
			if len(s.TrainX) != len(s.TrainY) || len(s.TestX) != len(s.TestY) {
				t.Error("matrix and label partition sizes disagree")
			}
		})
	}
}

func TestNewSplit_Reproducible(t *testing.T) {
	t.Parallel()

	matrix, labels := makeMatrix(50)

	a := NewSplit(matrix, labels, 0.2, 42)
	b := NewSplit(matrix, labels, 0.2, 42)

	for i := range a.TestX {
		if a.TestX[i][0] != b.TestX[i][0] {
			t.Fatalf("same seed produced different partitions at test row %d", i)
		}
	}

	c := NewSplit(matrix, labels, 0.2, 7)
	same := true
	for i := range a.TestX {
		if a.TestX[i][0] != c.TestX[i][0] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical partitions")
	}
}

func TestNewSplit_PartitionsCoverAllRows(t *testing.T) {
	t.Parallel()

	matrix, labels := makeMatrix(30)
	s := NewSplit(matrix, labels, 0.2, 42)

	seen := make(map[float64]bool, 30)
	for _, row := range s.TrainX {
		seen[row[0]] = true
	}
	for _, row := range s.TestX {
		if seen[row[0]] {
			t.Fatalf("row %v appears in both partitions", row[0])
		}
		seen[row[0]] = true
	}
	if len(seen) != 30 {
		t.Errorf("partitions cover %d rows, want 30", len(seen))
	}
}
