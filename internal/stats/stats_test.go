package stats

import (
	"math"
	"testing"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func TestMean(t *testing.T) {
	if got := Mean([]float64{1, 2, 3, 4}); !approxEqual(got, 2.5, 1e-9) {
		t.Errorf("Mean = %f, want 2.5", got)
	}
	if Mean(nil) != 0 {
		t.Error("Mean of empty slice should be 0")
	}
}

func TestMax(t *testing.T) {
	if got := Max([]float64{3, 9, 1, 7}); got != 9 {
		t.Errorf("Max = %f, want 9", got)
	}
	if Max(nil) != 0 {
		t.Error("Max of empty slice should be 0")
	}
}

func TestVarianceAndStdDev(t *testing.T) {
	vals := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if got := Variance(vals); !approxEqual(got, 4.571428, 1e-5) {
		t.Errorf("Variance = %f", got)
	}
	if got := StdDev(vals); !approxEqual(got, math.Sqrt(4.571428), 1e-5) {
		t.Errorf("StdDev = %f", got)
	}
}

func TestPercentile(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	if got := Percentile(vals, 50); !approxEqual(got, 5.5, 1e-9) {
		t.Errorf("P50 = %f, want 5.5", got)
	}
	if got := Percentile(vals, 0); got != 1 {
		t.Errorf("P0 = %f, want 1", got)
	}
	if got := Percentile(vals, 100); got != 10 {
		t.Errorf("P100 = %f, want 10", got)
	}
	if Percentile(nil, 50) != 0 {
		t.Error("percentile of empty slice should be 0")
	}
}

func TestPercentileUnsortedInput(t *testing.T) {
	vals := []float64{9, 1, 5, 3, 7}
	if got := Percentile(vals, 50); !approxEqual(got, 5, 1e-9) {
		t.Errorf("P50 of unsorted = %f, want 5", got)
	}
	// The input slice is not reordered.
	if vals[0] != 9 {
		t.Error("Percentile mutated its input")
	}
}
