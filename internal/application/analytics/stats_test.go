package analytics

import (
	"math"
	"testing"
)

func TestMeanAndStdDev(t *testing.T) {
	if _, ok := mean(nil); ok {
		t.Fatal("mean of an empty series should be undefined")
	}
	if _, ok := populationStdDev([]float64{42}); ok {
		t.Fatal("stddev needs two points")
	}

	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	m, _ := mean(xs)
	sd, _ := populationStdDev(xs)
	if m != 5 || sd != 2 {
		t.Fatalf("mean/stddev = %v/%v, want 5/2", m, sd)
	}
}

func TestZScore(t *testing.T) {
	if z := zScore(10, 10, 0); z != 0 {
		t.Fatalf("flat series should score 0, got %v", z)
	}
	if z := zScore(9, 5, 2); z != 2 {
		t.Fatalf("zScore = %v, want 2", z)
	}
}

func TestLinearFit(t *testing.T) {
	if _, _, ok := linearFit([]float64{3}); ok {
		t.Fatal("a single point has no slope")
	}

	slope, intercept, ok := linearFit([]float64{1, 2, 3})
	if !ok || slope != 1 || intercept != 1 {
		t.Fatalf("linearFit = %v, %v, %v", slope, intercept, ok)
	}

	slope, _, _ = linearFit([]float64{100, 200, 100, 200, 100, 200})
	if math.Abs(slope-60.0/7) > 1e-9 {
		t.Fatalf("slope = %v", slope)
	}
}
