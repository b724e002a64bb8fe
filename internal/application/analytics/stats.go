package analytics

import "math"

// mean returns the arithmetic mean, false for an empty series
func mean(xs []float64) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs)), true
}

// populationStdDev needs at least two points
func populationStdDev(xs []float64) (float64, bool) {
	if len(xs) < 2 {
		return 0, false
	}
	m, _ := mean(xs)
	sq := 0.0
	for _, x := range xs {
		sq += (x - m) * (x - m)
	}
	return math.Sqrt(sq / float64(len(xs))), true
}

// zScore is 0 when the series has no spread
func zScore(x, m, sd float64) float64 {
	if sd == 0 {
		return 0
	}
	return (x - m) / sd
}

// linearFit is an ordinary least-squares line over x = 0..n-1. Needs two points.
func linearFit(ys []float64) (slope, intercept float64, ok bool) {
	n := float64(len(ys))
	if len(ys) < 2 {
		return 0, 0, false
	}
	var sx, sy, sxy, sxx float64
	for i, y := range ys {
		x := float64(i)
		sx += x
		sy += y
		sxy += x * y
		sxx += x * x
	}
	den := n*sxx - sx*sx
	if den == 0 {
		return 0, 0, false
	}
	slope = (n*sxy - sx*sy) / den
	intercept = (sy - slope*sx) / n
	return slope, intercept, true
}
