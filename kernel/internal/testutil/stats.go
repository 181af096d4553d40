// Package testutil provides shared statistical assertions for kernel tests.
package testutil

import (
	"math"
	"sort"
	"testing"

	"gonum.org/v1/gonum/integrate/quad"
)

// legendrePoints is the Gauss-Legendre order used per quadrature piece.
const legendrePoints = 16

// AssertRelClose fails when got differs from want by more than relTol of the
// larger magnitude. Two zeros are equal.
func AssertRelClose(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	scale := math.Max(math.Abs(want), math.Abs(got))
	if scale == 0 {
		return
	}
	if rel := math.Abs(want-got) / scale; rel > relTol {
		t.Errorf("%s: got %v, want %v (relative error %.3g > %.3g)", name, got, want, rel, relTol)
	}
}

// KSStatistic returns the one-sample Kolmogorov–Smirnov distance between the
// empirical distribution of samples and cdf. samples is sorted in place.
func KSStatistic(samples []float64, cdf func(float64) float64) float64 {
	sort.Float64s(samples)
	ref := make([]float64, len(samples))
	for i, x := range samples {
		ref[i] = cdf(x)
	}
	return KSDistance(samples, ref)
}

// KSDistance returns the Kolmogorov–Smirnov distance between sorted samples
// and the reference CDF values at those samples.
func KSDistance(sorted, ref []float64) float64 {
	n := float64(len(sorted))
	d := 0.0
	for i, f := range ref {
		d = math.Max(d, math.Max(float64(i+1)/n-f, f-float64(i)/n))
	}
	return d
}

// KSCritical returns the asymptotic critical value of the one-sample KS
// statistic for n samples at significance alpha.
func KSCritical(n int, alpha float64) float64 {
	return math.Sqrt(-math.Log(alpha/2)/2) / math.Sqrt(float64(n))
}

// QuadratureCDF returns the distribution with density proportional to f on
// [0, upper], evaluated at each of the ascending points. It integrates with
// Gauss-Legendre rules on pieces that never span more than a quarter of
// their distance from the origin, independently of the Simpson tables.
func QuadratureCDF(f func(r float64) float64, upper float64, points []float64) []float64 {
	out := make([]float64, len(points))
	acc, prev := 0.0, 0.0
	for i, x := range points {
		x = math.Min(math.Max(x, prev), upper)
		acc += piecewise(f, prev, x)
		out[i] = acc
		prev = x
	}
	total := acc + piecewise(f, prev, upper)
	for i := range out {
		out[i] /= total
	}
	return out
}

func piecewise(f func(float64) float64, a, b float64) float64 {
	sum := 0.0
	for a < b {
		next := math.Min(b, math.Max(a+0.25, 1.25*a))
		sum += quad.Fixed(f, a, next, legendrePoints, nil, 0)
		a = next
	}
	return sum
}

// AssertNonDecreasing fails if values ever decrease.
func AssertNonDecreasing(t *testing.T, name string, values []float64) {
	t.Helper()
	for i := 1; i < len(values); i++ {
		if values[i] < values[i-1] {
			t.Fatalf("%s: decreases at %d (%v < %v)", name, i, values[i], values[i-1])
		}
	}
}
