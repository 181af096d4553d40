package kernel

import "math"

// Density returns the kernel value at squared distance r2 by interpolating
// the tabulated kernel linearly in distance, on the same scale as Evaluate.
// Squared distances beyond the outer cutoff fall back to the analytic
// evaluator.
func (t *Table) Density(r2 float64) float64 {
	switch {
	case !(r2 > 0):
		return t.hr.Density[0]
	case r2 > t.cutoff2:
		return t.f(r2)
	}
	tier := &t.std
	if r2 <= t.inner2 {
		tier = &t.hr
	}
	return lerp(tier.Density, math.Sqrt(r2)/tier.DensityStep())
}
