package kernel

import (
	"math"
	"math/rand"
)

// SampleSquared maps a table position to a squared transmission distance by
// inverse-transform sampling. pos is clamped to [0, Size()-1]; a uniform
// draw scaled by Size()-1 yields squared distances distributed according to
// the kernel's radial mass. Positions whose mass level falls inside the
// high-resolution tier are resolved there, all others in the standard tier.
func (t *Table) SampleSquared(pos float64) float64 {
	last := float64(len(t.std.Quantile) - 1)
	if !(pos > 0) {
		pos = 0
	} else if pos > last {
		pos = last
	}
	u := pos / last
	m := t.hr.Mass()
	if u <= m {
		return lerp(t.hr.Quantile, u/m*float64(len(t.hr.Quantile)-1))
	}
	q := t.std.Quantile
	j := min(int(pos), len(q)-2)
	if lo := float64(j) / last; lo < m {
		// the interval straddling the tier boundary starts at the inner cutoff
		hi := float64(j+1) / last
		return t.inner2 + (u-m)/(hi-m)*(math.Max(q[j+1], t.inner2)-t.inner2)
	}
	return math.Max(lerp(q, pos), t.inner2)
}

// Sample maps a table position to a transmission distance.
func (t *Table) Sample(pos float64) float64 {
	return math.Sqrt(t.SampleSquared(pos))
}

// Draw samples one transmission distance using rng. The *rand.Rand must not
// be shared between goroutines; the Table may be.
func (t *Table) Draw(rng *rand.Rand) float64 {
	return t.Sample(rng.Float64() * float64(t.Size()-1))
}
