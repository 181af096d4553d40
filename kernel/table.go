package kernel

import (
	"math"
	"slices"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/epi-sim/transmission-kernel/kernel/perf"
)

// boundaryTolerance is the largest accepted disagreement between the two
// tiers' independently integrated mass at the high-resolution boundary.
const boundaryTolerance = 1e-6

// Tier is one resolution level of a Table. CDF is indexed by squared
// distance, entry i corresponding to r2 = i·Delta. Density is sampled evenly
// in distance so the peak at the origin is resolved.
type Tier struct {
	Delta    float64   // squared-distance step between CDF entries
	CDF      []float64 // normalized cumulative mass at i·Delta
	Quantile []float64 // squared distance at mass levels j·Mass()/(len-1)
	Density  []float64 // kernel value at distance i·DensityStep()

	norm float64 // converts integrated kernel mass to CDF units
}

// Len returns the number of entries.
func (t Tier) Len() int { return len(t.CDF) }

// Mass returns the normalized mass covered by the tier.
func (t Tier) Mass() float64 { return t.CDF[len(t.CDF)-1] }

// Extent returns the largest squared distance the tier covers.
func (t Tier) Extent() float64 { return float64(len(t.CDF)-1) * t.Delta }

// DensityStep returns the distance between consecutive Density entries.
func (t Tier) DensityStep() float64 { return math.Sqrt(t.Extent()) / float64(len(t.Density)-1) }

func (t Tier) clone() Tier {
	return Tier{
		Delta:    t.Delta,
		CDF:      slices.Clone(t.CDF),
		Quantile: slices.Clone(t.Quantile),
		Density:  slices.Clone(t.Density),
		norm:     t.norm,
	}
}

// Table is the discretized, normalized cumulative distribution of one kernel
// configuration. A Table is fully built by NewTable and never modified
// afterwards, so a single *Table may be shared by any number of goroutines.
type Table struct {
	cfg     Config
	opts    TableOptions
	f       Func
	step    float64 // widest Simpson step
	cutoff2 float64
	inner2  float64
	std     Tier
	hr      Tier
}

// NewTable integrates the configured kernel into a standard tier over the
// full effective domain and a high-resolution tier over the near-origin
// region holding opts.HighResMass of the total mass.
//
// It returns a *ConfigurationError for an invalid shape, scale or option and
// a *NumericalInstabilityError when the integrated mass cannot be normalized.
// NewTable must not run concurrently with readers of the Table it replaces;
// see Active for the swap discipline.
func NewTable(cfg Config, opts ...TableOption) (*Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := DefaultTableOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	defer perf.Region(o.Profiler, perf.Join("kernel.build.", cfg.Shape))()

	maxR := o.MaxRadius
	if maxR == 0 {
		maxR = defaultRadiusFactor * cfg.Scale
	}
	f := cfg.Func()
	step := cfg.lengthScale() / stepsPerScale
	integ := newSimpson(f, o.Substeps, step)

	stop := perf.Record(o.Profiler, "kernel.build.cutoff")
	cutoff, capped := cutoffRadius(cfg, integ, o.Tolerance, maxR)
	stop()
	if capped {
		logrus.Warnf("%s kernel: residual mass beyond max radius %g exceeds tolerance %g; table truncated",
			cfg.Shape, maxR, o.Tolerance)
	}
	cutoff2 := cutoff * cutoff

	stop = perf.Record(o.Profiler, "kernel.build.standard")
	std, total := integrateTier(integ, cutoff2, o.Size)
	stop()
	if !(total > 0) || math.IsInf(total, 0) {
		return nil, &NumericalInstabilityError{Shape: cfg.Shape, Mass: total}
	}
	std.norm = 1 / total
	floats.Scale(std.norm, std.CDF)
	clipMonotone(std.CDF)
	std.CDF[len(std.CDF)-1] = 1

	k := innerIndex(std.CDF, o.HighResMass)
	inner2 := float64(k) * std.Delta
	if k == len(std.CDF)-1 {
		inner2 = cutoff2
	}

	stop = perf.Record(o.Profiler, "kernel.build.high_res")
	hr, hrTotal := integrateTier(integ, inner2, o.HighResSize)
	stop()
	if !(hrTotal > 0) || math.IsInf(hrTotal, 0) {
		return nil, &NumericalInstabilityError{Shape: cfg.Shape, Mass: hrTotal}
	}
	// Both tiers integrate [0, inner2]; pin the finer one to the standard
	// value so the sampler is continuous across the tier boundary.
	if diff := math.Abs(hrTotal/total - std.CDF[k]); diff > boundaryTolerance {
		logrus.Warnf("%s kernel: tiers disagree by %g at the high-resolution boundary", cfg.Shape, diff)
	}
	hr.norm = std.CDF[k] / hrTotal
	floats.Scale(hr.norm, hr.CDF)
	clipMonotone(hr.CDF)

	stop = perf.Record(o.Profiler, "kernel.build.quantile")
	std.Quantile = buildQuantile(integ, std)
	hr.Quantile = buildQuantile(integ, hr)
	stop()

	logrus.Debugf("%s kernel table: cutoff=%g inner cutoff=%g high-res mass=%g (N=%d, M=%d)",
		cfg.Shape, cutoff, math.Sqrt(inner2), hr.Mass(), o.Size, o.HighResSize)

	return &Table{cfg: cfg, opts: o, f: f, step: step, cutoff2: cutoff2, inner2: inner2, std: std, hr: hr}, nil
}

// Config returns the configuration the table was built from.
func (t *Table) Config() Config { return t.cfg }

// Options returns the resolved build options.
func (t *Table) Options() TableOptions { return t.opts }

// Cutoff returns the outer cutoff distance.
func (t *Table) Cutoff() float64 { return math.Sqrt(t.cutoff2) }

// Cutoff2 returns the squared outer cutoff distance.
func (t *Table) Cutoff2() float64 { return t.cutoff2 }

// InnerCutoff2 returns the squared extent of the high-resolution tier.
func (t *Table) InnerCutoff2() float64 { return t.inner2 }

// Size returns the standard tier length; Sample positions span [0, Size()-1].
func (t *Table) Size() int { return t.std.Len() }

// Standard returns a copy of the standard tier.
func (t *Table) Standard() Tier { return t.std.clone() }

// HighRes returns a copy of the high-resolution tier.
func (t *Table) HighRes() Tier { return t.hr.clone() }

// CDF returns the normalized cumulative mass at squared distance r2. It
// starts from the finest tier entry below r2 and integrates the kernel over
// the rest of the bin, so unlike Sample it is not a constant-time lookup.
func (t *Table) CDF(r2 float64) float64 {
	switch {
	case !(r2 > 0):
		return 0
	case r2 >= t.cutoff2:
		return 1
	}
	tier := &t.std
	if r2 <= t.inner2 {
		tier = &t.hr
	}
	i := min(int(r2/tier.Delta), tier.Len()-2)
	partial := newSimpson(t.f, t.opts.Substeps, t.step).mass(float64(i)*tier.Delta, r2)
	return math.Min(tier.CDF[i]+tier.norm*partial, tier.CDF[i+1])
}

// integrateTier tabulates the unnormalized cumulative mass at n equally
// spaced squared distances over [0, extent2] and the kernel value at n
// equally spaced distances over the same range. It returns the tier and its
// total mass.
func integrateTier(integ *simpson, extent2 float64, n int) (Tier, float64) {
	delta := extent2 / float64(n-1)
	masses := make([]float64, n-1)
	binMasses(integ, delta, extent2, masses)

	cdf := make([]float64, n)
	floats.CumSum(cdf[1:], masses)

	density := make([]float64, n)
	dr := math.Sqrt(extent2) / float64(n-1)
	for i := range density {
		r := float64(i) * dr
		density[i] = integ.f(r * r)
	}
	density[n-1] = integ.f(extent2)

	return Tier{Delta: delta, CDF: cdf, Density: density}, cdf[n-1]
}

// clipMonotone removes round-off inversions so cdf is non-decreasing and
// never exceeds 1.
func clipMonotone(cdf []float64) {
	hi := 0.0
	for i, v := range cdf {
		if v < hi {
			cdf[i] = hi
		}
		if v > 1 {
			cdf[i] = 1
		}
		hi = cdf[i]
	}
}

// innerIndex returns the first index whose cumulative mass reaches frac.
func innerIndex(cdf []float64, frac float64) int {
	for i, v := range cdf {
		if v >= frac {
			return max(i, 1)
		}
	}
	return len(cdf) - 1
}

// maxNewtonSteps bounds the safeguarded Newton iteration for one mass level.
const maxNewtonSteps = 60

// buildQuantile inverts the tier's cumulative mass in one sweep. Entry j holds
// the squared distance at which the cumulative mass reaches
// j·Mass()/(len-1). Each level is solved against the integrated kernel, not
// the tabulated end points, so a bin holding a large share of the mass is
// inverted as accurately as a narrow one.
func buildQuantile(s *simpson, tier Tier) []float64 {
	cdf := tier.CDF
	n := len(cdf)
	top := cdf[n-1]
	q := make([]float64, n)
	i := 0
	// base is the distance of the last level solved in bin i, baseMass its mass
	base, baseMass := 0.0, cdf[0]
	for j := range q {
		y := top * float64(j) / float64(n-1)
		for i < n-2 && cdf[i+1] < y {
			i++
			base, baseMass = math.Sqrt(float64(i)*tier.Delta), cdf[i]
		}
		rb := math.Sqrt(float64(i+1) * tier.Delta)
		r := base
		if y > baseMass && cdf[i+1] > baseMass {
			r = solveLevel(s, tier.norm, base, baseMass, rb, y, cdf[i+1])
		}
		base, baseMass = r, math.Max(y, baseMass)
		q[j] = r * r
		if j > 0 && q[j] < q[j-1] {
			q[j] = q[j-1]
		}
	}
	q[n-1] = math.Max(q[n-2], tier.Extent())
	return q
}

// solveLevel finds r in [base, hi] where baseMass + norm·∫_base^r f(s²) ds
// reaches y. hiMass is the tabulated mass at hi and seeds the first guess.
func solveLevel(s *simpson, norm, base, baseMass, hi, y, hiMass float64) float64 {
	a, b := base, hi
	r := base + (hi-base)*(y-baseMass)/(hiMass-baseMass)
	r = math.Max(a, math.Min(b, r))
	for step := 0; step < maxNewtonSteps; step++ {
		g := baseMass + norm*s.mass(base*base, r*r) - y
		if g == 0 {
			return r
		}
		if g > 0 {
			b = r
		} else {
			a = r
		}
		next := math.NaN()
		if d := norm * s.f(r*r); d > 0 {
			next = r - g/d
		}
		if !(next > a && next < b) {
			next = 0.5 * (a + b)
		}
		if math.Abs(next-r) <= 1e-15*hi || b-a <= 1e-15*hi {
			return next
		}
		r = next
	}
	return r
}

// lerp linearly interpolates tab at fractional index x, clamping to the ends.
func lerp(tab []float64, x float64) float64 {
	if !(x > 0) {
		return tab[0]
	}
	i := int(x)
	if i >= len(tab)-1 {
		return tab[len(tab)-1]
	}
	frac := x - float64(i)
	return tab[i] + frac*(tab[i+1]-tab[i])
}
