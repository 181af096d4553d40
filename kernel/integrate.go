package kernel

import (
	"math"

	"gonum.org/v1/gonum/integrate"
)

const (
	// stepsPerScale bounds the Simpson step to lengthScale/stepsPerScale so
	// wide bins far from the origin do not lose accuracy.
	stepsPerScale = 128
	// searchSubsteps is the minimum Simpson resolution per doubling interval
	// while locating the cutoff of shapes without a closed-form tail.
	searchSubsteps = 64
)

// lengthScale is the distance over which the kernel changes appreciably.
func (c Config) lengthScale() float64 {
	if c.Shape == PowerExpCutoff && c.P3 > 0 {
		return math.Min(c.Scale, c.P3)
	}
	return c.Scale
}

// simpson integrates f(s²) over distance intervals [√r2a, √r2b] using at
// least minSteps sub-intervals and a step no wider than maxStep.
type simpson struct {
	f        Func
	minSteps int
	maxStep  float64
	x, y     []float64
}

func newSimpson(f Func, minSteps int, maxStep float64) *simpson {
	return &simpson{f: f, minSteps: minSteps, maxStep: maxStep}
}

// mass evaluates the end points at the exact squared distances so a
// compact-support boundary is never lost to rounding.
func (s *simpson) mass(r2a, r2b float64) float64 {
	lo, hi := math.Sqrt(r2a), math.Sqrt(r2b)
	if !(hi > lo) {
		return 0
	}
	n := max(s.minSteps, int(math.Ceil((hi-lo)/s.maxStep)))
	n += n % 2
	if cap(s.x) < n+1 {
		s.x = make([]float64, n+1)
		s.y = make([]float64, n+1)
	}
	x, y := s.x[:n+1], s.y[:n+1]
	h := (hi - lo) / float64(n)
	for j := 1; j < n; j++ {
		x[j] = lo + float64(j)*h
		y[j] = s.f(x[j] * x[j])
	}
	x[0], y[0] = lo, s.f(r2a)
	x[n], y[n] = hi, s.f(r2b)
	return integrate.Simpsons(x, y)
}

// binMasses fills out[i] with the mass between squared distances i·delta and
// (i+1)·delta; the last bin ends exactly at end.
func binMasses(s *simpson, delta, end float64, out []float64) {
	last := len(out) - 1
	for i := range out {
		r2b := float64(i+1) * delta
		if i == last {
			r2b = end
		}
		out[i] = s.mass(float64(i)*delta, r2b)
	}
}

// cutoffRadius returns the radius beyond which the residual kernel mass is
// below tol, capped at maxR. capped reports whether the cap was binding.
func cutoffRadius(cfg Config, s *simpson, tol, maxR float64) (r float64, capped bool) {
	switch cfg.Shape {
	case Step:
		r = cfg.Scale
	case Exponential:
		// tail mass of exp(-r/S) beyond R is exp(-R/S)
		r = cfg.Scale * math.Log(1/tol)
	case Gaussian:
		// tail mass of exp(-r²/S²) beyond R is erfc(R/S)
		r = cfg.Scale * math.Erfcinv(tol)
	default:
		return searchCutoff(s, cfg.Scale, tol, maxR)
	}
	if r > maxR {
		return maxR, true
	}
	return r, false
}

// searchCutoff doubles the radius from scale until the mass gained over the
// last doubling is below tol times the mass accumulated so far.
func searchCutoff(s *simpson, scale, tol, maxR float64) (float64, bool) {
	search := newSimpson(s.f, searchSubsteps, s.maxStep)
	r := math.Min(scale, maxR)
	mass := search.mass(0, r*r)
	for r < maxR {
		next := math.Min(2*r, maxR)
		inc := search.mass(r*r, next*next)
		mass += inc
		r = next
		if inc <= tol*mass {
			return r, false
		}
	}
	return maxR, true
}
