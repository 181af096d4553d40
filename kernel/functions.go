package kernel

import "math"

// MaxExpArg bounds the magnitude of any exponent passed to math.Exp.
// ln(math.MaxFloat64) is about 709.78; beyond ±MaxExpArg the result is
// treated as its limit (0 for decaying terms) instead of being evaluated.
const MaxExpArg = 690

// Func evaluates a kernel at squared distance r2 >= 0.
type Func func(r2 float64) float64

// Evaluate returns the relative transmission density at squared distance r2.
// The result is finite and lies in [0, 1] for any valid Config; an invalid
// shape evaluates to 0.
func Evaluate(cfg Config, r2 float64) float64 {
	f := cfg.Func()
	if f == nil {
		return 0
	}
	return f(r2)
}

// Func resolves the shape once and returns the matching evaluator with the
// parameters bound. It returns nil for an invalid shape.
func (c Config) Func() Func {
	s, b, p3, p4 := c.Scale, c.ShapeParam, c.P3, c.P4
	switch c.Shape {
	case Exponential:
		return func(r2 float64) float64 { return exponential(r2, s) }
	case Power:
		return func(r2 float64) float64 { return power(r2, s, b) }
	case PowerLogistic:
		return func(r2 float64) float64 { return powerLogistic(r2, s, b) }
	case PowerUSMix:
		return func(r2 float64) float64 { return powerUSMix(r2, s, b, p3, p4) }
	case Gaussian:
		return func(r2 float64) float64 { return gaussian(r2, s) }
	case Step:
		return func(r2 float64) float64 { return step(r2, s) }
	case PowerExpCutoff:
		return func(r2 float64) float64 { return powerExpCutoff(r2, s, b, p3, p4) }
	}
	return nil
}

func exponential(r2, s float64) float64 {
	return clampedExp(-math.Sqrt(r2) / s)
}

func power(r2, s, b float64) float64 {
	t := -b * math.Log(math.Sqrt(r2)/s+1)
	if t < -MaxExpArg {
		return 0
	}
	return math.Exp(t)
}

func powerLogistic(r2, s, b float64) float64 {
	t := 0.5 * b * math.Log(r2/(s*s))
	if math.IsNaN(t) {
		// b == 0 at r2 == 0: the kernel is the constant 1/2
		t = 0
	}
	if t > MaxExpArg {
		return 0
	}
	return 1 / (math.Exp(t) + 1)
}

func powerUSMix(r2, s, b, p3, p4 float64) float64 {
	t := math.Log(math.Sqrt(r2)/s + 1)
	if t < -MaxExpArg {
		return 0
	}
	return (clampedExp(-b*t) + p3*clampedExp(-p4*t)) / (1 + p3)
}

func gaussian(r2, s float64) float64 {
	return clampedExp(-r2 / (s * s))
}

func step(r2, s float64) float64 {
	if r2 > s*s {
		return 0
	}
	return 1
}

func powerExpCutoff(r2, s, b, p3, p4 float64) float64 {
	d := math.Sqrt(r2)
	t := -b * math.Log(d/s+1)
	if t < -MaxExpArg {
		return 0
	}
	return clampedExp(t - math.Pow(d/p3, p4))
}

// clampedExp returns exp(x), or 0 once x falls below -MaxExpArg.
func clampedExp(x float64) float64 {
	if x < -MaxExpArg || math.IsNaN(x) {
		return 0
	}
	return math.Exp(x)
}
