package kernel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// allShapes returns one representative, valid configuration per shape.
func allShapes(scale float64) []Config {
	return []Config{
		NewConfig(Exponential, scale, 0, 0, 0),
		NewConfig(Power, scale, 3, 0, 0),
		NewConfig(PowerLogistic, scale, 3, 0, 0),
		NewConfig(PowerUSMix, scale, 3, 0.5, 1.5),
		NewConfig(Gaussian, scale, 0, 0, 0),
		NewConfig(Step, scale, 0, 0, 0),
		NewConfig(PowerExpCutoff, scale, 2, 10*scale, 2),
	}
}

func TestEvaluate_FiniteAndWithinUnitInterval(t *testing.T) {
	r2s := []float64{0, 1e-300, 1e-12, 0.25, 1, 4, 100, 1e4, 1e8, 1e16, 1e300}
	for _, scale := range []float64{1e-3, 1, 4, 1e3} {
		for _, cfg := range allShapes(scale) {
			for _, r2 := range r2s {
				v := Evaluate(cfg, r2)
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("%s(scale=%g) at r2=%g: got non-finite %v", cfg.Shape, scale, r2, v)
				}
				if v < 0 || v > 1 {
					t.Errorf("%s(scale=%g) at r2=%g: got %v, want in [0, 1]", cfg.Shape, scale, r2, v)
				}
			}
		}
	}
}

func TestEvaluate_KnownValues(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		r2   float64
		want float64
	}{
		{"exponential one scale", NewConfig(Exponential, 2, 0, 0, 0), 4, math.Exp(-1)},
		{"exponential origin", NewConfig(Exponential, 2, 0, 0, 0), 0, 1},
		{"power", NewConfig(Power, 1, 2, 0, 0), 1, 0.25},
		{"power logistic at scale", NewConfig(PowerLogistic, 1, 2, 0, 0), 1, 0.5},
		{"power logistic origin", NewConfig(PowerLogistic, 1, 2, 0, 0), 0, 1},
		{"power logistic flat", NewConfig(PowerLogistic, 1, 0, 0, 0), 0, 0.5},
		{"power us mix", NewConfig(PowerUSMix, 1, 2, 1, 4), 1, (0.25 + 1.0/16) / 2},
		{"gaussian", NewConfig(Gaussian, 2, 0, 0, 0), 4, math.Exp(-1)},
		{"power exp cutoff", NewConfig(PowerExpCutoff, 1, 2, 1, 2), 1, 0.25 * math.Exp(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Evaluate(tt.cfg, tt.r2), 1e-12)
		})
	}
}

func TestEvaluate_ExponentClampReturnsExactZero(t *testing.T) {
	tests := []struct {
		name       string
		cfg        Config
		past, near float64 // r2 just past and just before the clamp threshold
	}{
		// -r/S crosses -690 at r = 690
		{"exponential", NewConfig(Exponential, 1, 0, 0, 0), 700 * 700, 600 * 600},
		// -r2/S² crosses -690 at r2 = 690
		{"gaussian", NewConfig(Gaussian, 1, 0, 0, 0), 700, 600},
		// -100·ln(r+1) crosses -690 at r ≈ 991
		{"power", NewConfig(Power, 1, 100, 0, 0), 2000 * 2000, 500 * 500},
		// 50·ln(r2) crosses 690 at r2 ≈ 9.78e5
		{"power logistic", NewConfig(PowerLogistic, 1, 100, 0, 0), 1e6, 9e5},
		{"power exp cutoff", NewConfig(PowerExpCutoff, 1, 100, 1e6, 1), 2000 * 2000, 500 * 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN a kernel whose exponent magnitude exceeds MaxExpArg past the threshold
			// WHEN evaluated on both sides of it
			// THEN it is exactly zero beyond and strictly positive before
			assert.Equal(t, 0.0, Evaluate(tt.cfg, tt.past))
			assert.Greater(t, Evaluate(tt.cfg, tt.near), 0.0)
		})
	}
}

func TestStep_BoundaryInclusive(t *testing.T) {
	cfg := NewConfig(Step, 2, 0, 0, 0)
	assert.Equal(t, 1.0, Evaluate(cfg, 0))
	assert.Equal(t, 1.0, Evaluate(cfg, 3.999))
	assert.Equal(t, 1.0, Evaluate(cfg, 4), "r2 == scale² is inside the support")
	assert.Equal(t, 0.0, Evaluate(cfg, math.Nextafter(4, 5)))
	assert.Equal(t, 0.0, Evaluate(cfg, 1e9))
}

func TestFunc_InvalidShapeIsNil(t *testing.T) {
	assert.Nil(t, NewConfig(Shape(99), 1, 0, 0, 0).Func())
	assert.Nil(t, NewConfig(Shape(0), 1, 0, 0, 0).Func())
}

func TestEvaluate_InvalidShapeIsZero(t *testing.T) {
	// GIVEN a selector outside the enumerated shapes
	cfg := NewConfig(Shape(99), 1, 0, 0, 0)

	// WHEN it is evaluated THEN it yields no density instead of panicking
	assert.NotPanics(t, func() { Evaluate(cfg, 1) })
	assert.Equal(t, 0.0, Evaluate(cfg, 1))
	assert.Equal(t, 0.0, Evaluate(cfg, 0))
}

func TestFunc_MatchesEvaluate(t *testing.T) {
	for _, cfg := range allShapes(1.5) {
		f := cfg.Func()
		for _, r2 := range []float64{0, 0.3, 2.25, 7, 50} {
			if got, want := f(r2), Evaluate(cfg, r2); got != want {
				t.Errorf("%s at r2=%g: Func()=%v, Evaluate=%v", cfg.Shape, r2, got, want)
			}
		}
	}
}

func TestEvaluate_MonotoneNonIncreasing(t *testing.T) {
	for _, cfg := range allShapes(1) {
		prev := math.Inf(1)
		for i := 0; i <= 1000; i++ {
			r2 := float64(i) * 0.05
			v := Evaluate(cfg, r2)
			if v > prev+1e-15 {
				t.Fatalf("%s increases at r2=%g: %v > %v", cfg.Shape, r2, v, prev)
			}
			prev = v
		}
	}
}
