package kernel

import (
	"fmt"
	"math"
)

// Config selects a kernel shape and its parameters. It is a value type;
// once validated it is never modified, and a new Config requires a new Table.
type Config struct {
	Shape      Shape   `yaml:"shape"`
	Scale      float64 `yaml:"scale"`       // S: characteristic distance (must be > 0)
	ShapeParam float64 `yaml:"shape_param"` // B: power-law decay exponent
	P3         float64 `yaml:"p3"`          // mixture weight (PowerUSMix) or cutoff distance (PowerExpCutoff)
	P4         float64 `yaml:"p4"`          // second decay rate (PowerUSMix) or cutoff exponent (PowerExpCutoff)
}

// NewConfig builds a Config from its parts without validating it.
func NewConfig(shape Shape, scale, shapeParam, p3, p4 float64) Config {
	return Config{Shape: shape, Scale: scale, ShapeParam: shapeParam, P3: p3, P4: p4}
}

// Validate checks selector membership and scale positivity. The remaining
// parameters are trusted as already validated by the caller.
func (c Config) Validate() error {
	if !c.Shape.IsValid() {
		return &ConfigurationError{
			Field:  "shape",
			Reason: fmt.Sprintf("unknown kernel selector %d; valid: %v", int(c.Shape), ValidShapeNames()),
		}
	}
	if math.IsNaN(c.Scale) || math.IsInf(c.Scale, 0) {
		return &ConfigurationError{Field: "scale", Reason: fmt.Sprintf("must be a finite number, got %f", c.Scale)}
	}
	if c.Scale <= 0 {
		return &ConfigurationError{Field: "scale", Reason: fmt.Sprintf("must be positive, got %f", c.Scale)}
	}
	return nil
}
