package kernel

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Shape selects one of the parametric transmission-kernel families.
// Values match the numeric kernel-type selector used by simulation
// parameter files, so 0 and anything above PowerExpCutoff are invalid.
type Shape int

const (
	Exponential    Shape = 1
	Power          Shape = 2
	PowerLogistic  Shape = 3
	PowerUSMix     Shape = 4
	Gaussian       Shape = 5
	Step           Shape = 6
	PowerExpCutoff Shape = 7
)

var shapeNames = map[Shape]string{
	Exponential:    "exponential",
	Power:          "power",
	PowerLogistic:  "power-logistic",
	PowerUSMix:     "power-us-mix",
	Gaussian:       "gaussian",
	Step:           "step",
	PowerExpCutoff: "power-exp-cutoff",
}

// IsValid reports whether s is one of the enumerated shapes.
func (s Shape) IsValid() bool {
	_, ok := shapeNames[s]
	return ok
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

// CompactSupport reports whether the kernel is exactly zero beyond Scale.
func (s Shape) CompactSupport() bool {
	return s == Step
}

// ValidShapeNames returns the accepted shape names, sorted.
func ValidShapeNames() []string {
	names := make([]string, 0, len(shapeNames))
	for _, n := range shapeNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ParseShape maps a configuration name to its Shape.
func ParseShape(name string) (Shape, error) {
	for s, n := range shapeNames {
		if n == name {
			return s, nil
		}
	}
	return 0, &ConfigurationError{
		Field:  "shape",
		Reason: fmt.Sprintf("unknown kernel shape %q; valid: %v", name, ValidShapeNames()),
	}
}

// MarshalYAML writes the shape by name.
func (s Shape) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// UnmarshalYAML accepts either a shape name or its numeric selector.
func (s *Shape) UnmarshalYAML(value *yaml.Node) error {
	var n int
	if err := value.Decode(&n); err == nil {
		*s = Shape(n)
		return nil
	}
	var name string
	if err := value.Decode(&name); err != nil {
		return fmt.Errorf("kernel shape must be a name or integer: %w", err)
	}
	parsed, err := ParseShape(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
