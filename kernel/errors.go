package kernel

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches every *ConfigurationError.
	ErrConfiguration = errors.New("invalid kernel configuration")
	// ErrNumericalInstability matches every *NumericalInstabilityError.
	ErrNumericalInstability = errors.New("kernel integration is numerically unstable")
)

// ConfigurationError reports an invalid shape selector, scale or table option.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("kernel config %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// NumericalInstabilityError reports that the integrated kernel mass could
// not be normalized (zero, negative or non-finite total).
type NumericalInstabilityError struct {
	Shape Shape
	Mass  float64
}

func (e *NumericalInstabilityError) Error() string {
	return fmt.Sprintf("cannot normalize %s kernel: total mass %g", e.Shape, e.Mass)
}

func (e *NumericalInstabilityError) Is(target error) bool {
	return target == ErrNumericalInstability
}
