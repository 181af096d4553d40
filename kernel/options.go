package kernel

import (
	"fmt"
	"math"

	"github.com/epi-sim/transmission-kernel/kernel/perf"
)

// Table resolution and integration defaults.
const (
	DefaultSize        = 16384
	DefaultHighResSize = 65536
	DefaultTolerance   = 1e-9
	DefaultHighResMass = 0.95
	DefaultSubsteps    = 8

	// defaultRadiusFactor sets MaxRadius to this multiple of Scale when unset.
	defaultRadiusFactor = 1000
)

// TableOptions controls table resolution and the numerical integration.
type TableOptions struct {
	Size        int     `yaml:"size"`          // N: standard tier entries
	HighResSize int     `yaml:"high_res_size"` // M: high-resolution tier entries (> N)
	Tolerance   float64 `yaml:"tolerance"`     // residual mass allowed beyond the cutoff
	HighResMass float64 `yaml:"high_res_mass"` // mass fraction the high-resolution tier must cover
	MaxRadius   float64 `yaml:"max_radius"`    // hard cap on the cutoff radius; 0 = 1000·Scale
	Substeps    int     `yaml:"substeps"`      // Simpson sub-intervals per table bin (even)

	Profiler perf.Profiler `yaml:"-"`
}

// TableOption mutates TableOptions before a build.
type TableOption func(*TableOptions)

// DefaultTableOptions returns the options NewTable starts from.
func DefaultTableOptions() TableOptions {
	return TableOptions{
		Size:        DefaultSize,
		HighResSize: DefaultHighResSize,
		Tolerance:   DefaultTolerance,
		HighResMass: DefaultHighResMass,
		Substeps:    DefaultSubsteps,
		Profiler:    perf.Noop{},
	}
}

// WithSizes sets the standard and high-resolution tier sizes.
func WithSizes(size, highResSize int) TableOption {
	return func(o *TableOptions) {
		o.Size = size
		o.HighResSize = highResSize
	}
}

// WithTolerance sets the residual tail mass allowed beyond the cutoff.
func WithTolerance(tol float64) TableOption {
	return func(o *TableOptions) { o.Tolerance = tol }
}

// WithHighResMass sets the mass fraction covered by the high-resolution tier.
func WithHighResMass(frac float64) TableOption {
	return func(o *TableOptions) { o.HighResMass = frac }
}

// WithMaxRadius caps the cutoff radius.
func WithMaxRadius(r float64) TableOption {
	return func(o *TableOptions) { o.MaxRadius = r }
}

// WithSubsteps sets the Simpson sub-intervals per bin.
func WithSubsteps(n int) TableOption {
	return func(o *TableOptions) { o.Substeps = n }
}

// WithProfiler wraps table construction in perf regions.
func WithProfiler(p perf.Profiler) TableOption {
	return func(o *TableOptions) {
		if p != nil {
			o.Profiler = p
		}
	}
}

// WithOptions replaces every option with src, as resolved from a config
// file and flags. Zero values are kept and rejected by validation, except
// MaxRadius where 0 selects 1000·Scale. A nil Profiler keeps the current one.
func WithOptions(src TableOptions) TableOption {
	return func(o *TableOptions) {
		p := o.Profiler
		*o = src
		if o.Profiler == nil {
			o.Profiler = p
		}
	}
}

// Validate reports the first option outside its valid range as a
// *ConfigurationError.
func (o TableOptions) Validate() error {
	if o.Size < 2 {
		return &ConfigurationError{Field: "table.size", Reason: fmt.Sprintf("must be at least 2, got %d", o.Size)}
	}
	if o.HighResSize <= o.Size {
		return &ConfigurationError{
			Field:  "table.high_res_size",
			Reason: fmt.Sprintf("must exceed table.size (%d), got %d", o.Size, o.HighResSize),
		}
	}
	if !(o.Tolerance > 0 && o.Tolerance < 1) {
		return &ConfigurationError{Field: "table.tolerance", Reason: fmt.Sprintf("must be in (0, 1), got %g", o.Tolerance)}
	}
	if !(o.HighResMass > 0 && o.HighResMass < 1) {
		return &ConfigurationError{Field: "table.high_res_mass", Reason: fmt.Sprintf("must be in (0, 1), got %g", o.HighResMass)}
	}
	if math.IsNaN(o.MaxRadius) || math.IsInf(o.MaxRadius, 0) || o.MaxRadius < 0 {
		return &ConfigurationError{Field: "table.max_radius", Reason: fmt.Sprintf("must be finite and non-negative, got %g", o.MaxRadius)}
	}
	if o.Substeps < 2 || o.Substeps%2 != 0 {
		return &ConfigurationError{Field: "table.substeps", Reason: fmt.Sprintf("must be even and at least 2, got %d", o.Substeps)}
	}
	return nil
}
