// Package perf provides optional wall-clock instrumentation for kernel table
// construction and the sampling hot paths. The Noop profiler makes every call
// free; results never depend on which profiler is installed.
package perf

import (
	"fmt"
	"math"
	"strings"
)

// Handle identifies a timed record opened by Profiler.Start.
type Handle uint64

// InvalidHandle is returned by profilers that do not record anything.
// Stopping it is a no-op.
const InvalidHandle Handle = math.MaxUint64

// Profiler receives named region and record timings.
//
// Regions are keyed by name and bracket a phase (RegionStart/RegionStop with
// the same name). Records are opened with Start and closed through the
// returned Handle, so concurrent records with one name do not collide.
type Profiler interface {
	RegionStart(name string)
	RegionStop(name string)
	Start(name string) Handle
	Stop(h Handle)
}

// Noop is the disabled profiler.
type Noop struct{}

func (Noop) RegionStart(string) {}
func (Noop) RegionStop(string) {}
func (Noop) Start(string) Handle { return InvalidHandle }
func (Noop) Stop(Handle) {}

// New returns a Recorder when enabled and Noop otherwise.
func New(enabled bool) Profiler {
	if enabled {
		return NewRecorder()
	}
	return Noop{}
}

// Region starts a region and returns the function that stops it:
//
//	defer perf.Region(p, "kernel.build")()
func Region(p Profiler, name string) func() {
	p.RegionStart(name)
	return func() { p.RegionStop(name) }
}

// Record opens a timed record and returns the function that closes it.
func Record(p Profiler, name string) func() {
	h := p.Start(name)
	return func() { p.Stop(h) }
}

// Join concatenates its arguments into one region name:
// Join("input_", 10, "_region_", 20) == "input_10_region_20".
func Join(parts ...any) string {
	var b strings.Builder
	for _, p := range parts {
		fmt.Fprint(&b, p)
	}
	return b.String()
}
