// Package kernel implements the spatial transmission kernel of an
// agent-based epidemic simulation: how the likelihood of transmission decays
// with the distance between two people, and how to draw transmission
// distances from that law at simulation scale.
//
// # Reading Guide
//
//   - functions.go: the parametric kernel families, resolved once per Config
//     into a single Func
//   - table.go: NewTable, which integrates one kernel into a standard and a
//     high-resolution cumulative tier
//   - sampler.go: O(1) inverse-transform sampling over the tiers
//   - active.go: build-once, read-many publication of the current table
//
// Everything except NewTable and Active.Rebuild is pure and may be called
// from any number of goroutines. Table construction is timed through the
// optional kernel/perf collaborator; leaving it unset changes nothing.
package kernel
