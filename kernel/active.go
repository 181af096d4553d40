package kernel

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrNotBuilt is returned by Active.Table before the first successful Rebuild.
var ErrNotBuilt = errors.New("kernel table has not been built")

// Active holds the table of the current simulation realization. Rebuilds are
// serialized, and readers only ever observe a fully built table: the new
// table is published after NewTable returns, and a failed rebuild leaves the
// previous table in place.
type Active struct {
	mu    sync.Mutex // serializes builders
	table atomic.Pointer[Table]
}

// Rebuild builds a table for cfg and publishes it.
func (a *Active) Rebuild(cfg Config, opts ...TableOption) (*Table, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, err := NewTable(cfg, opts...)
	if err != nil {
		return nil, err
	}
	a.table.Store(t)
	return t, nil
}

// Table returns the published table.
func (a *Active) Table() (*Table, error) {
	t := a.table.Load()
	if t == nil {
		return nil, ErrNotBuilt
	}
	return t, nil
}
