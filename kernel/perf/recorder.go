package perf

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Stat aggregates every completed region or record with one name.
type Stat struct {
	Name  string
	Count int
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
}

// Mean returns the average duration, or 0 when nothing completed.
func (s Stat) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

type openRecord struct {
	name  string
	start time.Time
}

// Recorder is the enabled Profiler. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	now     func() time.Time
	next    Handle
	records map[Handle]openRecord
	regions map[string][]time.Time // open region starts per name, innermost last
	stats   map[string]*Stat
	order   []string
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		now:     time.Now,
		records: make(map[Handle]openRecord),
		regions: make(map[string][]time.Time),
		stats:   make(map[string]*Stat),
	}
}

func (r *Recorder) RegionStart(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.regions[name] = append(r.regions[name], r.now())
}

func (r *Recorder) RegionStop(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	starts := r.regions[name]
	if len(starts) == 0 {
		logrus.Warnf("perf: region %q stopped without a matching start", name)
		return
	}
	start := starts[len(starts)-1]
	r.regions[name] = starts[:len(starts)-1]
	r.observe(name, r.now().Sub(start))
}

func (r *Recorder) Start(name string) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := r.next
	r.next++
	if r.next == InvalidHandle {
		r.next = 0
	}
	r.records[h] = openRecord{name: name, start: r.now()}
	return h
}

func (r *Recorder) Stop(h Handle) {
	if h == InvalidHandle {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[h]
	if !ok {
		logrus.Warnf("perf: unknown record handle %d", h)
		return
	}
	delete(r.records, h)
	r.observe(rec.name, r.now().Sub(rec.start))
}

func (r *Recorder) observe(name string, d time.Duration) {
	s, ok := r.stats[name]
	if !ok {
		s = &Stat{Name: name, Min: d, Max: d}
		r.stats[name] = s
		r.order = append(r.order, name)
	}
	s.Count++
	s.Total += d
	s.Min = min(s.Min, d)
	s.Max = max(s.Max, d)
}

// Stats returns a snapshot of the aggregated timings in first-seen order.
func (r *Recorder) Stats() []Stat {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Stat, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, *r.stats[name])
	}
	return out
}
