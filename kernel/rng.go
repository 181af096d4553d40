package kernel

import (
	"hash/fnv"
	"io"
	"math/rand"
	"strconv"
)

// SimulationKey seeds every random stream of one realization.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// SubsystemSampler names the stream of single-threaded distance draws. It is
// seeded with the key itself, so a run with one sampler reproduces a plain
// rand.NewSource(seed) sequence.
const SubsystemSampler = "sampler"

// SubsystemWorker names the stream owned by sampling worker n.
func SubsystemWorker(n int) string {
	return "worker_" + strconv.Itoa(n)
}

// seedFor mixes a stream name into the key. Streams other than the sampler
// get the key XOR the 64-bit FNV-1a hash of their name.
func (k SimulationKey) seedFor(name string) int64 {
	if name == SubsystemSampler {
		return int64(k)
	}
	h := fnv.New64a()
	io.WriteString(h, name)
	return int64(k) ^ int64(h.Sum64())
}

// PartitionedRNG hands out one *rand.Rand per stream name. Draws on one
// stream never shift another, so adding a worker leaves the others'
// sequences intact. It is not safe for concurrent use; resolve every stream
// before starting the goroutines that consume them.
type PartitionedRNG struct {
	key     SimulationKey
	streams map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{key: key, streams: map[string]*rand.Rand{}}
}

// ForSubsystem returns the stream for name, creating it on first use.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	rng, ok := p.streams[name]
	if !ok {
		rng = rand.New(rand.NewSource(p.key.seedFor(name)))
		p.streams[name] = rng
	}
	return rng
}

// Key returns the key the streams derive from.
func (p *PartitionedRNG) Key() SimulationKey { return p.key }
