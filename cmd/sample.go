package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/epi-sim/transmission-kernel/kernel"
	"github.com/epi-sim/transmission-kernel/kernel/perf"
)

var (
	numSamples int   // distances to draw
	numWorkers int   // sampling goroutines
	seed       int64 // master seed
)

// cancelCheckInterval is how many draws a worker makes between context checks.
const cancelCheckInterval = 4096

// sampleCmd draws transmission distances from the shared table
var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Draw transmission distances and summarize them",
	Run: func(cmd *cobra.Command, args []string) {
		fc := loadConfig(cmd)
		profiler := perf.New(fc.Perf.Enabled)
		tab := buildTable(fc, profiler)

		distances, err := sampleDistances(cmd.Context(), tab, numSamples, numWorkers, seed, profiler)
		if err != nil {
			logrus.Fatalf("Sampling failed: %v", err)
		}
		logrus.Infof("Drew %d distances with %d workers (seed=%d)", len(distances), numWorkers, seed)
		writeSampleSummary(os.Stdout, tab, distances)
		reportPerf(profiler)
	},
}

// sampleDistances draws n distances using up to workers goroutines that share
// the read-only table. Worker w owns the stream SubsystemWorker(w), so the
// result depends only on (seed, n, workers).
func sampleDistances(ctx context.Context, tab *kernel.Table, n, workers int, seed int64, profiler perf.Profiler) ([]float64, error) {
	if n < 0 {
		return nil, fmt.Errorf("sample count must be non-negative, got %d", n)
	}
	if workers < 1 {
		return nil, fmt.Errorf("worker count must be positive, got %d", workers)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	out := make([]float64, n)
	if n == 0 {
		return out, nil
	}

	rngs := kernel.NewPartitionedRNG(kernel.NewSimulationKey(seed))
	chunk := (n + workers - 1) / workers
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo, hi := w*chunk, min((w+1)*chunk, n)
		if lo >= hi {
			break
		}
		// PartitionedRNG is not goroutine-safe; resolve the stream here.
		rng := rngs.ForSubsystem(kernel.SubsystemWorker(w))
		g.Go(func() error {
			defer perf.Record(profiler, "sample.worker")()
			for i := lo; i < hi; i++ {
				if (i-lo)%cancelCheckInterval == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				out[i] = tab.Draw(rng)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// writeSampleSummary renders mean and quantiles of the sampled distances.
// distances is sorted in place.
func writeSampleSummary(w io.Writer, tab *kernel.Table, distances []float64) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("%s kernel: %d distances", tab.Config().Shape, len(distances)))
	if len(distances) == 0 {
		t.Render()
		return
	}
	sort.Float64s(distances)
	t.AppendHeader(table.Row{"Statistic", "Distance"})
	t.AppendRow(table.Row{"mean", stat.Mean(distances, nil)})
	for _, q := range []struct {
		label string
		p     float64
	}{{"p50", 0.5}, {"p90", 0.9}, {"p99", 0.99}} {
		t.AppendRow(table.Row{q.label, stat.Quantile(q.p, stat.Empirical, distances, nil)})
	}
	t.AppendRow(table.Row{"max", distances[len(distances)-1]})
	t.Render()
}

func init() {
	sampleCmd.Flags().IntVarP(&numSamples, "num", "n", 100000, "Number of distances to draw")
	sampleCmd.Flags().IntVar(&numWorkers, "workers", runtime.GOMAXPROCS(0), "Sampling goroutines")
	sampleCmd.Flags().Int64Var(&seed, "seed", 42, "Master seed for distance draws")
}
