package cmd

import (
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/epi-sim/transmission-kernel/kernel"
	"github.com/epi-sim/transmission-kernel/kernel/perf"
)

var evalDistances []float64 // distances to evaluate

// evalCmd compares the analytic kernel with its tabulated form
var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate the kernel at the given distances",
	Run: func(cmd *cobra.Command, args []string) {
		fc := loadConfig(cmd)
		profiler := perf.New(fc.Perf.Enabled)
		tab := buildTable(fc, profiler)
		writeEvaluation(os.Stdout, tab, evalDistances, profiler)
		reportPerf(profiler)
	},
}

// writeEvaluation renders analytic density, tabulated density and cumulative
// mass for each distance.
func writeEvaluation(w io.Writer, tab *kernel.Table, distances []float64, profiler perf.Profiler) {
	cfg := tab.Config()
	f := cfg.Func()

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(cfg.Shape.String() + " kernel")
	t.AppendHeader(table.Row{"Distance", "Analytic", "Tabulated", "CDF"})
	for _, r := range distances {
		r2 := r * r
		stop := perf.Record(profiler, "eval.analytic")
		analytic := f(r2)
		stop()
		stop = perf.Record(profiler, "eval.tabulated")
		tabulated := tab.Density(r2)
		stop()
		t.AppendRow(table.Row{r, analytic, tabulated, tab.CDF(r2)})
	}
	t.Render()
}

func init() {
	evalCmd.Flags().Float64SliceVar(&evalDistances, "r", []float64{0, 0.5, 1, 2, 5, 10}, "Comma-separated distances")
}
