package cmd

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/epi-sim/transmission-kernel/kernel"
	"github.com/epi-sim/transmission-kernel/kernel/perf"
)

var (
	csvPath   string    // optional output path for the standard tier
	quantiles []float64 // mass levels to report
)

// tableCmd builds the lookup tables and summarizes them
var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Build the kernel lookup tables and print a summary",
	Run: func(cmd *cobra.Command, args []string) {
		fc := loadConfig(cmd)
		profiler := perf.New(fc.Perf.Enabled)
		tab := buildTable(fc, profiler)
		writeSummary(os.Stdout, tab, quantiles)
		if csvPath != "" {
			if err := writeCSVFile(csvPath, tab); err != nil {
				logrus.Fatalf("Failed to write table: %v", err)
			}
			logrus.Infof("Wrote standard table to %s", csvPath)
		}
		reportPerf(profiler)
	},
}

// writeSummary renders the table geometry and the distance at each quantile.
func writeSummary(w io.Writer, tab *kernel.Table, levels []float64) {
	hr := tab.HighRes()
	last := float64(tab.Size() - 1)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(tab.Config().Shape.String() + " kernel table")
	t.AppendRows([]table.Row{
		{"cutoff", tab.Cutoff()},
		{"inner cutoff", math.Sqrt(tab.InnerCutoff2())},
		{"high-res mass", hr.Mass()},
		{"standard entries", tab.Size()},
		{"high-res entries", hr.Len()},
	})
	t.AppendSeparator()
	for _, q := range levels {
		t.AppendRow(table.Row{fmt.Sprintf("quantile %g", q), tab.Sample(q * last)})
	}
	t.Render()
}

// writeCSV writes the standard tier as "r2,cdf,density" rows.
func writeCSV(w io.Writer, tab *kernel.Table) error {
	tier := tab.Standard()
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, "r2,cdf,density"); err != nil {
		return err
	}
	for i, c := range tier.CDF {
		r2 := float64(i) * tier.Delta
		if _, err := fmt.Fprintf(bw, "%g,%g,%g\n", r2, c, tab.Density(r2)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeCSVFile(path string, tab *kernel.Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	return writeCSV(f, tab)
}

func init() {
	tableCmd.Flags().StringVar(&csvPath, "csv", "", "Write the standard table to this CSV file")
	tableCmd.Flags().Float64SliceVar(&quantiles, "quantiles", []float64{0.5, 0.9, 0.99}, "Mass levels to report distances for")
}
