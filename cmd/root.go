package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/epi-sim/transmission-kernel/kernel"
	"github.com/epi-sim/transmission-kernel/kernel/perf"
)

var (
	// Kernel selection; flags override the config file when set
	configPath string  // YAML config file
	shapeName  string  // kernel shape name
	scale      float64 // kernel scale S
	shapeParam float64 // kernel shape parameter B
	p3         float64 // third kernel parameter
	p4         float64 // fourth kernel parameter

	// Table resolution
	tableSize   int     // standard tier entries
	highResSize int     // high-resolution tier entries
	tolerance   float64 // residual tail mass beyond the cutoff
	highResMass float64 // mass fraction covered by the high-resolution tier
	maxRadius   float64 // cap on the cutoff radius (0 = 1000·scale)

	logLevel   string // log verbosity level
	perfReport bool   // print timings to stderr on exit
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "tkernel",
	Short: "Spatial transmission kernels for agent-based epidemic simulation",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the configuration from file and flags. Errors are fatal.
func loadConfig(cmd *cobra.Command) *FileConfig {
	fc, err := resolveConfig(cmd)
	if err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	return fc
}

// buildTable builds the kernel table for fc. Integration errors are fatal.
func buildTable(fc *FileConfig, profiler perf.Profiler) *kernel.Table {
	logrus.Infof("Building %s kernel table (scale=%g, shape=%g, p3=%g, p4=%g)",
		fc.Kernel.Shape, fc.Kernel.Scale, fc.Kernel.ShapeParam, fc.Kernel.P3, fc.Kernel.P4)

	tab, err := kernel.NewTable(fc.Kernel, kernel.WithOptions(fc.Table), kernel.WithProfiler(profiler))
	if err != nil {
		logrus.Fatalf("Failed to build kernel table: %v", err)
	}
	return tab
}

// reportPerf writes the timings when the profiler is recording.
func reportPerf(p perf.Profiler) {
	if rec, ok := p.(*perf.Recorder); ok {
		rec.Report(os.Stderr)
	}
}

// init sets up CLI flags and subcommands
func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	pf.StringVar(&configPath, "config", "", "YAML kernel configuration file")
	pf.BoolVar(&perfReport, "perf", false, "Print construction and sampling timings to stderr")

	pf.StringVar(&shapeName, "shape", "exponential", "Kernel shape (exponential, power, power-logistic, power-us-mix, gaussian, step, power-exp-cutoff)")
	pf.Float64Var(&scale, "scale", 1.0, "Kernel scale: characteristic transmission distance")
	pf.Float64Var(&shapeParam, "shape-param", 3.0, "Kernel shape parameter (power-law exponent)")
	pf.Float64Var(&p3, "p3", 0, "Third kernel parameter (mixture weight or cutoff distance)")
	pf.Float64Var(&p4, "p4", 0, "Fourth kernel parameter (second decay rate or cutoff exponent)")

	pf.IntVar(&tableSize, "size", kernel.DefaultSize, "Standard table entries")
	pf.IntVar(&highResSize, "high-res-size", kernel.DefaultHighResSize, "High-resolution table entries")
	pf.Float64Var(&tolerance, "tolerance", kernel.DefaultTolerance, "Residual kernel mass allowed beyond the cutoff")
	pf.Float64Var(&highResMass, "high-res-mass", kernel.DefaultHighResMass, "Mass fraction covered by the high-resolution table")
	pf.Float64Var(&maxRadius, "max-radius", 0, "Cap on the cutoff radius (0 = 1000 x scale)")

	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(sampleCmd)
}
