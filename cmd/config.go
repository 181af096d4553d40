package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/epi-sim/transmission-kernel/kernel"
)

// FileConfig is the full kernel configuration file.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type FileConfig struct {
	Kernel kernel.Config       `yaml:"kernel"`
	Table  kernel.TableOptions `yaml:"table"`
	Perf   PerfConfig          `yaml:"perf"`
}

// PerfConfig toggles timing instrumentation.
type PerfConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LoadConfig reads a YAML kernel configuration.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading kernel config: %w", err)
	}
	fc := defaultFileConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&fc); err != nil {
		return nil, fmt.Errorf("parsing kernel config: %w", err)
	}
	return fc, nil
}

// defaultFileConfig holds the values of keys a config file leaves out.
func defaultFileConfig() *FileConfig {
	return &FileConfig{Table: kernel.DefaultTableOptions()}
}

// resolveConfig merges the config file (if any) with command-line flags.
// Without a file every flag applies; with a file only flags set explicitly
// override it.
func resolveConfig(cmd *cobra.Command) (*FileConfig, error) {
	fc := defaultFileConfig()
	if configPath != "" {
		loaded, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		fc = loaded
	}
	override := func(name string) bool {
		return configPath == "" || cmd.Flags().Changed(name)
	}

	if override("shape") {
		shape, err := kernel.ParseShape(shapeName)
		if err != nil {
			return nil, err
		}
		fc.Kernel.Shape = shape
	}
	if override("scale") {
		fc.Kernel.Scale = scale
	}
	if override("shape-param") {
		fc.Kernel.ShapeParam = shapeParam
	}
	if override("p3") {
		fc.Kernel.P3 = p3
	}
	if override("p4") {
		fc.Kernel.P4 = p4
	}
	if override("size") {
		fc.Table.Size = tableSize
	}
	if override("high-res-size") {
		fc.Table.HighResSize = highResSize
	}
	if override("tolerance") {
		fc.Table.Tolerance = tolerance
	}
	if override("high-res-mass") {
		fc.Table.HighResMass = highResMass
	}
	if override("max-radius") {
		fc.Table.MaxRadius = maxRadius
	}
	if override("perf") {
		fc.Perf.Enabled = perfReport
	}
	if err := fc.Kernel.Validate(); err != nil {
		return nil, err
	}
	if err := fc.Table.Validate(); err != nil {
		return nil, err
	}
	return fc, nil
}
