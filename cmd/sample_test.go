package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/epi-sim/transmission-kernel/kernel"
	"github.com/epi-sim/transmission-kernel/kernel/perf"
)

func smallTable(t *testing.T, shape kernel.Shape) *kernel.Table {
	t.Helper()
	tab, err := kernel.NewTable(kernel.NewConfig(shape, 1, 3, 0, 0), kernel.WithSizes(1024, 4096))
	require.NoError(t, err)
	return tab
}

func TestSampleDistances_SameSeedAndWorkers_Identical(t *testing.T) {
	defer goleak.VerifyNone(t)

	// GIVEN one table and a fixed seed
	tab := smallTable(t, kernel.Exponential)

	// WHEN sampling twice with the same seed and worker count
	a, err := sampleDistances(context.Background(), tab, 5000, 4, 7, perf.Noop{})
	require.NoError(t, err)
	b, err := sampleDistances(context.Background(), tab, 5000, 4, 7, perf.Noop{})
	require.NoError(t, err)

	// THEN the draws are identical
	assert.Equal(t, a, b)
}

func TestSampleDistances_DifferentSeeds_Differ(t *testing.T) {
	tab := smallTable(t, kernel.Exponential)

	a, err := sampleDistances(context.Background(), tab, 1000, 2, 1, perf.Noop{})
	require.NoError(t, err)
	b, err := sampleDistances(context.Background(), tab, 1000, 2, 2, perf.Noop{})
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestSampleDistances_WithinSupport(t *testing.T) {
	// GIVEN a step kernel with support [0, 1]
	tab := smallTable(t, kernel.Step)

	// WHEN more workers than draws are requested
	got, err := sampleDistances(context.Background(), tab, 3, 8, 42, perf.Noop{})

	// THEN every draw is produced and lies in the support
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, d := range got {
		assert.GreaterOrEqual(t, d, 0.0)
		assert.LessOrEqual(t, d, 1.0)
	}
}

func TestSampleDistances_RecordsWorkerTimings(t *testing.T) {
	tab := smallTable(t, kernel.Gaussian)
	rec := perf.NewRecorder()

	_, err := sampleDistances(context.Background(), tab, 100, 4, 42, rec)
	require.NoError(t, err)

	stats := rec.Stats()
	require.Len(t, stats, 1)
	assert.Equal(t, "sample.worker", stats[0].Name)
	assert.Equal(t, 4, stats[0].Count)
}

func TestSampleDistances_CancelledContext_ReturnsError(t *testing.T) {
	defer goleak.VerifyNone(t)
	tab := smallTable(t, kernel.Exponential)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sampleDistances(ctx, tab, 10000, 2, 42, perf.Noop{})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSampleDistances_InvalidArguments(t *testing.T) {
	tab := smallTable(t, kernel.Exponential)

	_, err := sampleDistances(context.Background(), tab, -1, 1, 42, perf.Noop{})
	assert.Error(t, err)
	_, err = sampleDistances(context.Background(), tab, 10, 0, 42, perf.Noop{})
	assert.Error(t, err)

	got, err := sampleDistances(context.Background(), tab, 0, 4, 42, perf.Noop{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWriteSampleSummary_ReportsQuantiles(t *testing.T) {
	tab := smallTable(t, kernel.Exponential)
	var buf bytes.Buffer

	writeSampleSummary(&buf, tab, []float64{3, 1, 2, 4})

	out := buf.String()
	assert.Contains(t, out, "mean")
	assert.Contains(t, out, "p50")
	assert.Contains(t, out, "p99")
	assert.Contains(t, out, "2.5")
}
