// internal/sim/runner_test.go
package sim

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/launchforge/curve-engine/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Strategy:             "constant_product",
		VirtualBaseReserves:  1_073_000_000,
		VirtualQuoteReserves: 30_000_000,
		RealBaseReserves:     793_100_000,
		TotalSupply:          1_000_000_000,
		GraduationThreshold:  85_000_000,
		FeeBasisPoints:       100,
		Curves:               2,
		TradesPerCurve:       40,
		Workers:              4,
		ExportDir:            t.TempDir(),
	}
}

func TestRunnerGraduatesCurves(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	runner, err := NewRunner(ctx, cfg, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, runner.Run(ctx))

	// The flow is sized to push every curve across its threshold.
	curves, err := runner.store.ListCurves(ctx, false, 0, 0)
	require.NoError(t, err)
	require.Len(t, curves, cfg.Curves)
	for _, record := range curves {
		snap := record.Snapshot()
		assert.True(t, snap.IsComplete, "curve %s did not graduate", record.CurveID)
		assert.GreaterOrEqual(t, snap.RealQuoteReserves, cfg.GraduationThreshold)
	}

	// A daily report lands in the export directory.
	entries, err := os.ReadDir(cfg.ExportDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, ".csv", filepath.Ext(entries[0].Name()))
}

func TestRunnerPolynomialFlow(t *testing.T) {
	cfg := testConfig(t)
	cfg.Strategy = "polynomial"
	cfg.BasePrice = 1_000
	cfg.MaxSupply = 1_000_000
	cfg.GraduationThreshold = 500_000_000
	cfg.TradesPerCurve = 10
	ctx := context.Background()

	runner, err := NewRunner(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, runner.Run(ctx))

	curves, err := runner.store.ListCurves(ctx, false, 0, 0)
	require.NoError(t, err)
	require.Len(t, curves, cfg.Curves)
	for _, record := range curves {
		// Polynomial flow trades, whether or not it graduates with this
		// much volume.
		trades, err := runner.store.ListTrades(ctx, record.CurveID, 0, 0)
		require.NoError(t, err)
		assert.NotEmpty(t, trades)
	}
}

func TestBuildTasksSellBackCadence(t *testing.T) {
	cfg := testConfig(t)
	runner, err := NewRunner(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	tasks := runner.buildTasks([]string{"a", "b"})
	require.Len(t, tasks, 2*cfg.TradesPerCurve)

	sellBacks := 0
	for _, task := range tasks {
		assert.NotZero(t, task.Amount)
		if task.SellBackHalf {
			sellBacks++
		}
	}
	assert.Equal(t, 2*(cfg.TradesPerCurve/4), sellBacks)
}
