// internal/monitor/progress_test.go
package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/launchforge/curve-engine/internal/curve"
	"github.com/launchforge/curve-engine/internal/types"
)

func testSnapshot(realQuote, threshold uint64) curve.Snapshot {
	return curve.Snapshot{
		VirtualBaseReserves:  1_000_000,
		VirtualQuoteReserves: 2_000_000,
		RealBaseReserves:     1_000_000,
		RealQuoteReserves:    realQuote,
		TotalSupply:          1_000_000,
		GraduationThreshold:  threshold,
		Strategy:             types.ConstantProduct,
	}
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		name      string
		realQuote uint64
		threshold uint64
		want      uint8
	}{
		{"empty", 0, 85_000_000_000, 0},
		{"halfway", 42_500_000_000, 85_000_000_000, 50},
		{"at threshold", 85_000_000_000, 85_000_000_000, 100},
		{"past threshold caps", 120_000_000_000, 85_000_000_000, 100},
		{"truncates down", 999, 100_000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pct, err := ProgressPercent(testSnapshot(tt.realQuote, tt.threshold))
			require.NoError(t, err)
			assert.Equal(t, tt.want, pct)
		})
	}
}

func TestProgressPercentZeroThreshold(t *testing.T) {
	_, err := ProgressPercent(testSnapshot(0, 0))
	assert.ErrorIs(t, err, curve.ErrDegenerateCurve)
}

func TestMarketCap(t *testing.T) {
	// Spot price is 2 quote per base; a 1M supply values at 2M.
	cap, err := MarketCap(testSnapshot(0, 85_000_000_000))
	require.NoError(t, err)
	assert.Equal(t, uint64(2_000_000), cap)
}

func TestInspect(t *testing.T) {
	calc := NewCalculator(zap.NewNop())

	info, err := calc.Inspect(testSnapshot(42_500_000_000, 85_000_000_000))
	require.NoError(t, err)
	assert.Equal(t, uint8(50), info.ProgressPercent)
	assert.Equal(t, uint64(2_000_000), info.MarketCap)
	assert.False(t, info.IsComplete)
}
