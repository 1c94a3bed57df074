// internal/curve/fee_test.go
package curve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFee(t *testing.T) {
	tests := []struct {
		name   string
		amount uint64
		bps    uint16
		want   uint64
	}{
		{"one percent", 10_000, 100, 100},
		{"zero fee", 123_456_789, 0, 0},
		{"full fee", 5_000, 10_000, 5_000},
		{"truncates down", 99, 100, 0},
		{"half bp rounding", 15_000, 25, 37},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, err := Fee(tt.amount, tt.bps)
			require.NoError(t, err)
			assert.Equal(t, tt.want, fee)
		})
	}
}

func TestFeeWideIntermediate(t *testing.T) {
	// amount * bps overflows uint64; the double-width path must not.
	fee, err := Fee(math.MaxUint64, 10_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), fee)
}
