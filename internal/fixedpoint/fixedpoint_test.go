// internal/fixedpoint/fixedpoint_test.go
package fixedpoint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	sum, err := Add(1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), sum)

	_, err = Add(math.MaxUint64, 1)
	assert.ErrorIs(t, err, ErrOverflow)

	sum, err = Add(math.MaxUint64, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), sum)
}

func TestSub(t *testing.T) {
	diff, err := Sub(5, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), diff)

	_, err = Sub(3, 5)
	assert.ErrorIs(t, err, ErrUnderflow)

	diff, err = Sub(5, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), diff)
}

func TestMul(t *testing.T) {
	prod, err := Mul(1_000_000_000, 1_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000_000_000_000_000), prod)

	_, err = Mul(math.MaxUint64, 2)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestDiv(t *testing.T) {
	q, err := Div(7, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), q, "division must truncate")

	_, err = Div(1, 0)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestMulDiv(t *testing.T) {
	// The intermediate product exceeds uint64 but the quotient fits.
	out, err := MulDiv(math.MaxUint64, math.MaxUint64, math.MaxUint64)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), out)

	out, err = MulDiv(10_000, 100, 10_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), out)

	_, err = MulDiv(math.MaxUint64, math.MaxUint64, 1)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = MulDiv(1, 1, 0)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestWideNarrow(t *testing.T) {
	z := Wide(math.MaxUint64)
	v, err := Narrow(z)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), v)

	z.Mul(z, Wide(2))
	_, err = Narrow(z)
	assert.ErrorIs(t, err, ErrOverflow)
}
