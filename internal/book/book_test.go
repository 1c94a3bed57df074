// internal/book/book_test.go
package book

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/launchforge/curve-engine/internal/curve"
	"github.com/launchforge/curve-engine/internal/events"
	"github.com/launchforge/curve-engine/internal/storage/memory"
	"github.com/launchforge/curve-engine/internal/types"
)

func testLaunchParams() curve.LaunchParams {
	return curve.LaunchParams{
		VirtualBaseReserves:  1_000_000,
		VirtualQuoteReserves: 1_000_000,
		RealBaseReserves:     1_000_000,
		TotalSupply:          1_000_000,
		GraduationThreshold:  500_000,
		FeeBasisPoints:       100,
		Strategy:             types.ConstantProduct,
	}
}

func newTestBook(t *testing.T, opts Options) (*Book, *events.Bus) {
	t.Helper()
	bus := events.NewBus(zap.NewNop())
	return New(memory.NewStorage(), bus, zap.NewNop(), opts), bus
}

type recordingMigrator struct {
	calls atomic.Int64
	err   error
}

func (m *recordingMigrator) Migrate(_ context.Context, _ string, _, _ uint64) error {
	m.calls.Add(1)
	return m.err
}

type failingSettler struct{}

func (failingSettler) Settle(_ context.Context, _ string, _ types.Direction, _, _ uint64) error {
	return errors.New("custody unavailable")
}

func TestBookLaunch(t *testing.T) {
	book, _ := newTestBook(t, Options{})
	ctx := context.Background()

	snap, err := book.Launch(ctx, "curve-1", testLaunchParams())
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), snap.VirtualBaseReserves)

	// Duplicate IDs are rejected.
	_, err = book.Launch(ctx, "curve-1", testLaunchParams())
	require.Error(t, err)

	// Invalid params never register a curve.
	bad := testLaunchParams()
	bad.GraduationThreshold = 0
	_, err = book.Launch(ctx, "curve-2", bad)
	require.ErrorIs(t, err, curve.ErrInvalidConfig)
	_, err = book.Snapshot("curve-2")
	require.Error(t, err)
}

func TestBookTradeCommitsAndPublishes(t *testing.T) {
	book, bus := newTestBook(t, Options{})
	ctx := context.Background()

	var executed []events.TradeExecutedEvent
	bus.SubscribeFunc(events.TradeExecuted, func(_ context.Context, e events.Event) error {
		executed = append(executed, e.(events.TradeExecutedEvent))
		return nil
	})

	_, err := book.Launch(ctx, "curve-1", testLaunchParams())
	require.NoError(t, err)

	res, err := book.Trade(ctx, "curve-1", curve.TradeRequest{
		Direction: types.Buy,
		Amount:    100_000,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(90_000), res.AmountOut)

	snap, err := book.Snapshot("curve-1")
	require.NoError(t, err)
	assert.Equal(t, res.NewSnapshot, snap)

	require.Len(t, executed, 1)
	assert.Equal(t, "curve-1", executed[0].CurveID)
	assert.Equal(t, uint64(100_000), executed[0].AmountIn)
	assert.Equal(t, snap.RealQuoteReserves, executed[0].RealQuoteReserves)
}

func TestBookTradeUnknownCurve(t *testing.T) {
	book, _ := newTestBook(t, Options{})
	_, err := book.Trade(context.Background(), "missing", curve.TradeRequest{
		Direction: types.Buy,
		Amount:    1,
	})
	require.Error(t, err)
}

func TestBookSettlementFailureLeavesSnapshot(t *testing.T) {
	book, _ := newTestBook(t, Options{Settler: failingSettler{}})
	ctx := context.Background()

	before, err := book.Launch(ctx, "curve-1", testLaunchParams())
	require.NoError(t, err)

	_, err = book.Trade(ctx, "curve-1", curve.TradeRequest{
		Direction: types.Buy,
		Amount:    100_000,
	})
	require.Error(t, err)

	after, err := book.Snapshot("curve-1")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestBookCompletionMigratesOnce(t *testing.T) {
	migrator := &recordingMigrator{}
	book, bus := newTestBook(t, Options{Migrator: migrator})
	ctx := context.Background()

	var completed []events.CurveCompletedEvent
	bus.SubscribeFunc(events.CurveCompleted, func(_ context.Context, e events.Event) error {
		completed = append(completed, e.(events.CurveCompletedEvent))
		return nil
	})

	params := testLaunchParams()
	params.GraduationThreshold = 150_000
	_, err := book.Launch(ctx, "curve-1", params)
	require.NoError(t, err)

	res, err := book.Trade(ctx, "curve-1", curve.TradeRequest{
		Direction: types.Buy,
		Amount:    200_000,
	})
	require.NoError(t, err)
	require.True(t, res.CompletedThisTrade)

	assert.Equal(t, int64(1), migrator.calls.Load())
	require.Len(t, completed, 1)
	assert.Equal(t, res.NewSnapshot.RealQuoteReserves, completed[0].FinalQuoteReserves)

	// Completed curves reject further trades, so the migrator never
	// fires a second time.
	_, err = book.Trade(ctx, "curve-1", curve.TradeRequest{
		Direction: types.Sell,
		Amount:    1_000,
	})
	require.ErrorIs(t, err, curve.ErrCurveComplete)
	assert.Equal(t, int64(1), migrator.calls.Load())
}

func TestBookQuoteDoesNotMutate(t *testing.T) {
	book, _ := newTestBook(t, Options{})
	ctx := context.Background()

	before, err := book.Launch(ctx, "curve-1", testLaunchParams())
	require.NoError(t, err)

	quote, err := book.Quote("curve-1", curve.TradeRequest{
		Direction: types.Buy,
		Amount:    100_000,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(90_000), quote.NetAmountOut)

	after, err := book.Snapshot("curve-1")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestBookConcurrentTradesSerialize(t *testing.T) {
	book, _ := newTestBook(t, Options{})
	ctx := context.Background()

	params := testLaunchParams()
	params.VirtualBaseReserves = 1_000_000_000
	params.VirtualQuoteReserves = 1_000_000_000
	params.RealBaseReserves = 1_000_000_000
	params.GraduationThreshold = 1 << 62
	_, err := book.Launch(ctx, "curve-1", params)
	require.NoError(t, err)

	const trades = 50
	var g errgroup.Group
	for i := 0; i < trades; i++ {
		g.Go(func() error {
			_, err := book.Trade(ctx, "curve-1", curve.TradeRequest{
				Direction: types.Buy,
				Amount:    1_000,
			})
			return err
		})
	}
	require.NoError(t, g.Wait())

	snap, err := book.Snapshot("curve-1")
	require.NoError(t, err)
	// Every buy's quote input lands in the real reserves exactly once.
	assert.Equal(t, uint64(trades*1_000), snap.RealQuoteReserves)
}
