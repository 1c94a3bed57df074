// internal/sim/runner.go
package sim

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/launchforge/curve-engine/internal/book"
	"github.com/launchforge/curve-engine/internal/config"
	"github.com/launchforge/curve-engine/internal/events"
	"github.com/launchforge/curve-engine/internal/export"
	"github.com/launchforge/curve-engine/internal/monitor"
	"github.com/launchforge/curve-engine/internal/storage"
	"github.com/launchforge/curve-engine/internal/storage/memory"
	"github.com/launchforge/curve-engine/internal/storage/models"
	"github.com/launchforge/curve-engine/internal/storage/postgres"
	"github.com/launchforge/curve-engine/internal/types"
)

// Runner drives simulated trading flow against a set of freshly launched
// curves until each graduates or the configured flow runs out.
type Runner struct {
	logger     *zap.Logger
	config     *config.Config
	store      storage.Storage
	bus        *events.Bus
	book       *book.Book
	progress   *monitor.Calculator
	exporter   *export.TradeExporter
	shutdownCh chan os.Signal
}

// logMigrator stands in for the external liquidity handoff.
type logMigrator struct {
	logger *zap.Logger
}

func (m *logMigrator) Migrate(_ context.Context, curveID string, realBase, realQuote uint64) error {
	m.logger.Info("Liquidity handoff",
		zap.String("curve_id", curveID),
		zap.Uint64("real_base_reserves", realBase),
		zap.Uint64("real_quote_reserves", realQuote))
	return nil
}

func NewRunner(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Runner, error) {
	var store storage.Storage
	if cfg.PostgresURL != "" {
		pg, err := postgres.NewStorage(ctx, cfg.PostgresURL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect storage: %w", err)
		}
		if err := pg.RunMigrations(); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		store = pg
	} else {
		logger.Info("No postgres_url configured, using in-memory storage")
		store = memory.NewStorage()
	}

	bus := events.NewBus(logger)
	b := book.New(store, bus, logger, book.Options{
		Migrator: &logMigrator{logger: logger.Named("migrator")},
	})

	return &Runner{
		logger:     logger,
		config:     cfg,
		store:      store,
		bus:        bus,
		book:       b,
		progress:   monitor.NewCalculator(logger),
		exporter:   export.NewTradeExporter(logger),
		shutdownCh: make(chan os.Signal, 1),
	}, nil
}

func (r *Runner) Run(ctx context.Context) error {
	signal.Notify(r.shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case sig := <-r.shutdownCh:
			r.logger.Info("Signal received: " + sig.String())
			cancel()
		case <-runCtx.Done():
		}
	}()

	r.subscribeProgress()

	curveIDs, err := r.launchCurves(runCtx)
	if err != nil {
		return err
	}

	tasks := r.buildTasks(curveIDs)
	r.logger.Info(fmt.Sprintf("Starting execution with %d workers", r.config.Workers),
		zap.Int("curves", len(curveIDs)),
		zap.Int("tasks", len(tasks)))

	taskCh := make(chan tradeTask, len(tasks))
	for _, t := range tasks {
		taskCh <- t
	}
	close(taskCh)

	pool := NewWorkerPool(runCtx, r.logger, r.book, taskCh)
	pool.Start(r.config.Workers)
	pool.Wait()

	r.reportResults(ctx, curveIDs)

	r.logger.Info("All workers finished")
	return nil
}

func (r *Runner) Shutdown() {
	r.logger.Info("Simulator shutting down")

	if err := r.logger.Sync(); err != nil {
		if !os.IsNotExist(err) &&
			err.Error() != "sync /dev/stdout: invalid argument" &&
			err.Error() != "sync /dev/stderr: inappropriate ioctl for device" {
			fmt.Fprintf(os.Stderr, "failed to sync logger during shutdown: %v\n", err)
		}
	}
}

func (r *Runner) subscribeProgress() {
	r.bus.SubscribeFunc(events.CurveCompleted, func(_ context.Context, e events.Event) error {
		completed := e.(events.CurveCompletedEvent)
		r.logger.Info("Curve graduated",
			zap.String("curve_id", completed.CurveID),
			zap.Uint64("final_quote_reserves", completed.FinalQuoteReserves))
		return nil
	})

	r.bus.SubscribeFunc(events.TradeExecuted, func(_ context.Context, e events.Event) error {
		executed := e.(events.TradeExecutedEvent)
		snap, err := r.book.Snapshot(executed.CurveID)
		if err != nil {
			return err
		}
		_, err = r.progress.Inspect(snap)
		return err
	})
}

func (r *Runner) launchCurves(ctx context.Context) ([]string, error) {
	params := r.config.LaunchParams()

	ids := make([]string, r.config.Curves)
	g, gctx := errgroup.WithContext(ctx)
	for i := range ids {
		ids[i] = uuid.NewString()
		curveID := ids[i]
		g.Go(func() error {
			if _, err := r.book.Launch(gctx, curveID, params); err != nil {
				return fmt.Errorf("failed to launch curve: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ids, nil
}

// buildTasks slices the flow needed for graduation into equal buys, with
// every fourth task also selling half of its fill back. Buy amounts are
// quote for constant product and tokens for polynomial curves.
func (r *Runner) buildTasks(curveIDs []string) []tradeTask {
	var perTrade uint64
	if r.config.LaunchParams().Strategy == types.Polynomial {
		perTrade = r.config.MaxSupply/uint64(2*r.config.TradesPerCurve) + 1
	} else {
		perTrade = r.config.GraduationThreshold/uint64(r.config.TradesPerCurve) + 1
		// Sell-backs drain real quote, so the same flow needs headroom
		// to still reach the threshold.
		perTrade += perTrade / 2
	}

	tasks := make([]tradeTask, 0, len(curveIDs)*r.config.TradesPerCurve)
	for _, curveID := range curveIDs {
		for i := 0; i < r.config.TradesPerCurve; i++ {
			tasks = append(tasks, tradeTask{
				CurveID:      curveID,
				Amount:       perTrade,
				SellBackHalf: i%4 == 3,
			})
		}
	}
	return tasks
}

func (r *Runner) reportResults(ctx context.Context, curveIDs []string) {
	for _, curveID := range curveIDs {
		snap, err := r.book.Snapshot(curveID)
		if err != nil {
			r.logger.Warn("Failed to read final snapshot",
				zap.String("curve_id", curveID), zap.Error(err))
			continue
		}
		info, err := r.progress.Inspect(snap)
		if err != nil {
			r.logger.Warn("Failed to compute final progress",
				zap.String("curve_id", curveID), zap.Error(err))
			continue
		}
		r.logger.Info("Final curve state",
			zap.String("curve_id", curveID),
			zap.Uint8("progress_percent", info.ProgressPercent),
			zap.Uint64("real_quote_reserves", info.RealQuote),
			zap.Bool("is_complete", info.IsComplete))
	}

	var allTrades []*models.TradeRecord
	for _, curveID := range curveIDs {
		trades, err := r.store.ListTrades(ctx, curveID, 0, 0)
		if err != nil {
			r.logger.Warn("Failed to list trades for export",
				zap.String("curve_id", curveID), zap.Error(err))
			continue
		}
		allTrades = append(allTrades, trades...)
	}
	if len(allTrades) == 0 {
		return
	}

	if _, err := r.exporter.ExportDailyReport(allTrades, time.Now(), r.config.ExportDir); err != nil {
		r.logger.Warn("Failed to export daily report", zap.Error(err))
	}
}
