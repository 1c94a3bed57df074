// internal/storage/postgres/postgres.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/launchforge/curve-engine/internal/storage"
	"github.com/launchforge/curve-engine/internal/storage/models"
)

// gormLogger adapts zap to gorm's logger.Interface.
type gormLogger struct {
	zapLogger *zap.Logger
	logLevel  logger.LogLevel
}

func newGormLogger(zapLogger *zap.Logger) logger.Interface {
	return &gormLogger{
		zapLogger: zapLogger,
		logLevel:  logger.Warn,
	}
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	newLogger := *l
	newLogger.logLevel = level
	return &newLogger
}

func (l *gormLogger) Info(_ context.Context, msg string, data ...interface{}) {
	if l.logLevel >= logger.Info {
		l.zapLogger.Sugar().Infof(msg, data...)
	}
}

func (l *gormLogger) Warn(_ context.Context, msg string, data ...interface{}) {
	if l.logLevel >= logger.Warn {
		l.zapLogger.Sugar().Warnf(msg, data...)
	}
}

func (l *gormLogger) Error(_ context.Context, msg string, data ...interface{}) {
	if l.logLevel >= logger.Error {
		l.zapLogger.Sugar().Errorf(msg, data...)
	}
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.logLevel <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.String("sql", sql),
		zap.Int64("rows", rows),
	}

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		l.zapLogger.Error("trace", append(fields, zap.Error(err))...)
		return
	}

	if l.logLevel >= logger.Info {
		l.zapLogger.Info("trace", fields...)
	}
}

type postgresStorage struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStorage connects to postgres with exponential-backoff retries and
// returns a Storage backed by it.
func NewStorage(ctx context.Context, dsn string, zapLogger *zap.Logger) (storage.Storage, error) {
	gormLog := newGormLogger(zapLogger.Named("gorm"))

	connect := func() (*gorm.DB, error) {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormLog,
			NowFunc: func() time.Time {
				return time.Now().UTC()
			},
			SkipDefaultTransaction: true,
		})
	}

	notify := func(err error, duration time.Duration) {
		zapLogger.Info("Retrying database connection",
			zap.Error(err), zap.Duration("backoff", duration))
	}

	db, err := backoff.Retry(ctx, connect,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(5),
		backoff.WithNotify(notify))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &postgresStorage{
		db:     db,
		logger: zapLogger,
	}, nil
}

func (p *postgresStorage) RunMigrations() error {
	// Advisory lock keeps concurrent instances from migrating at once.
	var lockObtained bool
	err := p.db.Raw("SELECT pg_try_advisory_lock(317)").Scan(&lockObtained).Error
	if err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	if !lockObtained {
		return fmt.Errorf("another migration is in progress")
	}
	defer p.db.Exec("SELECT pg_advisory_unlock(317)")

	err = p.db.AutoMigrate(
		&models.CurveRecord{},
		&models.TradeRecord{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (p *postgresStorage) SaveCurve(ctx context.Context, record *models.CurveRecord) error {
	// Upsert by curve id: every committed trade rewrites the row.
	return p.db.WithContext(ctx).
		Where("curve_id = ?", record.CurveID).
		Assign(record).
		FirstOrCreate(&models.CurveRecord{}).Error
}

func (p *postgresStorage) GetCurve(ctx context.Context, curveID string) (*models.CurveRecord, error) {
	var record models.CurveRecord
	err := p.db.WithContext(ctx).Where("curve_id = ?", curveID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (p *postgresStorage) ListCurves(ctx context.Context, onlyActive bool, limit, offset int) ([]*models.CurveRecord, error) {
	q := p.db.WithContext(ctx).Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if onlyActive {
		q = q.Where("is_complete = ?", false)
	}
	var records []*models.CurveRecord
	err := q.Find(&records).Error
	return records, err
}

func (p *postgresStorage) SaveTrade(ctx context.Context, trade *models.TradeRecord) error {
	return p.db.WithContext(ctx).Create(trade).Error
}

func (p *postgresStorage) ListTrades(ctx context.Context, curveID string, limit, offset int) ([]*models.TradeRecord, error) {
	var trades []*models.TradeRecord
	query := p.db.WithContext(ctx).
		Where("curve_id = ?", curveID).
		Order("executed_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&trades).Error
	return trades, err
}
