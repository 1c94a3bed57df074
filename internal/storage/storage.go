// internal/storage/storage.go
package storage

import (
	"context"
	"errors"

	"github.com/launchforge/curve-engine/internal/storage/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Storage is the durable home of committed curve snapshots and trade
// history. The engine never touches it; the book commits each new snapshot
// here after a successful apply.
type Storage interface {
	// Snapshots
	SaveCurve(ctx context.Context, record *models.CurveRecord) error
	GetCurve(ctx context.Context, curveID string) (*models.CurveRecord, error)
	ListCurves(ctx context.Context, onlyActive bool, limit, offset int) ([]*models.CurveRecord, error)

	// Trade history
	SaveTrade(ctx context.Context, trade *models.TradeRecord) error
	ListTrades(ctx context.Context, curveID string, limit, offset int) ([]*models.TradeRecord, error)

	RunMigrations() error
}
