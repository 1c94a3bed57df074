// internal/storage/memory/memory.go
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/launchforge/curve-engine/internal/storage"
	"github.com/launchforge/curve-engine/internal/storage/models"
)

// memoryStorage is an in-memory Storage for tests and the simulator.
type memoryStorage struct {
	mu     sync.RWMutex
	curves map[string]*models.CurveRecord
	trades map[string][]*models.TradeRecord
}

func NewStorage() storage.Storage {
	return &memoryStorage{
		curves: make(map[string]*models.CurveRecord),
		trades: make(map[string][]*models.TradeRecord),
	}
}

func (m *memoryStorage) SaveCurve(_ context.Context, record *models.CurveRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *record
	m.curves[record.CurveID] = &cp
	return nil
}

func (m *memoryStorage) GetCurve(_ context.Context, curveID string) (*models.CurveRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.curves[curveID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *record
	return &cp, nil
}

func (m *memoryStorage) ListCurves(_ context.Context, onlyActive bool, limit, offset int) ([]*models.CurveRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.curves))
	for id := range m.curves {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var records []*models.CurveRecord
	for _, id := range ids {
		record := m.curves[id]
		if onlyActive && record.IsComplete {
			continue
		}
		cp := *record
		records = append(records, &cp)
	}

	if offset >= len(records) {
		return nil, nil
	}
	records = records[offset:]
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records, nil
}

func (m *memoryStorage) SaveTrade(_ context.Context, trade *models.TradeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *trade
	m.trades[trade.CurveID] = append(m.trades[trade.CurveID], &cp)
	return nil
}

func (m *memoryStorage) ListTrades(_ context.Context, curveID string, limit, offset int) ([]*models.TradeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.trades[curveID]
	// Most recent first, matching the postgres implementation.
	records := make([]*models.TradeRecord, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		cp := *all[i]
		records = append(records, &cp)
	}

	if offset >= len(records) {
		return nil, nil
	}
	records = records[offset:]
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records, nil
}

func (m *memoryStorage) RunMigrations() error {
	return nil
}
