// internal/monitor/progress.go
package monitor

import (
	"go.uber.org/zap"

	"github.com/launchforge/curve-engine/internal/curve"
	"github.com/launchforge/curve-engine/internal/fixedpoint"
)

// ProgressInfo describes how far a curve is from graduation.
type ProgressInfo struct {
	ProgressPercent uint8
	RealQuote       uint64
	Threshold       uint64
	MarketCap       uint64
	SpotPrice       uint64
	IsComplete      bool
}

// Calculator derives read-only progress metrics from curve snapshots.
type Calculator struct {
	logger *zap.Logger
}

func NewCalculator(logger *zap.Logger) *Calculator {
	return &Calculator{logger: logger.Named("progress")}
}

// ProgressPercent returns how close the real quote reserves are to the
// graduation threshold, capped at 100.
func ProgressPercent(s curve.Snapshot) (uint8, error) {
	if s.GraduationThreshold == 0 {
		return 0, curve.ErrDegenerateCurve
	}
	if s.RealQuoteReserves >= s.GraduationThreshold {
		return 100, nil
	}
	pct, err := fixedpoint.MulDiv(s.RealQuoteReserves, 100, s.GraduationThreshold)
	if err != nil {
		return 0, err
	}
	return uint8(pct), nil
}

// MarketCap values the total supply at the current spot price. Computed in
// double width against the PriceScale-scaled spot price.
func MarketCap(s curve.Snapshot) (uint64, error) {
	price, err := s.SpotPrice()
	if err != nil {
		return 0, err
	}
	return fixedpoint.MulDiv(s.TotalSupply, price, curve.PriceScale)
}

// Inspect gathers all progress metrics for one snapshot and logs them at
// debug level.
func (c *Calculator) Inspect(s curve.Snapshot) (ProgressInfo, error) {
	pct, err := ProgressPercent(s)
	if err != nil {
		return ProgressInfo{}, err
	}
	cap, err := MarketCap(s)
	if err != nil {
		return ProgressInfo{}, err
	}
	price, err := s.SpotPrice()
	if err != nil {
		return ProgressInfo{}, err
	}

	info := ProgressInfo{
		ProgressPercent: pct,
		RealQuote:       s.RealQuoteReserves,
		Threshold:       s.GraduationThreshold,
		MarketCap:       cap,
		SpotPrice:       price,
		IsComplete:      s.IsComplete,
	}

	c.logger.Debug("curve progress",
		zap.Uint8("progress_percent", info.ProgressPercent),
		zap.Uint64("real_quote_reserves", info.RealQuote),
		zap.Uint64("graduation_threshold", info.Threshold),
		zap.Uint64("market_cap", info.MarketCap),
		zap.Uint64("spot_price", info.SpotPrice),
		zap.Bool("is_complete", info.IsComplete))

	return info, nil
}
