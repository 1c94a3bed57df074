// internal/storage/models/curve.go
package models

import (
	"github.com/launchforge/curve-engine/internal/curve"
	"github.com/launchforge/curve-engine/internal/types"
)

// CurveRecord is the persisted form of one curve's committed snapshot.
// Reserve amounts are stored as unsigned integers end to end; no decimal
// conversion happens on the write path.
type CurveRecord struct {
	BaseModel
	CurveID              string `gorm:"unique;not null;type:varchar(64)"`
	Strategy             string `gorm:"not null;type:varchar(20)"`
	VirtualBaseReserves  uint64 `gorm:"not null"`
	VirtualQuoteReserves uint64 `gorm:"not null"`
	RealBaseReserves     uint64 `gorm:"not null"`
	RealQuoteReserves    uint64 `gorm:"not null;index"`
	TotalSupply          uint64 `gorm:"not null"`
	CurrentSupply        uint64 `gorm:"not null"`
	BasePrice            uint64 `gorm:"not null"`
	MaxSupply            uint64 `gorm:"not null"`
	GraduationThreshold  uint64 `gorm:"not null"`
	FeeBasisPoints       uint16 `gorm:"not null"`
	IsComplete           bool   `gorm:"not null;index"`
}

// NewCurveRecord builds a record from a committed snapshot.
func NewCurveRecord(curveID string, s curve.Snapshot) *CurveRecord {
	return &CurveRecord{
		CurveID:              curveID,
		Strategy:             s.Strategy.String(),
		VirtualBaseReserves:  s.VirtualBaseReserves,
		VirtualQuoteReserves: s.VirtualQuoteReserves,
		RealBaseReserves:     s.RealBaseReserves,
		RealQuoteReserves:    s.RealQuoteReserves,
		TotalSupply:          s.TotalSupply,
		CurrentSupply:        s.CurrentSupply,
		BasePrice:            s.BasePrice,
		MaxSupply:            s.MaxSupply,
		GraduationThreshold:  s.GraduationThreshold,
		FeeBasisPoints:       s.FeeBasisPoints,
		IsComplete:           s.IsComplete,
	}
}

// Snapshot reconstructs the engine snapshot from the persisted record.
func (r *CurveRecord) Snapshot() curve.Snapshot {
	var strategy types.Strategy
	if r.Strategy == types.Polynomial.String() {
		strategy = types.Polynomial
	}
	return curve.Snapshot{
		VirtualBaseReserves:  r.VirtualBaseReserves,
		VirtualQuoteReserves: r.VirtualQuoteReserves,
		RealBaseReserves:     r.RealBaseReserves,
		RealQuoteReserves:    r.RealQuoteReserves,
		TotalSupply:          r.TotalSupply,
		CurrentSupply:        r.CurrentSupply,
		BasePrice:            r.BasePrice,
		MaxSupply:            r.MaxSupply,
		GraduationThreshold:  r.GraduationThreshold,
		FeeBasisPoints:       r.FeeBasisPoints,
		Strategy:             strategy,
		IsComplete:           r.IsComplete,
	}
}
