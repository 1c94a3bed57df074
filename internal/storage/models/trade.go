// internal/storage/models/trade.go
package models

import "time"

// TradeRecord is one committed trade against a curve.
type TradeRecord struct {
	BaseModel
	CurveID        string    `gorm:"index;not null;type:varchar(64)"`
	Direction      string    `gorm:"not null;type:varchar(8)"`
	AmountIn       uint64    `gorm:"not null"`
	AmountOut      uint64    `gorm:"not null"`
	FeeAmount      uint64    `gorm:"not null"`
	CompletedCurve bool      `gorm:"not null"`
	ExecutedAt     time.Time `gorm:"index;not null"`
}
