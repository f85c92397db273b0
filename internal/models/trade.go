package models

import "time"

// Trade represents a completed round-trip trade: an entry and an exit at
// known prices for a fixed quantity of shares.
//
// PnL is precomputed once at write time with the same formula the analytics
// core derives it from, so persisted and derived values agree. It is nullable
// so that rows written before the column existed still flow through the
// analytics fallback.
type Trade struct {
	Base
	Ticker      string    `gorm:"not null;index" json:"ticker"`
	EntryPrice  float64   `gorm:"not null" json:"entry_price"`
	ExitPrice   float64   `gorm:"not null" json:"exit_price"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	PnL         *float64  `json:"pnl,omitempty"`
	PortfolioID uint      `gorm:"not null;index" json:"portfolio_id"`

	// Relationships
	Portfolio Portfolio `gorm:"foreignKey:PortfolioID" json:"portfolio,omitempty"`
}
