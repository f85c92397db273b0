package models

// Portfolio represents a collection of trades measured against an initial
// capital base.
type Portfolio struct {
	Base
	Name         string  `gorm:"not null" json:"name"`
	InitialValue float64 `gorm:"not null" json:"initial_value"`

	// Relationships
	Trades []Trade `gorm:"foreignKey:PortfolioID" json:"trades,omitempty"`
}
