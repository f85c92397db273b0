// Package services contains the business logic between HTTP handlers and
// the database.
package services

import (
	"time"

	"tradefolio/internal/analytics"
	"tradefolio/internal/models"
	"tradefolio/internal/pagination"
)

// PortfolioServicer defines portfolio business logic.
type PortfolioServicer interface {
	CreatePortfolio(name string, initialValue float64) (*models.Portfolio, error)
	GetPortfolios(page pagination.PageRequest) (*pagination.PageResponse[models.Portfolio], error)
	GetPortfolioByID(portfolioID uint) (*models.Portfolio, error)
	UpdatePortfolio(portfolioID uint, name string, initialValue *float64) (*models.Portfolio, error)
	DeletePortfolio(portfolioID uint) error
}

// TradeFilter narrows trade listings.
type TradeFilter struct {
	PortfolioID *uint
	Ticker      string
}

// TradeUpdate carries the optional fields of a partial trade update.
// Nil fields are left unchanged.
type TradeUpdate struct {
	Ticker     *string
	EntryPrice *float64
	ExitPrice  *float64
	Quantity   *int
	Date       *time.Time
}

// TradeServicer defines trade business logic.
type TradeServicer interface {
	CreateTrade(portfolioID uint, ticker string, entryPrice, exitPrice float64, quantity int, date time.Time) (*models.Trade, error)
	GetTrades(filter TradeFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Trade], error)
	GetTradeByID(tradeID uint) (*models.Trade, error)
	UpdateTrade(tradeID uint, update TradeUpdate) (*models.Trade, error)
	DeleteTrade(tradeID uint) error
}

// PortfolioRanking identifies a portfolio and its headline performance,
// used to surface best/worst performers on the dashboard.
type PortfolioRanking struct {
	PortfolioID      uint    `json:"portfolio_id"`
	Name             string  `json:"name"`
	TotalPnL         float64 `json:"total_pnl"`
	ReturnPercentage float64 `json:"return_percentage"`
}

// DashboardStats aggregates headline figures across all portfolios.
type DashboardStats struct {
	TotalPortfolios int64             `json:"total_portfolios"`
	TotalTrades     int64             `json:"total_trades"`
	TotalPnL        float64           `json:"total_pnl"`
	BestPortfolio   *PortfolioRanking `json:"best_portfolio"`
	WorstPortfolio  *PortfolioRanking `json:"worst_portfolio"`
	RecentTrades    []models.Trade    `json:"recent_trades"`
}

// AnalyticsServicer loads a portfolio's trades and derives performance views
// from them via the analytics core.
type AnalyticsServicer interface {
	GetPerformance(portfolioID uint) (*analytics.PerformanceReport, error)
	GetCumulativePnL(portfolioID uint) ([]analytics.Point, error)
	GetMonthlyPnL(portfolioID uint) ([]analytics.MonthlyBucket, error)
	GetPnLByTicker(portfolioID uint) (map[string]float64, error)
	GetBestWorstTrades(portfolioID uint) (best, worst *analytics.RankedTrade, err error)
	GetSharpeRatio(portfolioID uint, riskFreeRate float64) (float64, error)
	RenderChart(portfolioID uint, width, height int) ([]byte, error)
	GetDashboard() (*DashboardStats, error)
}
