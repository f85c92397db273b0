package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"tradefolio/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreatePortfolio creates a portfolio with a unique name and the default
// $10,000 capital base.
func CreatePortfolio(t *testing.T, db *gorm.DB) *models.Portfolio {
	t.Helper()
	return CreatePortfolioWithValue(t, db, 10000)
}

// CreatePortfolioWithValue creates a portfolio with the given initial value.
func CreatePortfolioWithValue(t *testing.T, db *gorm.DB, initialValue float64) *models.Portfolio {
	t.Helper()

	portfolio := &models.Portfolio{
		Name:         fmt.Sprintf("Test Portfolio %d", nextID()),
		InitialValue: initialValue,
	}
	if err := db.Create(portfolio).Error; err != nil {
		t.Fatalf("failed to create test portfolio: %v", err)
	}
	return portfolio
}

// CreateTrade creates a trade on the given portfolio with its P&L stored,
// the way the write path persists trades.
func CreateTrade(t *testing.T, db *gorm.DB, portfolioID uint, ticker string, entry, exit float64, quantity int, date time.Time) *models.Trade {
	t.Helper()

	pnl := (exit - entry) * float64(quantity)
	trade := &models.Trade{
		Ticker:      ticker,
		EntryPrice:  entry,
		ExitPrice:   exit,
		Quantity:    quantity,
		Date:        date,
		PnL:         &pnl,
		PortfolioID: portfolioID,
	}
	if err := db.Create(trade).Error; err != nil {
		t.Fatalf("failed to create test trade: %v", err)
	}
	return trade
}

// CreateTradeWithoutPnL creates a trade row with a NULL pnl column, the way
// rows written before the column existed look.
func CreateTradeWithoutPnL(t *testing.T, db *gorm.DB, portfolioID uint, ticker string, entry, exit float64, quantity int, date time.Time) *models.Trade {
	t.Helper()

	trade := &models.Trade{
		Ticker:      ticker,
		EntryPrice:  entry,
		ExitPrice:   exit,
		Quantity:    quantity,
		Date:        date,
		PortfolioID: portfolioID,
	}
	if err := db.Create(trade).Error; err != nil {
		t.Fatalf("failed to create test trade: %v", err)
	}
	return trade
}
