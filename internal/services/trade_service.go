package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"tradefolio/internal/analytics"
	apperrors "tradefolio/internal/errors"
	"tradefolio/internal/models"
	"tradefolio/internal/pagination"
)

// tradeService handles trade-related business logic.
type tradeService struct {
	db *gorm.DB
}

// NewTradeService creates a new TradeServicer.
func NewTradeService(db *gorm.DB) TradeServicer {
	return &tradeService{db: db}
}

// CreateTrade records a new trade on a portfolio. The P&L is computed once
// here, with the same formula the analytics core derives it from, and stored
// on the row so persisted and derived values agree.
func (s *tradeService) CreateTrade(portfolioID uint, ticker string, entryPrice, exitPrice float64, quantity int, date time.Time) (*models.Trade, error) {
	// Verify the owning portfolio exists
	var portfolio models.Portfolio
	if err := s.db.First(&portfolio, portfolioID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPortfolioNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	pnl := analytics.TradePnL(entryPrice, exitPrice, quantity)
	trade := &models.Trade{
		Ticker:      ticker,
		EntryPrice:  entryPrice,
		ExitPrice:   exitPrice,
		Quantity:    quantity,
		Date:        date,
		PnL:         &pnl,
		PortfolioID: portfolioID,
	}
	if err := s.db.Create(trade).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return trade, nil
}

// GetTrades returns a paginated list of trades, newest first, optionally
// filtered by portfolio and ticker.
func (s *tradeService) GetTrades(filter TradeFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Trade], error) {
	page.Defaults()

	base := s.db.Model(&models.Trade{})
	if filter.PortfolioID != nil {
		base = base.Where("portfolio_id = ?", *filter.PortfolioID)
	}
	if filter.Ticker != "" {
		base = base.Where("ticker = ?", filter.Ticker)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var trades []models.Trade
	if err := base.Order("date DESC").
		Scopes(pagination.Paginate(page)).Find(&trades).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(trades, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTradeByID returns a trade with its portfolio preloaded.
func (s *tradeService) GetTradeByID(tradeID uint) (*models.Trade, error) {
	var trade models.Trade
	if err := s.db.Preload("Portfolio").First(&trade, tradeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTradeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &trade, nil
}

// UpdateTrade applies a partial update. When any of the price or quantity
// fields change, the stored P&L is recomputed so it stays consistent with
// the derivation formula.
func (s *tradeService) UpdateTrade(tradeID uint, update TradeUpdate) (*models.Trade, error) {
	var trade models.Trade
	if err := s.db.First(&trade, tradeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTradeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if update.Ticker != nil {
		trade.Ticker = *update.Ticker
	}
	if update.EntryPrice != nil {
		trade.EntryPrice = *update.EntryPrice
	}
	if update.ExitPrice != nil {
		trade.ExitPrice = *update.ExitPrice
	}
	if update.Quantity != nil {
		trade.Quantity = *update.Quantity
	}
	if update.Date != nil {
		trade.Date = *update.Date
	}

	if update.EntryPrice != nil || update.ExitPrice != nil || update.Quantity != nil {
		pnl := analytics.TradePnL(trade.EntryPrice, trade.ExitPrice, trade.Quantity)
		trade.PnL = &pnl
	}

	if err := s.db.Save(&trade).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &trade, nil
}

// DeleteTrade removes a trade.
func (s *tradeService) DeleteTrade(tradeID uint) error {
	result := s.db.Delete(&models.Trade{}, tradeID)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrTradeNotFound
	}
	return nil
}
