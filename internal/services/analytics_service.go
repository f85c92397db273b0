package services

import (
	"errors"

	"gorm.io/gorm"

	"tradefolio/internal/analytics"
	"tradefolio/internal/charts"
	apperrors "tradefolio/internal/errors"
	"tradefolio/internal/models"
)

// recentTradeLimit caps the dashboard's recent-trades list.
const recentTradeLimit = 5

// analyticsService loads portfolio data and delegates the math to the
// analytics package.
type analyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService creates a new AnalyticsServicer.
func NewAnalyticsService(db *gorm.DB) AnalyticsServicer {
	return &analyticsService{db: db}
}

// loadPortfolioTrades fetches a portfolio and all of its trades.
func (s *analyticsService) loadPortfolioTrades(portfolioID uint) (*models.Portfolio, []models.Trade, error) {
	var portfolio models.Portfolio
	if err := s.db.First(&portfolio, portfolioID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrPortfolioNotFound
		}
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var trades []models.Trade
	if err := s.db.Where("portfolio_id = ?", portfolioID).Find(&trades).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &portfolio, trades, nil
}

// GetPerformance returns the aggregate performance report for a portfolio.
func (s *analyticsService) GetPerformance(portfolioID uint) (*analytics.PerformanceReport, error) {
	portfolio, trades, err := s.loadPortfolioTrades(portfolioID)
	if err != nil {
		return nil, err
	}
	report := analytics.PortfolioPerformance(*portfolio, trades)
	return &report, nil
}

// GetCumulativePnL returns the chronological running-sum series for charting.
func (s *analyticsService) GetCumulativePnL(portfolioID uint) ([]analytics.Point, error) {
	_, trades, err := s.loadPortfolioTrades(portfolioID)
	if err != nil {
		return nil, err
	}
	return analytics.CumulativePnL(trades), nil
}

// GetMonthlyPnL returns per-month P&L buckets in chronological order.
func (s *analyticsService) GetMonthlyPnL(portfolioID uint) ([]analytics.MonthlyBucket, error) {
	_, trades, err := s.loadPortfolioTrades(portfolioID)
	if err != nil {
		return nil, err
	}
	return analytics.MonthlyPnL(trades), nil
}

// GetPnLByTicker returns total P&L grouped by ticker.
func (s *analyticsService) GetPnLByTicker(portfolioID uint) (map[string]float64, error) {
	_, trades, err := s.loadPortfolioTrades(portfolioID)
	if err != nil {
		return nil, err
	}
	return analytics.PnLByTicker(trades), nil
}

// GetBestWorstTrades returns the highest and lowest P&L trades of a portfolio.
// Both are nil when the portfolio has no trades.
func (s *analyticsService) GetBestWorstTrades(portfolioID uint) (*analytics.RankedTrade, *analytics.RankedTrade, error) {
	_, trades, err := s.loadPortfolioTrades(portfolioID)
	if err != nil {
		return nil, nil, err
	}
	best, worst := analytics.BestWorstTrades(trades)
	return best, worst, nil
}

// GetSharpeRatio returns the simplified risk-adjusted return for a portfolio.
func (s *analyticsService) GetSharpeRatio(portfolioID uint, riskFreeRate float64) (float64, error) {
	_, trades, err := s.loadPortfolioTrades(portfolioID)
	if err != nil {
		return 0, err
	}
	return analytics.SharpeRatio(trades, riskFreeRate), nil
}

// RenderChart renders the portfolio's cumulative P&L series as a PNG.
func (s *analyticsService) RenderChart(portfolioID uint, width, height int) ([]byte, error) {
	portfolio, trades, err := s.loadPortfolioTrades(portfolioID)
	if err != nil {
		return nil, err
	}

	points := analytics.CumulativePnL(trades)
	if len(points) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Portfolio has no trades to chart")
	}

	img, err := charts.RenderCumulativePnL(portfolio.Name, points, width, height)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrChartRender, err)
	}
	return img, nil
}

// GetDashboard aggregates headline figures across every portfolio: totals,
// the best and worst performers by return percentage, and the most recent
// trades.
func (s *analyticsService) GetDashboard() (*DashboardStats, error) {
	stats := &DashboardStats{}

	if err := s.db.Model(&models.Portfolio{}).Count(&stats.TotalPortfolios).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(&models.Trade{}).Count(&stats.TotalTrades).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var portfolios []models.Portfolio
	if err := s.db.Preload("Trades").Find(&portfolios).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i := range portfolios {
		p := &portfolios[i]
		report := analytics.PortfolioPerformance(*p, p.Trades)
		stats.TotalPnL += report.TotalPnL

		ranking := &PortfolioRanking{
			PortfolioID:      p.ID,
			Name:             p.Name,
			TotalPnL:         report.TotalPnL,
			ReturnPercentage: report.ReturnPercentage,
		}
		if stats.BestPortfolio == nil || ranking.ReturnPercentage > stats.BestPortfolio.ReturnPercentage {
			stats.BestPortfolio = ranking
		}
		if stats.WorstPortfolio == nil || ranking.ReturnPercentage < stats.WorstPortfolio.ReturnPercentage {
			stats.WorstPortfolio = ranking
		}
	}

	if err := s.db.Order("date DESC").Limit(recentTradeLimit).Find(&stats.RecentTrades).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return stats, nil
}
