package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tradefolio/internal/analytics"
	"tradefolio/internal/config"
	apperrors "tradefolio/internal/errors"
	"tradefolio/internal/services"
)

// AnalyticsHandler serves derived performance views of portfolios.
type AnalyticsHandler struct {
	analyticsService services.AnalyticsServicer
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService services.AnalyticsServicer) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// GetPerformance handles retrieving a portfolio's performance report.
// @Summary     Portfolio performance
// @Description Get aggregate performance metrics for a portfolio
// @Tags        analytics
// @Produce     json
// @Param       id path int true "Portfolio ID"
// @Success     200 {object} analytics.PerformanceReport
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Router      /portfolios/{id}/performance [get]
func (h *AnalyticsHandler) GetPerformance(c *gin.Context) {
	portfolioID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.analyticsService.GetPerformance(portfolioID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"performance":       report,
		"total_pnl_display": analytics.FormatCurrency(report.TotalPnL, true),
		"return_display":    analytics.FormatPercentage(report.ReturnPercentage, true),
	})
}

// GetCumulativePnL handles retrieving the cumulative P&L series.
// @Summary     Cumulative P&L series
// @Description Get the chronologically ordered running-sum P&L series for charting
// @Tags        analytics
// @Produce     json
// @Param       id path int true "Portfolio ID"
// @Success     200 {object} map[string][]analytics.Point
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Router      /portfolios/{id}/pnl [get]
func (h *AnalyticsHandler) GetCumulativePnL(c *gin.Context) {
	portfolioID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	points, err := h.analyticsService.GetCumulativePnL(portfolioID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"series": points})
}

// GetMonthlyPnL handles retrieving monthly P&L aggregation.
// @Summary     Monthly P&L
// @Description Get per-month P&L buckets in chronological order
// @Tags        analytics
// @Produce     json
// @Param       id path int true "Portfolio ID"
// @Success     200 {object} map[string][]analytics.MonthlyBucket
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Router      /portfolios/{id}/pnl/monthly [get]
func (h *AnalyticsHandler) GetMonthlyPnL(c *gin.Context) {
	portfolioID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	buckets, err := h.analyticsService.GetMonthlyPnL(portfolioID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"monthly": buckets})
}

// GetPnLByTicker handles retrieving per-ticker P&L totals.
// @Summary     P&L by ticker
// @Description Get total P&L grouped by ticker
// @Tags        analytics
// @Produce     json
// @Param       id path int true "Portfolio ID"
// @Success     200 {object} map[string]map[string]float64
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Router      /portfolios/{id}/pnl/by-ticker [get]
func (h *AnalyticsHandler) GetPnLByTicker(c *gin.Context) {
	portfolioID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	byTicker, err := h.analyticsService.GetPnLByTicker(portfolioID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"by_ticker": byTicker})
}

// GetBestWorstTrades handles retrieving a portfolio's best and worst trades.
// @Summary     Best and worst trades
// @Description Get the highest and lowest P&L trades of a portfolio; both null when it has no trades
// @Tags        analytics
// @Produce     json
// @Param       id path int true "Portfolio ID"
// @Success     200 {object} map[string]analytics.RankedTrade
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Router      /portfolios/{id}/trades/best-worst [get]
func (h *AnalyticsHandler) GetBestWorstTrades(c *gin.Context) {
	portfolioID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	best, worst, err := h.analyticsService.GetBestWorstTrades(portfolioID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"best": best, "worst": worst})
}

// GetSharpeRatio handles retrieving the simplified Sharpe ratio.
// @Summary     Sharpe ratio
// @Description Get the simplified risk-adjusted return over per-trade P&L samples
// @Tags        analytics
// @Produce     json
// @Param       id             path  int     true  "Portfolio ID"
// @Param       risk_free_rate query number false "Annualized risk-free rate (default 0.02)"
// @Success     200 {object} map[string]float64
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Router      /portfolios/{id}/sharpe [get]
func (h *AnalyticsHandler) GetSharpeRatio(c *gin.Context) {
	portfolioID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	riskFreeRate := analytics.DefaultRiskFreeRate
	if raw := c.Query("risk_free_rate"); raw != "" {
		riskFreeRate, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid risk_free_rate"))
			return
		}
	}

	ratio, err := h.analyticsService.GetSharpeRatio(portfolioID, riskFreeRate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sharpe_ratio": ratio, "risk_free_rate": riskFreeRate})
}

// GetChart handles rendering the cumulative P&L chart as PNG.
// @Summary     Cumulative P&L chart
// @Description Render the portfolio's cumulative P&L series as a PNG line chart
// @Tags        analytics
// @Produce     png
// @Param       id path int true "Portfolio ID"
// @Success     200 {file}   binary
// @Failure     400 {object} ErrorResponse "Portfolio has no trades"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Router      /portfolios/{id}/chart [get]
func (h *AnalyticsHandler) GetChart(c *gin.Context) {
	portfolioID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	cfg := config.Get()
	img, err := h.analyticsService.RenderChart(portfolioID, cfg.ChartWidth, cfg.ChartHeight)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", img)
}

// GetDashboard handles retrieving cross-portfolio headline figures.
// @Summary     Dashboard stats
// @Description Get totals across all portfolios, best/worst performers, and recent trades
// @Tags        analytics
// @Produce     json
// @Success     200 {object} services.DashboardStats
// @Router      /dashboard [get]
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	stats, err := h.analyticsService.GetDashboard()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dashboard": stats})
}
