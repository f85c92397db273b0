package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "tradefolio/internal/errors"
	"tradefolio/internal/pagination"
	"tradefolio/internal/services"
)

// TradeHandler handles trade-related requests.
type TradeHandler struct {
	tradeService services.TradeServicer
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(tradeService services.TradeServicer) *TradeHandler {
	return &TradeHandler{tradeService: tradeService}
}

// CreateTradeRequest represents the request payload for recording a trade.
// The date accepts RFC3339 or plain YYYY-MM-DD.
type CreateTradeRequest struct {
	Ticker      string  `json:"ticker" binding:"required,ticker"`
	EntryPrice  float64 `json:"entry_price" binding:"required,gt=0"`
	ExitPrice   float64 `json:"exit_price" binding:"required,gt=0"`
	Quantity    int     `json:"quantity" binding:"required,gt=0"`
	Date        string  `json:"date" binding:"required"`
	PortfolioID uint    `json:"portfolio_id" binding:"required"`
}

// UpdateTradeRequest represents the request payload for updating a trade.
type UpdateTradeRequest struct {
	Ticker     *string  `json:"ticker" binding:"omitempty,ticker"`
	EntryPrice *float64 `json:"entry_price" binding:"omitempty,gt=0"`
	ExitPrice  *float64 `json:"exit_price" binding:"omitempty,gt=0"`
	Quantity   *int     `json:"quantity" binding:"omitempty,gt=0"`
	Date       *string  `json:"date"`
}

// CreateTrade handles recording a new trade.
// @Summary     Record a trade
// @Description Record a completed trade on a portfolio; the P&L is computed and stored at creation time
// @Tags        trades
// @Accept      json
// @Produce     json
// @Param       request body     CreateTradeRequest true "Trade parameters"
// @Success     201     {object} models.Trade
// @Failure     400     {object} ErrorResponse "Invalid input"
// @Failure     404     {object} ErrorResponse "Portfolio not found"
// @Router      /trades [post]
func (h *TradeHandler) CreateTrade(c *gin.Context) {
	var req CreateTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseFlexibleDate(req.Date)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	trade, err := h.tradeService.CreateTrade(req.PortfolioID, req.Ticker, req.EntryPrice, req.ExitPrice, req.Quantity, date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"trade": trade})
}

// GetTrades handles listing trades with optional filters.
// @Summary     List trades
// @Description Get a paginated list of trades, newest first, optionally filtered by portfolio and ticker
// @Tags        trades
// @Produce     json
// @Param       portfolio_id query int    false "Filter by portfolio ID"
// @Param       ticker       query string false "Filter by ticker"
// @Param       page         query int    false "Page number (default 1)"
// @Param       page_size    query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Trade]
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /trades [get]
func (h *TradeHandler) GetTrades(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.TradeFilter
	if raw := c.Query("portfolio_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid portfolio_id"))
			return
		}
		pid := uint(id)
		filter.PortfolioID = &pid
	}
	filter.Ticker = c.Query("ticker")

	result, err := h.tradeService.GetTrades(filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTradeByID handles retrieving a single trade.
// @Summary     Get a trade
// @Description Get a trade by ID with its portfolio
// @Tags        trades
// @Produce     json
// @Param       id path int true "Trade ID"
// @Success     200 {object} models.Trade
// @Failure     404 {object} ErrorResponse "Trade not found"
// @Router      /trades/{id} [get]
func (h *TradeHandler) GetTradeByID(c *gin.Context) {
	tradeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	trade, err := h.tradeService.GetTradeByID(tradeID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trade": trade})
}

// UpdateTrade handles partial updates of a trade.
// @Summary     Update a trade
// @Description Update a trade; the stored P&L is recomputed when prices or quantity change
// @Tags        trades
// @Accept      json
// @Produce     json
// @Param       id      path     int                true "Trade ID"
// @Param       request body     UpdateTradeRequest true "Fields to update"
// @Success     200     {object} models.Trade
// @Failure     400     {object} ErrorResponse "Invalid input"
// @Failure     404     {object} ErrorResponse "Trade not found"
// @Router      /trades/{id} [put]
func (h *TradeHandler) UpdateTrade(c *gin.Context) {
	tradeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	update := services.TradeUpdate{
		Ticker:     req.Ticker,
		EntryPrice: req.EntryPrice,
		ExitPrice:  req.ExitPrice,
		Quantity:   req.Quantity,
	}
	if req.Date != nil {
		date, err := parseFlexibleDate(*req.Date)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
		update.Date = &date
	}

	trade, err := h.tradeService.UpdateTrade(tradeID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trade": trade})
}

// DeleteTrade handles deleting a trade.
// @Summary     Delete a trade
// @Description Delete a trade by ID
// @Tags        trades
// @Produce     json
// @Param       id path int true "Trade ID"
// @Success     200 {object} map[string]string
// @Failure     404 {object} ErrorResponse "Trade not found"
// @Router      /trades/{id} [delete]
func (h *TradeHandler) DeleteTrade(c *gin.Context) {
	tradeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.tradeService.DeleteTrade(tradeID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Trade deleted"})
}
