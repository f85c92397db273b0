package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "tradefolio/internal/errors"
	"tradefolio/internal/pagination"
	"tradefolio/internal/services"
)

// PortfolioHandler handles portfolio-related requests.
type PortfolioHandler struct {
	portfolioService services.PortfolioServicer
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService services.PortfolioServicer) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService}
}

// CreatePortfolioRequest represents the request payload for creating a portfolio.
type CreatePortfolioRequest struct {
	Name         string  `json:"name" binding:"required,min=1,max=100"`
	InitialValue float64 `json:"initial_value" binding:"required,gt=0"`
}

// UpdatePortfolioRequest represents the request payload for updating a portfolio.
type UpdatePortfolioRequest struct {
	Name         string   `json:"name" binding:"omitempty,min=1,max=100"`
	InitialValue *float64 `json:"initial_value" binding:"omitempty,gt=0"`
}

// CreatePortfolio handles the creation of a new portfolio.
// @Summary     Create a portfolio
// @Description Create a new portfolio with an initial capital base
// @Tags        portfolios
// @Accept      json
// @Produce     json
// @Param       request body     CreatePortfolioRequest true "Portfolio parameters"
// @Success     201     {object} models.Portfolio
// @Failure     400     {object} ErrorResponse "Invalid input"
// @Router      /portfolios [post]
func (h *PortfolioHandler) CreatePortfolio(c *gin.Context) {
	var req CreatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	portfolio, err := h.portfolioService.CreatePortfolio(req.Name, req.InitialValue)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"portfolio": portfolio})
}

// GetPortfolios handles listing portfolios.
// @Summary     List portfolios
// @Description Get a paginated list of portfolios, newest first
// @Tags        portfolios
// @Produce     json
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Portfolio]
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /portfolios [get]
func (h *PortfolioHandler) GetPortfolios(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.portfolioService.GetPortfolios(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPortfolioByID handles retrieving a single portfolio with its trades.
// @Summary     Get a portfolio
// @Description Get a portfolio by ID with its trades
// @Tags        portfolios
// @Produce     json
// @Param       id path int true "Portfolio ID"
// @Success     200 {object} models.Portfolio
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Router      /portfolios/{id} [get]
func (h *PortfolioHandler) GetPortfolioByID(c *gin.Context) {
	portfolioID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	portfolio, err := h.portfolioService.GetPortfolioByID(portfolioID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"portfolio": portfolio})
}

// UpdatePortfolio handles partial updates of a portfolio.
// @Summary     Update a portfolio
// @Description Update a portfolio's name and/or initial value
// @Tags        portfolios
// @Accept      json
// @Produce     json
// @Param       id      path     int                    true "Portfolio ID"
// @Param       request body     UpdatePortfolioRequest true "Fields to update"
// @Success     200     {object} models.Portfolio
// @Failure     400     {object} ErrorResponse "Invalid input"
// @Failure     404     {object} ErrorResponse "Portfolio not found"
// @Router      /portfolios/{id} [put]
func (h *PortfolioHandler) UpdatePortfolio(c *gin.Context) {
	portfolioID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	portfolio, err := h.portfolioService.UpdatePortfolio(portfolioID, req.Name, req.InitialValue)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"portfolio": portfolio})
}

// DeletePortfolio handles deleting a portfolio and its trades.
// @Summary     Delete a portfolio
// @Description Delete a portfolio and all trades belonging to it
// @Tags        portfolios
// @Produce     json
// @Param       id path int true "Portfolio ID"
// @Success     200 {object} map[string]string
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Router      /portfolios/{id} [delete]
func (h *PortfolioHandler) DeletePortfolio(c *gin.Context) {
	portfolioID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.portfolioService.DeletePortfolio(portfolioID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Portfolio deleted"})
}
