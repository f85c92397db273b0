package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "tradefolio/internal/errors"
	"tradefolio/internal/models"
	"tradefolio/internal/pagination"
)

// portfolioService handles portfolio-related business logic.
type portfolioService struct {
	db *gorm.DB
}

// NewPortfolioService creates a new PortfolioServicer.
func NewPortfolioService(db *gorm.DB) PortfolioServicer {
	return &portfolioService{db: db}
}

// CreatePortfolio creates a new portfolio with the given name and capital base.
func (s *portfolioService) CreatePortfolio(name string, initialValue float64) (*models.Portfolio, error) {
	portfolio := &models.Portfolio{
		Name:         name,
		InitialValue: initialValue,
	}
	if err := s.db.Create(portfolio).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return portfolio, nil
}

// GetPortfolios returns a paginated list of portfolios, newest first.
func (s *portfolioService) GetPortfolios(page pagination.PageRequest) (*pagination.PageResponse[models.Portfolio], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Portfolio{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var portfolios []models.Portfolio
	if err := s.db.Order("created_at DESC").
		Scopes(pagination.Paginate(page)).Find(&portfolios).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(portfolios, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetPortfolioByID returns a portfolio with its trades preloaded.
func (s *portfolioService) GetPortfolioByID(portfolioID uint) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	if err := s.db.Preload("Trades", func(db *gorm.DB) *gorm.DB {
		return db.Order("trades.date DESC")
	}).First(&portfolio, portfolioID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPortfolioNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &portfolio, nil
}

// UpdatePortfolio applies a partial update. Empty name and nil initialValue
// leave the respective fields unchanged.
func (s *portfolioService) UpdatePortfolio(portfolioID uint, name string, initialValue *float64) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	if err := s.db.First(&portfolio, portfolioID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPortfolioNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	updates := map[string]interface{}{}
	if name != "" {
		updates["name"] = name
	}
	if initialValue != nil {
		updates["initial_value"] = *initialValue
	}
	if len(updates) == 0 {
		return &portfolio, nil
	}

	if err := s.db.Model(&portfolio).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &portfolio, nil
}

// DeletePortfolio removes a portfolio and all of its trades in one transaction.
func (s *portfolioService) DeletePortfolio(portfolioID uint) error {
	var portfolio models.Portfolio
	if err := s.db.First(&portfolio, portfolioID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrPortfolioNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if txErr := tx.Where("portfolio_id = ?", portfolioID).Delete(&models.Trade{}).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		if txErr := tx.Delete(&portfolio).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
	return err
}
