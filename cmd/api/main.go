package main

import (
	"fmt"
	"net/http"
	"os"

	"tradefolio/internal/config"
	"tradefolio/internal/database"
	"tradefolio/internal/handlers"
	"tradefolio/internal/logger"
	"tradefolio/internal/middleware"
	"tradefolio/internal/services"
	"tradefolio/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Tradefolio API
// @version         1.0
// @description     Tradefolio tracks investment portfolios and trades and derives P&L analytics from them.

// @host      localhost:8080
// @BasePath  /api/v1

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	portfolioService := services.NewPortfolioService(db)
	tradeService := services.NewTradeService(db)
	analyticsService := services.NewAnalyticsService(db)

	// Initialize handlers
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	tradeHandler := handlers.NewTradeHandler(tradeService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation (generate with `swag init -g cmd/api/main.go`)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Portfolio routes
	portfolios := v1.Group("/portfolios")
	portfolios.POST("", portfolioHandler.CreatePortfolio)
	portfolios.GET("", portfolioHandler.GetPortfolios)
	portfolios.GET("/:id", portfolioHandler.GetPortfolioByID)
	portfolios.PUT("/:id", portfolioHandler.UpdatePortfolio)
	portfolios.DELETE("/:id", portfolioHandler.DeletePortfolio)

	// Portfolio analytics routes
	portfolios.GET("/:id/performance", analyticsHandler.GetPerformance)
	portfolios.GET("/:id/pnl", analyticsHandler.GetCumulativePnL)
	portfolios.GET("/:id/pnl/monthly", analyticsHandler.GetMonthlyPnL)
	portfolios.GET("/:id/pnl/by-ticker", analyticsHandler.GetPnLByTicker)
	portfolios.GET("/:id/trades/best-worst", analyticsHandler.GetBestWorstTrades)
	portfolios.GET("/:id/sharpe", analyticsHandler.GetSharpeRatio)
	portfolios.GET("/:id/chart", analyticsHandler.GetChart)

	// Trade routes
	trades := v1.Group("/trades")
	trades.POST("", tradeHandler.CreateTrade)
	trades.GET("", tradeHandler.GetTrades)
	trades.GET("/:id", tradeHandler.GetTradeByID)
	trades.PUT("/:id", tradeHandler.UpdateTrade)
	trades.DELETE("/:id", tradeHandler.DeleteTrade)

	// Dashboard
	v1.GET("/dashboard", analyticsHandler.GetDashboard)

	log.Infof("Starting Tradefolio backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
