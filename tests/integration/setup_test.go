package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tradefolio/internal/handlers"
	"tradefolio/internal/logger"
	"tradefolio/internal/middleware"
	"tradefolio/internal/models"
	"tradefolio/internal/services"
	"tradefolio/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.Portfolio{},
		&models.Trade{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	portfolioService := services.NewPortfolioService(db)
	tradeService := services.NewTradeService(db)
	analyticsService := services.NewAnalyticsService(db)

	// Handlers
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	tradeHandler := handlers.NewTradeHandler(tradeService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	portfolios := v1.Group("/portfolios")
	portfolios.POST("", portfolioHandler.CreatePortfolio)
	portfolios.GET("", portfolioHandler.GetPortfolios)
	portfolios.GET("/:id", portfolioHandler.GetPortfolioByID)
	portfolios.PUT("/:id", portfolioHandler.UpdatePortfolio)
	portfolios.DELETE("/:id", portfolioHandler.DeletePortfolio)
	portfolios.GET("/:id/performance", analyticsHandler.GetPerformance)
	portfolios.GET("/:id/pnl", analyticsHandler.GetCumulativePnL)
	portfolios.GET("/:id/pnl/monthly", analyticsHandler.GetMonthlyPnL)
	portfolios.GET("/:id/pnl/by-ticker", analyticsHandler.GetPnLByTicker)
	portfolios.GET("/:id/trades/best-worst", analyticsHandler.GetBestWorstTrades)
	portfolios.GET("/:id/sharpe", analyticsHandler.GetSharpeRatio)
	portfolios.GET("/:id/chart", analyticsHandler.GetChart)

	trades := v1.Group("/trades")
	trades.POST("", tradeHandler.CreateTrade)
	trades.GET("", tradeHandler.GetTrades)
	trades.GET("/:id", tradeHandler.GetTradeByID)
	trades.PUT("/:id", tradeHandler.UpdateTrade)
	trades.DELETE("/:id", tradeHandler.DeleteTrade)

	v1.GET("/dashboard", analyticsHandler.GetDashboard)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// createPortfolio creates a portfolio through the API and returns its ID.
func (app *testApp) createPortfolio(t *testing.T, name string, initialValue float64) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"initial_value":%g}`, name, initialValue)
	rec := app.request("POST", "/api/v1/portfolios", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create portfolio failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	portfolio := result["portfolio"].(map[string]interface{})
	return portfolio["id"].(float64)
}

// createTrade records a trade through the API and returns its ID.
func (app *testApp) createTrade(t *testing.T, portfolioID float64, ticker string, entry, exit float64, quantity int, date string) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"portfolio_id":%d,"ticker":%q,"entry_price":%g,"exit_price":%g,"quantity":%d,"date":%q}`,
		int(portfolioID), ticker, entry, exit, quantity, date)
	rec := app.request("POST", "/api/v1/trades", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create trade failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	trade := result["trade"].(map[string]interface{})
	return trade["id"].(float64)
}
