package services

import (
	"math"
	"testing"

	"tradefolio/internal/models"
	"tradefolio/internal/testutil"

	"gorm.io/gorm"
)

// seedScenario creates the canonical three-trade portfolio:
// AAPL +100, GOOGL -500, MSFT +160 on a $10,000 base.
func seedScenario(t *testing.T, db *gorm.DB) *models.Portfolio {
	t.Helper()
	portfolio := testutil.CreatePortfolioWithValue(t, db, 10000)
	testutil.CreateTrade(t, db, portfolio.ID, "AAPL", 150, 160, 10, day(2024, 1, 10))
	testutil.CreateTrade(t, db, portfolio.ID, "GOOGL", 2500, 2400, 5, day(2024, 2, 5))
	testutil.CreateTrade(t, db, portfolio.ID, "MSFT", 300, 320, 8, day(2024, 2, 20))
	return portfolio
}

func TestGetPerformance(t *testing.T) {
	t.Run("canonical_scenario", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalyticsService(db)

		portfolio := seedScenario(t, db)

		report, err := svc.GetPerformance(portfolio.ID)
		testutil.AssertNoError(t, err)

		if report.TotalPnL != -240 {
			t.Errorf("expected total PnL -240, got %v", report.TotalPnL)
		}
		if report.CurrentValue != 9760 {
			t.Errorf("expected current value 9760, got %v", report.CurrentValue)
		}
		if report.ReturnPercentage != -2.4 {
			t.Errorf("expected return -2.4%%, got %v", report.ReturnPercentage)
		}
		if report.ProfitableTrades != 2 || report.LosingTrades != 1 {
			t.Errorf("expected 2 wins / 1 loss, got %d/%d", report.ProfitableTrades, report.LosingTrades)
		}
	})

	t.Run("portfolio_without_trades", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalyticsService(db)

		portfolio := testutil.CreatePortfolioWithValue(t, db, 5000)

		report, err := svc.GetPerformance(portfolio.ID)
		testutil.AssertNoError(t, err)

		if report.TotalTrades != 0 || report.TotalPnL != 0 || report.WinRate != 0 {
			t.Errorf("expected zeroed report, got %+v", report)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalyticsService(db)

		_, err := svc.GetPerformance(9999)
		testutil.AssertAppError(t, err, "PORTFOLIO_NOT_FOUND")
	})
}

func TestGetCumulativePnL(t *testing.T) {
	t.Run("ordered_series", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalyticsService(db)

		portfolio := seedScenario(t, db)

		points, err := svc.GetCumulativePnL(portfolio.ID)
		testutil.AssertNoError(t, err)

		if len(points) != 3 {
			t.Fatalf("expected 3 points, got %d", len(points))
		}
		if points[2].CumulativeValue != -240 {
			t.Errorf("expected final cumulative -240, got %v", points[2].CumulativeValue)
		}
		for i := 1; i < len(points); i++ {
			if points[i].Date.Before(points[i-1].Date) {
				t.Errorf("series not chronological at index %d", i)
			}
		}
	})

	t.Run("uses_stored_pnl_when_present", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalyticsService(db)

		portfolio := testutil.CreatePortfolio(t, db)
		// Row written before the pnl column existed: derived on read.
		testutil.CreateTradeWithoutPnL(t, db, portfolio.ID, "AAPL", 150, 160, 10, day(2024, 1, 10))

		points, err := svc.GetCumulativePnL(portfolio.ID)
		testutil.AssertNoError(t, err)

		if points[0].Value != 100 {
			t.Errorf("expected derived value 100, got %v", points[0].Value)
		}
	})
}

func TestGetMonthlyPnL(t *testing.T) {
	t.Run("buckets_in_order", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalyticsService(db)

		portfolio := seedScenario(t, db)

		buckets, err := svc.GetMonthlyPnL(portfolio.ID)
		testutil.AssertNoError(t, err)

		if len(buckets) != 2 {
			t.Fatalf("expected 2 buckets, got %d", len(buckets))
		}
		if buckets[0].Month != "January" || buckets[1].Month != "February" {
			t.Errorf("expected January then February, got %s then %s", buckets[0].Month, buckets[1].Month)
		}
		if buckets[1].TotalPnL != -340 {
			t.Errorf("expected February PnL -340, got %v", buckets[1].TotalPnL)
		}
	})
}

func TestGetPnLByTicker(t *testing.T) {
	t.Run("groups_by_ticker", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalyticsService(db)

		portfolio := seedScenario(t, db)

		byTicker, err := svc.GetPnLByTicker(portfolio.ID)
		testutil.AssertNoError(t, err)

		if byTicker["GOOGL"] != -500 {
			t.Errorf("expected GOOGL -500, got %v", byTicker["GOOGL"])
		}
		if len(byTicker) != 3 {
			t.Errorf("expected 3 tickers, got %d", len(byTicker))
		}
	})
}

func TestGetBestWorstTrades(t *testing.T) {
	t.Run("canonical_scenario", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalyticsService(db)

		portfolio := seedScenario(t, db)

		best, worst, err := svc.GetBestWorstTrades(portfolio.ID)
		testutil.AssertNoError(t, err)

		if best == nil || worst == nil {
			t.Fatal("expected non-nil best and worst")
		}
		if best.CalculatedPnL != 160 {
			t.Errorf("expected best 160, got %v", best.CalculatedPnL)
		}
		if worst.CalculatedPnL != -500 {
			t.Errorf("expected worst -500, got %v", worst.CalculatedPnL)
		}
	})

	t.Run("empty_portfolio_returns_nil_pair", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalyticsService(db)

		portfolio := testutil.CreatePortfolio(t, db)

		best, worst, err := svc.GetBestWorstTrades(portfolio.ID)
		testutil.AssertNoError(t, err)

		if best != nil || worst != nil {
			t.Errorf("expected nil/nil, got %v/%v", best, worst)
		}
	})
}

func TestGetSharpeRatio(t *testing.T) {
	t.Run("matches_population_formula", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalyticsService(db)

		portfolio := seedScenario(t, db)

		ratio, err := svc.GetSharpeRatio(portfolio.ID, 0.02)
		testutil.AssertNoError(t, err)

		want := (-80.0 - 0.02/252) / math.Sqrt(88800.0)
		if math.Abs(ratio-want) > 1e-9 {
			t.Errorf("expected %v, got %v", want, ratio)
		}
	})

	t.Run("single_trade_is_zero", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalyticsService(db)

		portfolio := testutil.CreatePortfolio(t, db)
		testutil.CreateTrade(t, db, portfolio.ID, "AAPL", 150, 160, 10, day(2024, 1, 10))

		ratio, err := svc.GetSharpeRatio(portfolio.ID, 0.02)
		testutil.AssertNoError(t, err)

		if ratio != 0 {
			t.Errorf("expected 0, got %v", ratio)
		}
	})
}

func TestRenderChart(t *testing.T) {
	t.Run("renders_png", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalyticsService(db)

		portfolio := seedScenario(t, db)

		img, err := svc.RenderChart(portfolio.ID, 900, 500)
		testutil.AssertNoError(t, err)

		// PNG signature
		if len(img) < 8 || img[0] != 0x89 || img[1] != 'P' || img[2] != 'N' || img[3] != 'G' {
			t.Errorf("expected PNG bytes, got %d bytes with prefix %v", len(img), img[:min(len(img), 4)])
		}
	})

	t.Run("no_trades_is_invalid_input", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalyticsService(db)

		portfolio := testutil.CreatePortfolio(t, db)

		_, err := svc.RenderChart(portfolio.ID, 900, 500)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetDashboard(t *testing.T) {
	t.Run("aggregates_across_portfolios", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalyticsService(db)

		winner := testutil.CreatePortfolioWithValue(t, db, 1000)
		testutil.CreateTrade(t, db, winner.ID, "AAPL", 100, 110, 10, day(2024, 1, 10)) // +100, +10%

		loser := testutil.CreatePortfolioWithValue(t, db, 1000)
		testutil.CreateTrade(t, db, loser.ID, "GOOGL", 100, 90, 5, day(2024, 2, 5)) // -50, -5%

		stats, err := svc.GetDashboard()
		testutil.AssertNoError(t, err)

		if stats.TotalPortfolios != 2 {
			t.Errorf("expected 2 portfolios, got %d", stats.TotalPortfolios)
		}
		if stats.TotalTrades != 2 {
			t.Errorf("expected 2 trades, got %d", stats.TotalTrades)
		}
		if stats.TotalPnL != 50 {
			t.Errorf("expected total PnL 50, got %v", stats.TotalPnL)
		}
		if stats.BestPortfolio == nil || stats.BestPortfolio.PortfolioID != winner.ID {
			t.Errorf("expected best portfolio %d, got %+v", winner.ID, stats.BestPortfolio)
		}
		if stats.WorstPortfolio == nil || stats.WorstPortfolio.PortfolioID != loser.ID {
			t.Errorf("expected worst portfolio %d, got %+v", loser.ID, stats.WorstPortfolio)
		}
		if len(stats.RecentTrades) != 2 {
			t.Errorf("expected 2 recent trades, got %d", len(stats.RecentTrades))
		}
	})

	t.Run("empty_database", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalyticsService(db)

		stats, err := svc.GetDashboard()
		testutil.AssertNoError(t, err)

		if stats.TotalPortfolios != 0 || stats.TotalTrades != 0 || stats.TotalPnL != 0 {
			t.Errorf("expected zeroed stats, got %+v", stats)
		}
		if stats.BestPortfolio != nil || stats.WorstPortfolio != nil {
			t.Errorf("expected nil rankings, got %+v / %+v", stats.BestPortfolio, stats.WorstPortfolio)
		}
	})
}
