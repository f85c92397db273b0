// Package analytics derives profit-and-loss series and performance metrics
// from trade records. Every function is pure: inputs are treated as
// immutable snapshots and fresh values are returned. Degenerate inputs
// (empty slices, zero denominators) produce zero-valued results rather than
// errors, because every consumer is a display surface that must never crash
// on empty data.
//
// Numeric validation is deliberately not performed here; trades are
// validated before they reach persistence, and the core propagates whatever
// arithmetic result follows from the values it is given.
package analytics

import (
	"math"
	"sort"
	"time"

	"tradefolio/internal/models"
)

// DefaultRiskFreeRate is the annualized risk-free rate assumed by
// SharpeRatio when the caller has no better figure.
const DefaultRiskFreeRate = 0.02

// tradingDaysPerYear converts an annual risk-free rate to a naive daily one.
const tradingDaysPerYear = 252

// Point is one entry of a cumulative P&L series, ordered chronologically.
type Point struct {
	Date            time.Time `json:"date"`
	Value           float64   `json:"value"`
	CumulativeValue float64   `json:"cumulative_value"`
	Ticker          string    `json:"ticker"`
}

// PerformanceReport aggregates a portfolio's trades against its initial value.
type PerformanceReport struct {
	InitialValue     float64 `json:"initial_value"`
	TotalPnL         float64 `json:"total_pnl"`
	CurrentValue     float64 `json:"current_value"`
	ReturnPercentage float64 `json:"return_percentage"`
	TotalTrades      int     `json:"total_trades"`
	ProfitableTrades int     `json:"profitable_trades"`
	LosingTrades     int     `json:"losing_trades"`
	WinRate          float64 `json:"win_rate"`
}

// RankedTrade is a trade annotated with the P&L it was ranked by.
type RankedTrade struct {
	models.Trade
	CalculatedPnL float64 `json:"calculated_pnl"`
}

// MonthlyBucket holds the aggregate P&L of all trades in one calendar month.
type MonthlyBucket struct {
	Month      string  `json:"month"`
	Year       int     `json:"year"`
	TotalPnL   float64 `json:"total_pnl"`
	TradeCount int     `json:"trade_count"`
}

// TradePnL computes the profit or loss of a single round-trip trade.
// No rounding is applied; callers format for display.
func TradePnL(entryPrice, exitPrice float64, quantity int) float64 {
	return (exitPrice - entryPrice) * float64(quantity)
}

// EffectivePnL returns the trade's stored P&L when one is present, falling
// back to deriving it from prices and quantity. A stored value always wins,
// even a stored zero, so figures shown here agree with figures persisted by
// the write path.
func EffectivePnL(t models.Trade) float64 {
	if t.PnL != nil {
		return *t.PnL
	}
	return TradePnL(t.EntryPrice, t.ExitPrice, t.Quantity)
}

// CumulativePnL produces the chronologically ordered running-sum series that
// drives the performance chart. The input is not mutated; trades on the same
// date keep their original relative order.
func CumulativePnL(trades []models.Trade) []Point {
	sorted := make([]models.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	points := make([]Point, 0, len(sorted))
	var cumulative float64
	for _, t := range sorted {
		value := EffectivePnL(t)
		cumulative += value
		points = append(points, Point{
			Date:            t.Date,
			Value:           value,
			CumulativeValue: cumulative,
			Ticker:          t.Ticker,
		})
	}
	return points
}

// TotalPnL sums the effective P&L over all trades. Empty input yields 0.
func TotalPnL(trades []models.Trade) float64 {
	var total float64
	for _, t := range trades {
		total += EffectivePnL(t)
	}
	return total
}

// PortfolioPerformance computes the aggregate performance report for a
// portfolio and its trades. A zero or negative initial value reports a
// return of exactly 0 rather than failing: the ratio is undefined and an
// error would break every downstream display.
func PortfolioPerformance(portfolio models.Portfolio, trades []models.Trade) PerformanceReport {
	totalPnL := TotalPnL(trades)

	var profitable, losing int
	for _, t := range trades {
		switch pnl := EffectivePnL(t); {
		case pnl > 0:
			profitable++
		case pnl < 0:
			losing++
		}
	}

	report := PerformanceReport{
		InitialValue:     portfolio.InitialValue,
		TotalPnL:         totalPnL,
		CurrentValue:     portfolio.InitialValue + totalPnL,
		TotalTrades:      len(trades),
		ProfitableTrades: profitable,
		LosingTrades:     losing,
	}
	if portfolio.InitialValue > 0 {
		report.ReturnPercentage = totalPnL / portfolio.InitialValue * 100
	}
	if len(trades) > 0 {
		report.WinRate = float64(profitable) / float64(len(trades)) * 100
	}
	return report
}

// BestWorstTrades returns the highest and lowest P&L trades. Both are nil
// for empty input; for a single trade, best and worst are the same trade.
// Among trades with equal P&L, which one surfaces is unspecified.
func BestWorstTrades(trades []models.Trade) (best, worst *RankedTrade) {
	if len(trades) == 0 {
		return nil, nil
	}

	ranked := make([]RankedTrade, len(trades))
	for i, t := range trades {
		ranked[i] = RankedTrade{Trade: t, CalculatedPnL: EffectivePnL(t)}
	}
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].CalculatedPnL > ranked[j].CalculatedPnL
	})

	return &ranked[0], &ranked[len(ranked)-1]
}

// PnLByTicker groups trades by exact ticker string and sums effective P&L
// per group. Keys are exactly the distinct tickers present in the input.
func PnLByTicker(trades []models.Trade) map[string]float64 {
	byTicker := make(map[string]float64, len(trades))
	for _, t := range trades {
		byTicker[t.Ticker] += EffectivePnL(t)
	}
	return byTicker
}

// AveragePnL returns the mean effective P&L per trade, or 0 for empty input.
func AveragePnL(trades []models.Trade) float64 {
	if len(trades) == 0 {
		return 0
	}
	return TotalPnL(trades) / float64(len(trades))
}

// monthKey is the sortable grouping key for monthly aggregation. Grouping
// and ordering use the numeric pair; month names are formatted only when
// buckets are emitted.
type monthKey struct {
	year  int
	month time.Month
}

// MonthlyPnL groups trades by calendar month and returns the buckets in
// chronological order.
func MonthlyPnL(trades []models.Trade) []MonthlyBucket {
	grouped := make(map[monthKey]*MonthlyBucket)
	for _, t := range trades {
		key := monthKey{year: t.Date.Year(), month: t.Date.Month()}
		bucket, ok := grouped[key]
		if !ok {
			bucket = &MonthlyBucket{Month: key.month.String(), Year: key.year}
			grouped[key] = bucket
		}
		bucket.TotalPnL += EffectivePnL(t)
		bucket.TradeCount++
	}

	keys := make([]monthKey, 0, len(grouped))
	for key := range grouped {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	buckets := make([]MonthlyBucket, 0, len(keys))
	for _, key := range keys {
		buckets = append(buckets, *grouped[key])
	}
	return buckets
}

// SharpeRatio computes a simplified risk-adjusted return: the mean per-trade
// P&L minus a naive daily risk-free rate, divided by the population standard
// deviation of the per-trade P&L values. It treats each trade as one return
// sample rather than time-bucketing portfolio returns. Returns 0 for fewer
// than two trades or when the standard deviation is exactly 0.
func SharpeRatio(trades []models.Trade, riskFreeRate float64) float64 {
	if len(trades) < 2 {
		return 0
	}

	returns := make([]float64, len(trades))
	var sum float64
	for i, t := range trades {
		returns[i] = EffectivePnL(t)
		sum += returns[i]
	}
	mean := sum / float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))
	stdDev := math.Sqrt(variance)

	if stdDev == 0 {
		return 0
	}

	excessReturn := mean - riskFreeRate/tradingDaysPerYear
	return excessReturn / stdDev
}
