// Package performance keeps the running return series and derives the
// strategy's performance metrics from it.
package performance

import (
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/etfdca/trader/internal/domain"
	"github.com/etfdca/trader/pkg/formulas"
)

// Metrics is the derived performance summary. Every field is a pure
// function of the tracker's stored state; recomputing is idempotent.
type Metrics struct {
	TotalInvested     float64    `json:"total_invested"`
	CurrentValue      float64    `json:"current_value"`
	TotalReturn       float64    `json:"total_return"`
	TotalReturnPct    float64    `json:"total_return_pct"`
	AnnualizedReturn  float64    `json:"annualized_return"`
	SharpeRatio       float64    `json:"sharpe_ratio"`
	MaxDrawdown       float64    `json:"max_drawdown"` // Positive percentage
	WinRate           float64    `json:"win_rate"`
	NumTrades         int        `json:"num_trades"`
	AverageTradeSize  float64    `json:"average_trade_size"`
	HoldingPeriodDays int        `json:"holding_period_days"`
	LastRebalance     *time.Time `json:"last_rebalance,omitempty"`
}

// Tracker records per-period portfolio values and the resulting returns
type Tracker struct {
	riskFreeRate float64
	returns      []float64
	lastValue    float64
	log          zerolog.Logger
}

// NewTracker creates a new performance tracker
func NewTracker(riskFreeRate float64, log zerolog.Logger) *Tracker {
	return &Tracker{
		riskFreeRate: riskFreeRate,
		log:          log.With().Str("component", "performance").Logger(),
	}
}

// RecordPeriodValue records the end-of-period portfolio value. A return is
// only appended when a previous value exists; the first observation just
// seeds the baseline.
func (t *Tracker) RecordPeriodValue(currentValue float64) {
	if t.lastValue > 0 {
		periodReturn := (currentValue - t.lastValue) / t.lastValue
		t.returns = append(t.returns, periodReturn)

		t.log.Info().
			Float64("period_return_pct", periodReturn*100).
			Float64("value", currentValue).
			Msg("Period return recorded")
	}

	t.lastValue = currentValue
}

// Returns returns a copy of the recorded return series
func (t *Tracker) Returns() []float64 {
	out := make([]float64, len(t.returns))
	copy(out, t.returns)
	return out
}

// Compute derives metrics from the stored return series plus the strategy's
// trade log and capital figures.
func (t *Tracker) Compute(totalInvested, currentValue float64, trades []domain.OrderIntent, now time.Time) Metrics {
	m := Metrics{
		TotalInvested: totalInvested,
		CurrentValue:  currentValue,
		TotalReturn:   currentValue - totalInvested,
		NumTrades:     len(trades),
	}

	if totalInvested > 0 {
		m.TotalReturnPct = m.TotalReturn / totalInvested * 100
	}

	// Holding period from the first trade
	if len(trades) > 0 {
		first := trades[0].Timestamp
		for _, trade := range trades[1:] {
			if trade.Timestamp.Before(first) {
				first = trade.Timestamp
			}
		}
		m.HoldingPeriodDays = int(now.Sub(first).Hours() / 24)
	}

	// Annualized return, geometric
	if m.HoldingPeriodDays > 0 && totalInvested > 0 && currentValue > 0 {
		years := float64(m.HoldingPeriodDays) / 365.25
		m.AnnualizedReturn = (math.Pow(currentValue/totalInvested, 1/years) - 1) * 100
	}

	// Sharpe over the return series; 0 when undefined
	if sharpe := formulas.CalculateSharpeRatio(t.returns, t.riskFreeRate, formulas.TradingDaysPerYear); sharpe != nil {
		m.SharpeRatio = *sharpe
	}

	m.MaxDrawdown = formulas.MaxDrawdownFromReturns(t.returns) * 100

	if len(t.returns) > 0 {
		wins := 0
		for _, r := range t.returns {
			if r > 0 {
				wins++
			}
		}
		m.WinRate = float64(wins) / float64(len(t.returns)) * 100
	}

	if len(trades) > 0 {
		totalNotional := 0.0
		for _, trade := range trades {
			totalNotional += trade.Amount
		}
		m.AverageTradeSize = totalNotional / float64(len(trades))
	}

	return m
}
