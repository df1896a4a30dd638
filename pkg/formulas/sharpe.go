package formulas

import (
	"math"
)

// CalculateSharpeRatio calculates the annualized Sharpe Ratio of a return series
//
// Sharpe Ratio Formula:
//
//	Sharpe = (Mean Return - Periodic Risk-free Rate) / Standard Deviation of Returns
//	Annualized: Sharpe x sqrt(252) for daily returns
//
// Args:
//
//	returns: Array of periodic returns (daily, monthly, etc.)
//	riskFreeRate: Risk-free rate (annual, as decimal, e.g., 0.04 for 4%)
//	periodsPerYear: Number of periods per year (252 for daily, 12 for monthly)
//
// Returns:
//
//	Sharpe ratio or nil if the series has fewer than 2 points or zero variance
func CalculateSharpeRatio(returns []float64, riskFreeRate float64, periodsPerYear int) *float64 {
	if len(returns) < 2 {
		return nil
	}

	meanReturn := Mean(returns)

	stdDev := StdDev(returns)
	if stdDev == 0 {
		return nil
	}

	periodicRiskFree := riskFreeRate / float64(periodsPerYear)

	sharpe := (meanReturn - periodicRiskFree) / stdDev

	annualizedSharpe := sharpe * math.Sqrt(float64(periodsPerYear))

	return &annualizedSharpe
}

// ExcessReturnSharpe calculates a Sharpe-like ratio from a single period return
// and an annualized volatility figure. Used by the momentum scorer where the
// "return" is the longest lookback-window return rather than a series.
//
// Defined as 0 when volatility is 0 (no division by zero).
func ExcessReturnSharpe(periodReturn, riskFreeRate, volatility float64) float64 {
	if volatility <= 0 {
		return 0
	}
	return (periodReturn - riskFreeRate) / volatility
}
