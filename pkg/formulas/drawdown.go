package formulas

// CalculateMaxDrawdown calculates the maximum peak-to-trough decline of a
// value series.
//
// Drawdown Formula:
//   Drawdown = (Peak Value - Current Value) / Peak Value
//   Max Drawdown = Maximum of all drawdowns
//
// Args:
//   values: Array of values (prices or cumulative portfolio values)
//
// Returns:
//   Maximum drawdown as positive fraction (0.25 = 25% loss from peak) or nil
func CalculateMaxDrawdown(values []float64) *float64 {
	if len(values) < 2 {
		return nil
	}

	maxDrawdown := 0.0
	peak := values[0]

	for _, v := range values {
		if v > peak {
			peak = v
		}

		if peak > 0 {
			drawdown := (peak - v) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}

	return &maxDrawdown
}

// MaxDrawdownFromReturns calculates max drawdown from a periodic return
// series by first compounding it into a cumulative curve.
//
// Always >= 0; 0 when the return series is monotonically non-negative or has
// fewer than 1 point.
func MaxDrawdownFromReturns(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	cumulative := make([]float64, len(returns)+1)
	cumulative[0] = 1.0
	for i, r := range returns {
		cumulative[i+1] = cumulative[i] * (1 + r)
	}

	if dd := CalculateMaxDrawdown(cumulative); dd != nil {
		return *dd
	}
	return 0
}

// CalculateMomentum calculates price momentum over a period
// Returns percentage change over the period
func CalculateMomentum(prices []float64, days int) *float64 {
	if len(prices) < days+1 {
		return nil
	}

	startPrice := prices[len(prices)-days-1]
	endPrice := prices[len(prices)-1]

	if startPrice == 0 {
		return nil
	}

	momentum := (endPrice - startPrice) / startPrice
	return &momentum
}

// PeriodReturn calculates the return over the last `periods` observations,
// degrading the window to the available history when the series is shorter
// than requested. Never indexes before the start of the series.
//
// Returns 0 when fewer than 2 observations are available.
func PeriodReturn(prices []float64, periods int) float64 {
	if len(prices) < periods+1 {
		periods = len(prices) - 1
	}

	if periods <= 0 {
		return 0
	}

	startPrice := prices[len(prices)-1-periods]
	endPrice := prices[len(prices)-1]

	if startPrice == 0 {
		return 0
	}

	return (endPrice - startPrice) / startPrice
}
