package formulas

import (
	"github.com/markcheno/go-talib"
)

// CalculateRSI calculates the Relative Strength Index
//
// RSI Formula:
//   RSI = 100 - (100 / (1 + RS))
//   where RS = Average Gain / Average Loss over N periods
//
// Args:
//   closes: Array of closing prices
//   length: RSI period (typically 14)
//
// Returns:
//   Current RSI value (0-100) or nil if insufficient data
func CalculateRSI(closes []float64, length int) *float64 {
	if len(closes) < length+1 {
		return nil
	}

	// A flat window has zero average gain and loss; RS is undefined and
	// talib reports 0, which would read as deeply oversold.
	if isFlat(closes[len(closes)-length-1:]) {
		return nil
	}

	rsi := talib.Rsi(closes, length)

	// Return the last value
	if len(rsi) > 0 && !isNaN(rsi[len(rsi)-1]) {
		result := rsi[len(rsi)-1]
		return &result
	}

	return nil
}

// RSIOrNeutral calculates RSI but falls back to the neutral midpoint (50)
// when the value is undefined: too little data, or a flat series where the
// average loss is zero and RS has no meaning.
func RSIOrNeutral(closes []float64, length int) float64 {
	if rsi := CalculateRSI(closes, length); rsi != nil {
		return *rsi
	}
	return 50.0
}

// isNaN checks if a float64 is NaN
func isNaN(f float64) bool {
	return f != f
}

// isFlat reports whether every value in the window is identical
func isFlat(values []float64) bool {
	for i := 1; i < len(values); i++ {
		if values[i] != values[0] {
			return false
		}
	}
	return true
}
