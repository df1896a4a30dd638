package formulas

import (
	"math"
	"testing"
)

func TestPeriodReturn(t *testing.T) {
	tests := []struct {
		name    string
		prices  []float64
		periods int
		want    float64
	}{
		{
			name:    "simple gain over full window",
			prices:  []float64{100, 105, 110},
			periods: 2,
			want:    0.10,
		},
		{
			name:    "window degrades to available history",
			prices:  []float64{100, 110},
			periods: 21,
			want:    0.10,
		},
		{
			name:    "single price has no return",
			prices:  []float64{100},
			periods: 21,
			want:    0,
		},
		{
			name:    "empty series",
			prices:  []float64{},
			periods: 21,
			want:    0,
		},
		{
			name:    "loss",
			prices:  []float64{100, 95, 90},
			periods: 2,
			want:    -0.10,
		},
		{
			name:    "zero start price",
			prices:  []float64{0, 100},
			periods: 1,
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PeriodReturn(tt.prices, tt.periods)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PeriodReturn(%v, %d) = %v, want %v", tt.prices, tt.periods, got, tt.want)
			}
		})
	}
}

func TestCalculateReturns(t *testing.T) {
	prices := []float64{100, 110, 99}
	returns := CalculateReturns(prices)

	if len(returns) != 2 {
		t.Fatalf("Expected 2 returns, got %d", len(returns))
	}

	if math.Abs(returns[0]-0.10) > 1e-9 {
		t.Errorf("Expected first return 0.10, got %v", returns[0])
	}

	if math.Abs(returns[1]-(-0.10)) > 1e-9 {
		t.Errorf("Expected second return -0.10, got %v", returns[1])
	}
}

func TestCalculateReturns_TooShort(t *testing.T) {
	if got := CalculateReturns([]float64{100}); len(got) != 0 {
		t.Errorf("Expected empty returns for single price, got %v", got)
	}
}

func TestAnnualizedVolatility_FlatSeries(t *testing.T) {
	returns := []float64{0, 0, 0, 0}
	if got := AnnualizedVolatility(returns); got != 0 {
		t.Errorf("Expected zero volatility for flat returns, got %v", got)
	}
}

func TestCalculateSharpeRatio(t *testing.T) {
	// Constant positive returns have zero std dev: Sharpe undefined
	if got := CalculateSharpeRatio([]float64{0.01, 0.01, 0.01}, 0.04, 252); got != nil {
		t.Errorf("Expected nil Sharpe for zero-variance series, got %v", *got)
	}

	// Fewer than 2 points: undefined
	if got := CalculateSharpeRatio([]float64{0.01}, 0.04, 252); got != nil {
		t.Errorf("Expected nil Sharpe for single point, got %v", *got)
	}

	// Mixed series: defined and finite
	got := CalculateSharpeRatio([]float64{0.01, -0.005, 0.02, 0.003}, 0.04, 252)
	if got == nil {
		t.Fatal("Expected Sharpe ratio, got nil")
	}
	if math.IsNaN(*got) || math.IsInf(*got, 0) {
		t.Errorf("Expected finite Sharpe, got %v", *got)
	}
}

func TestExcessReturnSharpe(t *testing.T) {
	if got := ExcessReturnSharpe(0.10, 0.04, 0); got != 0 {
		t.Errorf("Expected 0 for zero volatility, got %v", got)
	}

	got := ExcessReturnSharpe(0.10, 0.04, 0.12)
	want := (0.10 - 0.04) / 0.12
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestCalculateMaxDrawdown(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{
			name:   "single peak and trough",
			values: []float64{100, 120, 90, 110},
			want:   0.25, // 120 -> 90
		},
		{
			name:   "monotonic rise has no drawdown",
			values: []float64{100, 110, 120},
			want:   0,
		},
		{
			name:   "full round trip",
			values: []float64{100, 50, 100},
			want:   0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateMaxDrawdown(tt.values)
			if got == nil {
				t.Fatal("Expected drawdown, got nil")
			}
			if math.Abs(*got-tt.want) > 1e-9 {
				t.Errorf("Expected %v, got %v", tt.want, *got)
			}
		})
	}

	if got := CalculateMaxDrawdown([]float64{100}); got != nil {
		t.Errorf("Expected nil for short series, got %v", *got)
	}
}

func TestMaxDrawdownFromReturns(t *testing.T) {
	// A -20% period then recovery: drawdown is 20%
	got := MaxDrawdownFromReturns([]float64{0.10, -0.20, 0.15})
	if math.Abs(got-0.20) > 1e-9 {
		t.Errorf("Expected 0.20, got %v", got)
	}

	// All-positive returns: zero drawdown, never negative
	if got := MaxDrawdownFromReturns([]float64{0.01, 0.02}); got != 0 {
		t.Errorf("Expected 0 drawdown for positive returns, got %v", got)
	}

	if got := MaxDrawdownFromReturns(nil); got != 0 {
		t.Errorf("Expected 0 for empty series, got %v", got)
	}
}

func TestCalculateRSI_InsufficientData(t *testing.T) {
	closes := []float64{100, 101, 102}
	if got := CalculateRSI(closes, 14); got != nil {
		t.Errorf("Expected nil RSI for short series, got %v", *got)
	}
}

func TestCalculateRSI_Uptrend(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	rsi := CalculateRSI(closes, 14)
	if rsi == nil {
		t.Fatal("Expected RSI, got nil")
	}
	if *rsi < 90 {
		t.Errorf("Expected RSI near 100 for a pure uptrend, got %v", *rsi)
	}
}

func TestRSIOrNeutral_FlatSeries(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100
	}

	// Flat series: RS undefined, falls back to the neutral midpoint
	if got := RSIOrNeutral(closes, 14); got != 50 {
		t.Errorf("Expected neutral 50 for flat series, got %v", got)
	}
}

func TestMean(t *testing.T) {
	if got := Mean([]float64{1, 2, 3}); math.Abs(got-2) > 1e-9 {
		t.Errorf("Expected 2, got %v", got)
	}
	if got := Mean(nil); got != 0 {
		t.Errorf("Expected 0 for empty, got %v", got)
	}
}
