package performance

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etfdca/trader/internal/domain"
	"github.com/etfdca/trader/pkg/logger"
)

func newTestTracker() *Tracker {
	return NewTracker(0.04, logger.New(logger.Config{Level: "error"}))
}

func TestRecordPeriodValue_FirstObservationSeedsBaseline(t *testing.T) {
	tr := newTestTracker()

	tr.RecordPeriodValue(1000)
	assert.Empty(t, tr.Returns(), "first value only seeds the baseline")

	tr.RecordPeriodValue(1100)
	returns := tr.Returns()
	require.Len(t, returns, 1)
	assert.InDelta(t, 0.10, returns[0], 1e-9)
}

func TestCompute_EmptyState(t *testing.T) {
	tr := newTestTracker()

	m := tr.Compute(0, 0, nil, time.Now())

	assert.Equal(t, 0.0, m.TotalReturn)
	assert.Equal(t, 0.0, m.TotalReturnPct)
	assert.Equal(t, 0.0, m.SharpeRatio, "Sharpe defaults to 0 when undefined")
	assert.Equal(t, 0.0, m.MaxDrawdown)
	assert.Equal(t, 0.0, m.AnnualizedReturn)
	assert.Equal(t, 0, m.NumTrades)
}

func TestCompute_TotalReturn(t *testing.T) {
	tr := newTestTracker()

	m := tr.Compute(600, 660, nil, time.Now())

	assert.InDelta(t, 60.0, m.TotalReturn, 1e-9)
	assert.InDelta(t, 10.0, m.TotalReturnPct, 1e-9)
}

func TestCompute_AnnualizedReturn(t *testing.T) {
	tr := newTestTracker()
	now := time.Now()

	trades := []domain.OrderIntent{
		{Symbol: "SPY", Amount: 100, Timestamp: now.AddDate(-1, 0, 0)},
	}

	// 10% over roughly one year annualizes near 10%
	m := tr.Compute(1000, 1100, trades, now)

	assert.InDelta(t, 10.0, m.AnnualizedReturn, 0.2)
	assert.InDelta(t, 365, float64(m.HoldingPeriodDays), 1.5)
}

func TestCompute_HoldingPeriodUsesEarliestTrade(t *testing.T) {
	tr := newTestTracker()
	now := time.Now()

	trades := []domain.OrderIntent{
		{Amount: 6, Timestamp: now.AddDate(0, 0, -10)},
		{Amount: 6, Timestamp: now.AddDate(0, 0, -90)},
		{Amount: 6, Timestamp: now.AddDate(0, 0, -40)},
	}

	m := tr.Compute(18, 20, trades, now)
	assert.Equal(t, 90, m.HoldingPeriodDays)
	assert.InDelta(t, 6.0, m.AverageTradeSize, 1e-9)
	assert.Equal(t, 3, m.NumTrades)
}

func TestCompute_MaxDrawdownIsPositive(t *testing.T) {
	tr := newTestTracker()

	values := []float64{1000, 1100, 880, 990}
	for _, v := range values {
		tr.RecordPeriodValue(v)
	}

	m := tr.Compute(1000, 990, nil, time.Now())

	// 1100 -> 880 is a 20% drawdown, reported positive
	assert.InDelta(t, 20.0, m.MaxDrawdown, 1e-9)
	assert.GreaterOrEqual(t, m.MaxDrawdown, 0.0)
}

func TestCompute_WinRate(t *testing.T) {
	tr := newTestTracker()

	for _, v := range []float64{1000, 1100, 1050, 1150, 1200} {
		tr.RecordPeriodValue(v)
	}

	m := tr.Compute(1000, 1200, nil, time.Now())

	// 3 up periods of 4
	assert.InDelta(t, 75.0, m.WinRate, 1e-9)
}

func TestCompute_SharpeFinite(t *testing.T) {
	tr := newTestTracker()

	for _, v := range []float64{1000, 1010, 1005, 1025, 1030} {
		tr.RecordPeriodValue(v)
	}

	m := tr.Compute(1000, 1030, nil, time.Now())

	assert.False(t, math.IsNaN(m.SharpeRatio))
	assert.False(t, math.IsInf(m.SharpeRatio, 0))
	assert.NotEqual(t, 0.0, m.SharpeRatio)
}

func TestCompute_IsIdempotent(t *testing.T) {
	tr := newTestTracker()
	now := time.Now()

	for _, v := range []float64{1000, 1100, 900} {
		tr.RecordPeriodValue(v)
	}

	trades := []domain.OrderIntent{{Amount: 6, Timestamp: now.AddDate(0, 0, -30)}}

	first := tr.Compute(600, 900, trades, now)
	second := tr.Compute(600, 900, trades, now)

	assert.Equal(t, first, second, "recomputing over unchanged state must not drift")
}

func TestReturnsCopyIsIndependent(t *testing.T) {
	tr := newTestTracker()
	tr.RecordPeriodValue(1000)
	tr.RecordPeriodValue(1100)

	returns := tr.Returns()
	returns[0] = 99

	assert.InDelta(t, 0.10, tr.Returns()[0], 1e-9)
}
