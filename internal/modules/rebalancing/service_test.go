package rebalancing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etfdca/trader/internal/domain"
	"github.com/etfdca/trader/internal/modules/orders"
	"github.com/etfdca/trader/pkg/logger"
)

var universe = []string{"SPY", "QQQ", "VOO"}

func newTestService() *Service {
	log := logger.New(logger.Config{Level: "error"})
	return NewService(universe, 0.15, 30, orders.NewBuilder(0.05), log)
}

func TestShouldRebalance_TimeGate(t *testing.T) {
	s := newTestService()
	now := time.Now()

	holdings := domain.Holdings{"SPY": 1}
	prices := map[string]float64{"SPY": 100, "QQQ": 100, "VOO": 100}

	t.Run("never rebalanced with capital deployed", func(t *testing.T) {
		assert.True(t, s.ShouldRebalance(holdings, prices, 100, nil, now))
	})

	t.Run("never rebalanced without capital", func(t *testing.T) {
		assert.False(t, s.ShouldRebalance(domain.Holdings{}, prices, 0, nil, now))
	})

	t.Run("too recent", func(t *testing.T) {
		last := now.AddDate(0, 0, -10)
		assert.False(t, s.ShouldRebalance(holdings, prices, 100, &last, now))
	})
}

func TestShouldRebalance_ConcentrationGate(t *testing.T) {
	s := newTestService()
	now := time.Now()
	last := now.AddDate(0, 0, -31)
	prices := map[string]float64{"SPY": 100, "QQQ": 100, "VOO": 100}

	t.Run("balanced portfolio stays put", func(t *testing.T) {
		holdings := domain.Holdings{"SPY": 1, "QQQ": 1, "VOO": 1}
		assert.False(t, s.ShouldRebalance(holdings, prices, 300, &last, now))
	})

	t.Run("concentrated holding triggers", func(t *testing.T) {
		// SPY at 60% of a 3-instrument portfolio deviates 26.7pp from
		// the 33.3% target, past the 15% threshold.
		holdings := domain.Holdings{"SPY": 6, "QQQ": 2, "VOO": 2}
		assert.True(t, s.ShouldRebalance(holdings, prices, 1000, &last, now))
	})

	t.Run("empty holdings never trigger", func(t *testing.T) {
		assert.False(t, s.ShouldRebalance(domain.Holdings{}, prices, 100, &last, now))
	})

	t.Run("zero portfolio value never triggers", func(t *testing.T) {
		holdings := domain.Holdings{"SPY": 1}
		assert.False(t, s.ShouldRebalance(holdings, map[string]float64{}, 100, &last, now))
	})
}

func TestPlan_CorrectsConcentration(t *testing.T) {
	s := newTestService()

	holdings := domain.Holdings{"SPY": 6, "QQQ": 2, "VOO": 2}
	prices := map[string]float64{"SPY": 100, "QQQ": 100, "VOO": 100}

	intents := s.Plan(holdings, prices)
	require.Len(t, intents, 3)

	byInstrument := map[string]domain.OrderIntent{}
	for _, intent := range intents {
		byInstrument[intent.Symbol] = intent
	}

	// Total 1000, target ~333.33 each: sell SPY down, buy the others up
	assert.Equal(t, domain.SideSell, byInstrument["SPY"].Side)
	assert.InDelta(t, 1000.0/3-600, -byInstrument["SPY"].Amount, 0.01)
	assert.Equal(t, domain.SideBuy, byInstrument["QQQ"].Side)
	assert.InDelta(t, 1000.0/3-200, byInstrument["QQQ"].Amount, 0.01)
	assert.Equal(t, domain.SideBuy, byInstrument["VOO"].Side)

	// Buys and sells offset: the plan is value-neutral
	net := 0.0
	for _, intent := range intents {
		if intent.Side == domain.SideBuy {
			net += intent.Amount
		} else {
			net -= intent.Amount
		}
	}
	assert.InDelta(t, 0, net, 0.01)
}

func TestPlan_IdempotentOnBalancedPortfolio(t *testing.T) {
	s := newTestService()

	holdings := domain.Holdings{"SPY": 1, "QQQ": 1, "VOO": 1}
	prices := map[string]float64{"SPY": 100, "QQQ": 100, "VOO": 100}

	assert.Empty(t, s.Plan(holdings, prices))
}

func TestPlan_NoiseFloorSkipsTinyCorrections(t *testing.T) {
	s := newTestService()

	// 50 cents off target per instrument, all below the $1 floor
	holdings := domain.Holdings{"SPY": 1.005, "QQQ": 1, "VOO": 0.995}
	prices := map[string]float64{"SPY": 100, "QQQ": 100, "VOO": 100}

	assert.Empty(t, s.Plan(holdings, prices))
}

func TestPlan_ZeroValueGuard(t *testing.T) {
	s := newTestService()

	holdings := domain.Holdings{"SPY": 10}
	assert.Nil(t, s.Plan(holdings, map[string]float64{}), "no prices means the batch is abandoned")
}

func TestPlan_SkipsUnquotedInstrument(t *testing.T) {
	s := newTestService()

	holdings := domain.Holdings{"SPY": 6, "QQQ": 2, "VOO": 2}
	prices := map[string]float64{"SPY": 100, "QQQ": 100}

	intents := s.Plan(holdings, prices)
	for _, intent := range intents {
		assert.NotEqual(t, "VOO", intent.Symbol, "unquoted instrument must be skipped")
	}
}

func TestPlan_SellQuantityMatchesAmount(t *testing.T) {
	s := newTestService()

	holdings := domain.Holdings{"SPY": 6, "QQQ": 2, "VOO": 2}
	prices := map[string]float64{"SPY": 100, "QQQ": 100, "VOO": 100}

	for _, intent := range s.Plan(holdings, prices) {
		assert.InDelta(t, intent.Amount/intent.Price, intent.Quantity, 1e-9)
		assert.False(t, math.Signbit(intent.Amount), "amounts are always positive, direction is the side")
	}
}
