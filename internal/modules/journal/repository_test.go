package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etfdca/trader/internal/database"
	"github.com/etfdca/trader/internal/domain"
	"github.com/etfdca/trader/pkg/logger"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := database.NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate())

	return NewRepository(db.Conn(), logger.New(logger.Config{Level: "error"}))
}

func TestRecordTrade(t *testing.T) {
	repo := newTestRepository(t)

	stop := 427.5
	order := domain.OrderIntent{
		Symbol:    "SPY",
		Side:      domain.SideBuy,
		Quantity:  0.0133,
		Amount:    6.0,
		Price:     450.0,
		OrderType: "market",
		StopLoss:  &stop,
		Timestamp: time.Now().UTC().Truncate(time.Second),
		Reason:    "Periodic allocation purchase - neutral sentiment",
	}

	require.NoError(t, repo.RecordTrade(order))

	trades, err := repo.RecentTrades(10)
	require.NoError(t, err)
	require.Len(t, trades, 1)

	got := trades[0]
	assert.Equal(t, "SPY", got.Symbol)
	assert.Equal(t, domain.SideBuy, got.Side)
	assert.Equal(t, 6.0, got.Amount)
	require.NotNil(t, got.StopLoss)
	assert.Equal(t, 427.5, *got.StopLoss)
}

func TestRecordTrade_NoStopLoss(t *testing.T) {
	repo := newTestRepository(t)

	order := domain.OrderIntent{
		Symbol:    "QQQ",
		Side:      domain.SideSell,
		Quantity:  0.1,
		Amount:    40.0,
		Price:     400.0,
		OrderType: "market",
		Timestamp: time.Now().UTC(),
		Reason:    "Rebalancing - target 33.3%",
	}

	require.NoError(t, repo.RecordTrade(order))

	trades, err := repo.RecentTrades(10)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Nil(t, trades[0].StopLoss)
}

func TestRecentTrades_NewestFirstWithLimit(t *testing.T) {
	repo := newTestRepository(t)

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 5; i++ {
		order := domain.OrderIntent{
			Symbol:    "SPY",
			Side:      domain.SideBuy,
			Quantity:  1,
			Amount:    float64(i + 1),
			Price:     100,
			OrderType: "market",
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Reason:    "test",
		}
		require.NoError(t, repo.RecordTrade(order))
	}

	trades, err := repo.RecentTrades(3)
	require.NoError(t, err)
	require.Len(t, trades, 3)

	assert.Equal(t, 5.0, trades[0].Amount, "newest entry first")
	assert.Equal(t, 3.0, trades[2].Amount)
}

func TestRecordScore(t *testing.T) {
	repo := newTestRepository(t)

	score := domain.MomentumScore{
		Symbol:         "VOO",
		Score:          61.5,
		Returns1M:      0.03,
		Returns3M:      0.07,
		Returns6M:      0.12,
		Volatility:     0.14,
		SharpeRatio:    0.57,
		RSI:            54.2,
		SentimentBoost: 5,
		Timestamp:      time.Now().UTC().Truncate(time.Second),
	}

	require.NoError(t, repo.RecordScore(score))

	scores, err := repo.RecentScores(10)
	require.NoError(t, err)
	require.Len(t, scores, 1)

	got := scores[0]
	assert.Equal(t, "VOO", got.Symbol)
	assert.Equal(t, 61.5, got.Score)
	assert.Equal(t, 5.0, got.SentimentBoost)
}

func TestRecentScores_Empty(t *testing.T) {
	repo := newTestRepository(t)

	scores, err := repo.RecentScores(10)
	require.NoError(t, err)
	assert.Empty(t, scores)
}
