package momentum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etfdca/trader/internal/domain"
)

func TestSelectBest(t *testing.T) {
	scores := []domain.MomentumScore{
		{Symbol: "SPY", Score: 40},
		{Symbol: "QQQ", Score: 72},
		{Symbol: "VOO", Score: 55},
	}

	best, err := SelectBest(scores)
	require.NoError(t, err)
	assert.Equal(t, "QQQ", best.Symbol)
}

func TestSelectBest_TieResolvesToUniverseOrder(t *testing.T) {
	scores := []domain.MomentumScore{
		{Symbol: "SPY", Score: 60},
		{Symbol: "QQQ", Score: 60},
		{Symbol: "VOO", Score: 60},
	}

	// Repeated selection over identical scores must always pick the
	// first-listed instrument.
	for i := 0; i < 10; i++ {
		best, err := SelectBest(scores)
		require.NoError(t, err)
		assert.Equal(t, "SPY", best.Symbol)
	}
}

func TestSelectBest_DoesNotMutateInput(t *testing.T) {
	scores := []domain.MomentumScore{
		{Symbol: "SPY", Score: 10},
		{Symbol: "QQQ", Score: 90},
	}

	_, err := SelectBest(scores)
	require.NoError(t, err)

	assert.Equal(t, "SPY", scores[0].Symbol, "input order must be preserved")
}

func TestSelectBest_Empty(t *testing.T) {
	_, err := SelectBest(nil)
	assert.ErrorIs(t, err, domain.ErrNoValidCandidates)
}
