// Package momentum computes composite momentum scores for the instrument
// universe and selects the strongest candidate.
package momentum

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/etfdca/trader/internal/domain"
	"github.com/etfdca/trader/pkg/formulas"
)

// Lookback windows in trading days
const (
	Lookback1M = 21
	Lookback3M = 63
	Lookback6M = 126
)

// Momentum weight distribution, front-loaded toward recent performance.
// Must sum to 1.0.
const (
	Weight1M = 0.5
	Weight3M = 0.3
	Weight6M = 0.2
)

// RSI parameters
const (
	RSIPeriod     = 14
	RSIOversold   = 30
	RSIOverbought = 70
)

// Composite score adjustments
const (
	VolatilityPenaltyScale = 10.0 // Score penalty per unit of annualized volatility
	SharpeBonusScale       = 5.0  // Score bonus per unit of Sharpe
	RSIOverboughtPenalty   = 5.0
	RSINeutralBonus        = 3.0

	// HistoryBufferDays pads the longest lookback so indicator warm-up has data
	HistoryBufferDays = 20

	// MinCoverageRatio is the fraction of the requested window the retrieved
	// series must cover; sparser history fails the instrument's scoring pass.
	MinCoverageRatio = 0.7
)

// Scorer computes composite momentum scores from historical prices
type Scorer struct {
	marketData   domain.MarketDataSource
	riskFreeRate float64
	log          zerolog.Logger
}

// NewScorer creates a new momentum scorer
func NewScorer(marketData domain.MarketDataSource, riskFreeRate float64, log zerolog.Logger) *Scorer {
	return &Scorer{
		marketData:   marketData,
		riskFreeRate: riskFreeRate,
		log:          log.With().Str("component", "momentum").Logger(),
	}
}

// Score computes the composite momentum score for one instrument.
//
// The composite is a weighted sum of 1m/3m/6m returns scaled x100, minus a
// volatility penalty, plus a Sharpe bonus, plus an RSI adjustment, plus the
// sentiment adjustment, clamped to [0, 100].
func (s *Scorer) Score(symbol string, sentimentBoost float64) (domain.MomentumScore, error) {
	lookbackDays := Lookback6M + HistoryBufferDays

	end := time.Now()
	start := end.AddDate(0, 0, -lookbackDays)

	series, err := s.marketData.History(symbol, start, end)
	if err != nil {
		return domain.MomentumScore{}, fmt.Errorf("%w: history for %s: %v", domain.ErrCollaboratorUnavailable, symbol, err)
	}

	if len(series) < int(float64(lookbackDays)*MinCoverageRatio) {
		return domain.MomentumScore{}, fmt.Errorf("%w: %s has %d of %d required days",
			domain.ErrInsufficientHistory, symbol, len(series), lookbackDays)
	}

	closes := series.Closes()

	returns1M := formulas.PeriodReturn(closes, Lookback1M)
	returns3M := formulas.PeriodReturn(closes, Lookback3M)
	returns6M := formulas.PeriodReturn(closes, Lookback6M)

	dailyReturns := formulas.CalculateReturns(closes)
	volatility := formulas.AnnualizedVolatility(dailyReturns)

	sharpe := formulas.ExcessReturnSharpe(returns6M, s.riskFreeRate, volatility)

	rsi := formulas.RSIOrNeutral(closes, RSIPeriod)

	score := returns1M*Weight1M*100 +
		returns3M*Weight3M*100 +
		returns6M*Weight6M*100

	// Penalize high volatility, reward risk-adjusted strength
	score -= volatility * VolatilityPenaltyScale
	score += sharpe * SharpeBonusScale

	// RSI adjustment: penalty when overbought, small bonus in the
	// neutral-to-healthy band
	if rsi > RSIOverbought {
		score -= RSIOverboughtPenalty
	} else if rsi > RSIOversold && rsi < 60 {
		score += RSINeutralBonus
	}

	score += sentimentBoost

	score = math.Max(0, math.Min(100, score))

	result := domain.MomentumScore{
		Symbol:         symbol,
		Score:          score,
		Returns1M:      returns1M,
		Returns3M:      returns3M,
		Returns6M:      returns6M,
		Volatility:     volatility,
		SharpeRatio:    sharpe,
		RSI:            rsi,
		SentimentBoost: sentimentBoost,
		Timestamp:      time.Now(),
	}

	s.log.Info().
		Str("symbol", symbol).
		Float64("score", score).
		Float64("returns_1m", returns1M).
		Float64("returns_3m", returns3M).
		Float64("returns_6m", returns6M).
		Float64("volatility", volatility).
		Float64("sharpe", sharpe).
		Float64("rsi", rsi).
		Msg("Momentum calculated")

	return result, nil
}

// ScoreAll scores every instrument in the universe, in universe order.
// Instruments that fail scoring are skipped; an empty result means no
// instrument could be scored this pass.
func (s *Scorer) ScoreAll(universe []string, sentimentBoost float64) []domain.MomentumScore {
	scores := make([]domain.MomentumScore, 0, len(universe))

	for _, symbol := range universe {
		score, err := s.Score(symbol, sentimentBoost)
		if err != nil {
			s.log.Error().Err(err).Str("symbol", symbol).Msg("Skipping instrument, scoring failed")
			continue
		}
		scores = append(scores, score)
	}

	return scores
}
