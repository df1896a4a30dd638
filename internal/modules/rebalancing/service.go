// Package rebalancing decides when the portfolio has drifted from its
// equal-weight target and plans the corrective trades.
package rebalancing

import (
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/etfdca/trader/internal/domain"
	"github.com/etfdca/trader/internal/modules/orders"
)

// Defaults for the rebalance gates
const (
	// DefaultThreshold is the concentration deviation from the equal-weight
	// target that makes a rebalance due.
	DefaultThreshold = 0.15

	// DefaultFrequencyDays is the minimum days between rebalances.
	DefaultFrequencyDays = 30

	// NoiseFloor is the absolute value difference below which a per-instrument
	// correction is skipped. Prevents churn on negligible deltas.
	NoiseFloor = 1.0
)

// Service evaluates rebalance triggers and plans corrective order intents
type Service struct {
	universe      []string
	threshold     float64
	frequencyDays int
	builder       *orders.Builder
	log           zerolog.Logger
}

// NewService creates a new rebalancing service
func NewService(universe []string, threshold float64, frequencyDays int, builder *orders.Builder, log zerolog.Logger) *Service {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if frequencyDays <= 0 {
		frequencyDays = DefaultFrequencyDays
	}

	return &Service{
		universe:      universe,
		threshold:     threshold,
		frequencyDays: frequencyDays,
		builder:       builder,
		log:           log.With().Str("service", "rebalancing").Logger(),
	}
}

// ShouldRebalance evaluates the two trigger gates:
//
//   - Time gate: capital deployed but never rebalanced -> due; otherwise at
//     least frequencyDays must have passed since the last rebalance.
//   - Concentration gate: any holding's portfolio share deviating from the
//     equal-weight target (1/N) by more than the threshold.
func (s *Service) ShouldRebalance(
	holdings domain.Holdings,
	prices map[string]float64,
	totalInvested float64,
	lastRebalance *time.Time,
	now time.Time,
) bool {
	if lastRebalance == nil {
		if totalInvested > 0 {
			s.log.Info().Msg("Capital deployed but never rebalanced, rebalance due")
			return true
		}
		return false
	}

	daysSince := int(now.Sub(*lastRebalance).Hours() / 24)
	if daysSince < s.frequencyDays {
		s.log.Debug().
			Int("days_since", daysSince).
			Int("required", s.frequencyDays).
			Msg("Rebalance not due yet")
		return false
	}

	if len(holdings) == 0 {
		return false
	}

	totalValue := holdings.Value(prices)
	if totalValue == 0 {
		return false
	}

	target := 1.0 / float64(len(s.universe))
	maxDeviation := 0.0

	for symbol, qty := range holdings {
		price, ok := prices[symbol]
		if !ok || price <= 0 {
			continue
		}

		share := qty * price / totalValue
		if deviation := math.Abs(share - target); deviation > maxDeviation {
			maxDeviation = deviation
		}
	}

	if maxDeviation > s.threshold {
		s.log.Info().
			Float64("max_deviation", maxDeviation).
			Float64("threshold", s.threshold).
			Float64("target", target).
			Msg("Concentration deviation exceeds threshold, rebalance due")
		return true
	}

	s.log.Info().
		Float64("max_deviation", maxDeviation).
		Float64("threshold", s.threshold).
		Msg("Rebalance not needed")
	return false
}

// Plan computes the corrective order intents that bring every instrument in
// the universe to its equal-weight target value.
//
// Instruments whose value gap is below the noise floor are skipped. If the
// total portfolio value cannot be determined the whole batch is abandoned
// (zero-value guard) and no intents are produced.
func (s *Service) Plan(holdings domain.Holdings, prices map[string]float64) []domain.OrderIntent {
	totalValue := holdings.Value(prices)
	if totalValue == 0 {
		s.log.Warn().Msg("Portfolio value is zero, cannot rebalance")
		return nil
	}

	target := 1.0 / float64(len(s.universe))
	targetValue := totalValue * target

	s.log.Info().
		Float64("total_value", totalValue).
		Float64("target_value_per_instrument", targetValue).
		Msg("Planning rebalance")

	var intents []domain.OrderIntent

	for _, symbol := range s.universe {
		price, ok := prices[symbol]
		if !ok || price <= 0 {
			s.log.Warn().Str("symbol", symbol).Msg("No price for instrument, skipping in rebalance")
			continue
		}

		currentValue := holdings[symbol] * price
		diff := targetValue - currentValue

		if math.Abs(diff) < NoiseFloor {
			continue
		}

		reason := orders.RebalanceReason(target)

		var intent domain.OrderIntent
		if diff > 0 {
			intent = s.builder.BuildBuy(symbol, diff, price, reason)
		} else {
			intent = s.builder.BuildSell(symbol, -diff, price, reason)
		}

		s.log.Info().
			Str("symbol", symbol).
			Str("side", string(intent.Side)).
			Float64("amount", intent.Amount).
			Float64("quantity", intent.Quantity).
			Msg("Rebalance intent planned")

		intents = append(intents, intent)
	}

	return intents
}
