package orders

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/etfdca/trader/internal/domain"
)

// AllocationTolerance is the fraction by which a trade's notional may exceed
// the per-period allocation before it is rejected locally.
const AllocationTolerance = 0.10

// Validator checks order intents before dispatch
type Validator struct {
	allocation float64
	riskGate   domain.RiskGate
	log        zerolog.Logger
}

// NewValidator creates a new trade validator. riskGate may be nil, in which
// case only local checks apply.
func NewValidator(allocation float64, riskGate domain.RiskGate, log zerolog.Logger) *Validator {
	return &Validator{
		allocation: allocation,
		riskGate:   riskGate,
		log:        log.With().Str("component", "validator").Logger(),
	}
}

// Validate runs local checks then delegates to the risk gate. A nil return
// means the trade may be dispatched.
//
// Risk-gate errors fall through to local-only validation (fail open). The
// original system made the same choice for this low-severity tier; it is a
// policy decision, kept as an explicit logged branch rather than hidden.
func (v *Validator) Validate(intent domain.OrderIntent, sentimentBoost, accountValue, dailyPL float64) error {
	// Local check: notional must stay within the period allocation
	if intent.Side == domain.SideBuy && intent.Amount > v.allocation*(1+AllocationTolerance) {
		return fmt.Errorf("%w: $%.2f against allocation $%.2f",
			domain.ErrAllocationExceeded, intent.Amount, v.allocation)
	}

	if v.riskGate == nil {
		return nil
	}

	// Sentiment adjustment is on a +/-10 scale; the gate expects [-1, 1]
	verdict, err := v.riskGate.ValidateTrade(domain.TradeRequest{
		Symbol:         intent.Symbol,
		Amount:         intent.Amount,
		SentimentScore: sentimentBoost / 10.0,
		AccountValue:   accountValue,
		Side:           intent.Side,
	})
	if err != nil {
		v.log.Error().Err(err).Msg("Risk gate unreachable, falling through to local-only validation")
		return nil
	}

	if !verdict.Valid {
		return fmt.Errorf("%w: %s", domain.ErrRiskGateRejected, verdict.Reason)
	}

	for _, warning := range verdict.Warnings {
		v.log.Warn().Str("symbol", intent.Symbol).Str("warning", warning).Msg("Risk gate warning")
	}

	// Circuit breaker overrides the trade-specific verdict
	allowed, err := v.riskGate.CanTrade(accountValue, dailyPL)
	if err != nil {
		v.log.Error().Err(err).Msg("Circuit breaker check failed, falling through to local-only validation")
		return nil
	}
	if !allowed {
		return fmt.Errorf("%w: trading suspended by circuit breaker", domain.ErrRiskGateRejected)
	}

	return nil
}
