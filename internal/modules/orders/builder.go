// Package orders builds and validates order intents. The builder only
// constructs records, it never dispatches; the validator combines local
// sanity checks with risk-gate delegation.
package orders

import (
	"fmt"
	"time"

	"github.com/etfdca/trader/internal/domain"
)

// Builder constructs order intents with stop-loss pricing
type Builder struct {
	stopLossPct float64
}

// NewBuilder creates a new order builder
func NewBuilder(stopLossPct float64) *Builder {
	return &Builder{stopLossPct: stopLossPct}
}

// BuildBuy constructs a market buy intent with a stop-loss price attached.
// quantity = amount / price; stop = price x (1 - stopLossPct).
func (b *Builder) BuildBuy(symbol string, amount, price float64, reason string) domain.OrderIntent {
	quantity := amount / price
	stopLoss := price * (1 - b.stopLossPct)

	return domain.OrderIntent{
		Symbol:    symbol,
		Side:      domain.SideBuy,
		Quantity:  quantity,
		Amount:    amount,
		Price:     price,
		OrderType: "market",
		StopLoss:  &stopLoss,
		Timestamp: time.Now(),
		Reason:    reason,
	}
}

// BuildSell constructs a market sell intent. Sells carry no stop-loss.
func (b *Builder) BuildSell(symbol string, amount, price float64, reason string) domain.OrderIntent {
	return domain.OrderIntent{
		Symbol:    symbol,
		Side:      domain.SideSell,
		Quantity:  amount / price,
		Amount:    amount,
		Price:     price,
		OrderType: "market",
		Timestamp: time.Now(),
		Reason:    reason,
	}
}

// AllocationReason describes a periodic allocation purchase
func AllocationReason(sentiment domain.Sentiment) string {
	return fmt.Sprintf("Periodic allocation purchase - %s sentiment", sentiment)
}

// RebalanceReason describes a rebalancing trade toward an equal-weight target
func RebalanceReason(targetPct float64) string {
	return fmt.Sprintf("Rebalancing - target %.1f%%", targetPct*100)
}
