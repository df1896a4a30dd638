package domain

import "time"

// MarketDataSource supplies historical and current prices.
// May return fewer points than requested; an empty series signals failure
// upstream, which the momentum scorer treats as insufficient history.
type MarketDataSource interface {
	// History returns the daily close series for [start, end], ascending.
	History(symbol string, start, end time.Time) (PriceSeries, error)

	// LatestPrice returns the most recent price for a symbol
	LatestPrice(symbol string) (float64, error)
}

// SentimentService turns qualitative market signals into a numeric outlook.
// Callers must treat any error as "sentiment unavailable" and fall back to
// neutral; sentiment absence must never block a momentum run.
type SentimentService interface {
	Outlook() (*MarketOutlook, error)
}

// RiskGate enforces per-trade and account-wide risk limits, including
// circuit breakers derived from realized daily P&L.
type RiskGate interface {
	// ValidateTrade checks a proposed trade against risk limits
	ValidateTrade(req TradeRequest) (*TradeValidation, error)

	// CanTrade reports whether account-wide circuit breakers allow trading
	CanTrade(accountValue, dailyPL float64) (bool, error)

	// ResetPeriodCounters resets per-period risk counters (e.g. daily loss)
	ResetPeriodCounters() error
}

// BrokerClient executes orders and reports account state.
// All operations are synchronous round-trips bounded by the client's own
// timeout policy.
type BrokerClient interface {
	// Execute places a notional market order and returns the broker's ack
	Execute(symbol string, notional float64, side Side) (*OrderResult, error)

	// SetStopLoss attaches a stop order to a position
	SetStopLoss(symbol string, quantity, stopPrice float64) error

	// AccountInfo returns the account snapshot
	AccountInfo() (*AccountInfo, error)

	// Positions returns the broker's view of open positions
	Positions() ([]BrokerPosition, error)

	// CancelAllOrders cancels all pending orders, returning the count
	CancelAllOrders() (int, error)
}
