package domain

import "time"

// Side represents a trade direction
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Sentiment represents the discretized market mood derived from the
// sentiment service's continuous score.
type Sentiment string

const (
	SentimentVeryBullish Sentiment = "very_bullish"
	SentimentBullish     Sentiment = "bullish"
	SentimentNeutral     Sentiment = "neutral"
	SentimentBearish     Sentiment = "bearish"
	SentimentVeryBearish Sentiment = "very_bearish"
)

// sentimentAdjustments is the closed mapping from mood level to momentum
// score adjustment. Unknown levels map to 0 (neutral).
var sentimentAdjustments = map[Sentiment]float64{
	SentimentVeryBullish: 10.0,
	SentimentBullish:     5.0,
	SentimentNeutral:     0.0,
	SentimentBearish:     -5.0,
	SentimentVeryBearish: -10.0,
}

// Adjustment returns the fixed momentum score adjustment for this level.
func (s Sentiment) Adjustment() float64 {
	return sentimentAdjustments[s]
}

// PricePoint is a single (timestamp, close) observation
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries is an ordered daily close series, ascending by date.
// Produced by the market-data source; read-only to the strategy.
type PriceSeries []PricePoint

// Closes returns the close prices as a plain slice for the math helpers.
func (ps PriceSeries) Closes() []float64 {
	closes := make([]float64, len(ps))
	for i, p := range ps {
		closes[i] = p.Close
	}
	return closes
}

// MomentumScore is the result of one scoring pass for one instrument.
// Created fresh on every pass, never mutated, appended to the score history.
type MomentumScore struct {
	Symbol         string    `json:"symbol"`
	Score          float64   `json:"score"` // Composite 0-100, clamped
	Returns1M      float64   `json:"returns_1m"`
	Returns3M      float64   `json:"returns_3m"`
	Returns6M      float64   `json:"returns_6m"`
	Volatility     float64   `json:"volatility"` // Annualized
	SharpeRatio    float64   `json:"sharpe_ratio"`
	RSI            float64   `json:"rsi"`
	SentimentBoost float64   `json:"sentiment_boost"`
	Timestamp      time.Time `json:"timestamp"`
}

// OrderIntent is a fully specified buy/sell intention. It is immutable once
// built; the broker client consumes it, and successful dispatches append it
// to the trade log.
type OrderIntent struct {
	Symbol    string    `json:"symbol"`
	Side      Side      `json:"side"`
	Quantity  float64   `json:"quantity"` // Fractional shares allowed
	Amount    float64   `json:"amount"`   // Notional value
	Price     float64   `json:"price"`    // Reference price at build time
	OrderType string    `json:"order_type"`
	StopLoss  *float64  `json:"stop_loss,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Reason    string    `json:"reason"`
}

// Holdings maps symbol -> quantity held. Single-writer: only the strategy
// pipeline mutates it, sequentially.
type Holdings map[string]float64

// Apply adds a signed quantity delta for a symbol, removing the entry when
// the resulting quantity is not positive.
func (h Holdings) Apply(symbol string, delta float64) {
	h[symbol] += delta
	if h[symbol] <= 0 {
		delete(h, symbol)
	}
}

// Copy returns an independent copy of the holdings map.
func (h Holdings) Copy() Holdings {
	out := make(Holdings, len(h))
	for symbol, qty := range h {
		out[symbol] = qty
	}
	return out
}

// Value prices the holdings with the given quote map. Symbols without a
// quote contribute nothing.
func (h Holdings) Value(prices map[string]float64) float64 {
	total := 0.0
	for symbol, qty := range h {
		if price, ok := prices[symbol]; ok && price > 0 {
			total += qty * price
		}
	}
	return total
}

// MarketOutlook is the sentiment service's view of the market
type MarketOutlook struct {
	OverallSentiment float64  `json:"overall_sentiment"` // [-1, 1]
	Trend            string   `json:"trend"`
	KeyDrivers       []string `json:"key_drivers"`
}

// TradeValidation is the risk gate's verdict on a proposed trade
type TradeValidation struct {
	Valid    bool     `json:"valid"`
	Reason   string   `json:"reason"`
	Warnings []string `json:"warnings"`
}

// TradeRequest describes a proposed trade for risk-gate validation
type TradeRequest struct {
	Symbol         string  `json:"symbol"`
	Amount         float64 `json:"amount"`
	SentimentScore float64 `json:"sentiment_score"` // Normalized to [-1, 1]
	AccountValue   float64 `json:"account_value"`
	Side           Side    `json:"side"`
}

// AccountInfo is the broker's account snapshot
type AccountInfo struct {
	PortfolioValue float64 `json:"portfolio_value"`
	BuyingPower    float64 `json:"buying_power"`
	Cash           float64 `json:"cash"`
	Equity         float64 `json:"equity"`
	LastEquity     float64 `json:"last_equity"`
}

// BrokerPosition is a position as reported by the broker
type BrokerPosition struct {
	Symbol      string  `json:"symbol"`
	Quantity    float64 `json:"quantity"`
	MarketValue float64 `json:"market_value"`
}

// OrderResult is the broker's acknowledgement of a dispatched order
type OrderResult struct {
	ID       string  `json:"id"`
	Symbol   string  `json:"symbol"`
	Side     Side    `json:"side"`
	Notional float64 `json:"notional"`
	Status   string  `json:"status"`
}
