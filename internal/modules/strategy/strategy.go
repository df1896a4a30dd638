// Package strategy orchestrates the periodic allocation pipeline:
// sentiment -> momentum scoring -> selection -> validation -> dispatch ->
// state update, plus the rebalance cycle and performance bookkeeping.
package strategy

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/etfdca/trader/internal/domain"
	"github.com/etfdca/trader/internal/events"
	"github.com/etfdca/trader/internal/modules/momentum"
	"github.com/etfdca/trader/internal/modules/orders"
	"github.com/etfdca/trader/internal/modules/performance"
	"github.com/etfdca/trader/internal/modules/rebalancing"
	"github.com/etfdca/trader/internal/modules/sentiment"
)

// DefaultAccountValue stands in for the account value when neither the
// broker nor local tracking can produce one.
const DefaultAccountValue = 10000.0

// Journal receives the audit trail of dispatched orders and scoring passes.
// Journal failures never block trading; they are logged and dropped.
type Journal interface {
	RecordTrade(order domain.OrderIntent) error
	RecordScore(score domain.MomentumScore) error
}

// Config holds the strategy parameters
type Config struct {
	Allocation float64  // Amount invested per period
	Universe   []string // Instruments considered, order breaks score ties
}

// Deps wires the strategy's collaborators
type Deps struct {
	Classifier *sentiment.Classifier
	Scorer     *momentum.Scorer
	Builder    *orders.Builder
	Validator  *orders.Validator
	Rebalancer *rebalancing.Service
	Tracker    *performance.Tracker
	MarketData domain.MarketDataSource
	Broker     domain.BrokerClient
	Journal    Journal // optional
	Events     *events.Manager
	Log        zerolog.Logger
}

// Strategy owns the strategy state and runs the trading pipeline.
// All state is single-writer: the mutex serializes pipeline runs against
// scheduler jobs and HTTP reads, and holdings are only mutated after a
// dispatch call has returned successfully.
type Strategy struct {
	cfg Config

	classifier *sentiment.Classifier
	scorer     *momentum.Scorer
	builder    *orders.Builder
	validator  *orders.Validator
	rebalancer *rebalancing.Service
	tracker    *performance.Tracker
	marketData domain.MarketDataSource
	broker     domain.BrokerClient
	journal    Journal
	events     *events.Manager
	log        zerolog.Logger

	mu            sync.Mutex
	holdings      domain.Holdings
	totalInvested float64
	lastRebalance *time.Time
	trades        []domain.OrderIntent
	scoreHistory  []domain.MomentumScore
}

// New creates a new strategy instance with empty state
func New(cfg Config, deps Deps) *Strategy {
	if deps.Events == nil {
		deps.Events = events.NewManager(deps.Log)
	}

	return &Strategy{
		cfg:        cfg,
		classifier: deps.Classifier,
		scorer:     deps.Scorer,
		builder:    deps.Builder,
		validator:  deps.Validator,
		rebalancer: deps.Rebalancer,
		tracker:    deps.Tracker,
		marketData: deps.MarketData,
		broker:     deps.Broker,
		journal:    deps.Journal,
		events:     deps.Events,
		log:        deps.Log.With().Str("service", "strategy").Logger(),
		holdings:   make(domain.Holdings),
	}
}

// RunPeriod executes one full allocation pipeline run. It returns the
// dispatched order intent, or nil when the period ends in a no-op (bearish
// pause, no candidates, rejection). Errors carry the reason; the caller
// decides on retry cadence, typically the next scheduled period.
func (s *Strategy) RunPeriod(ctx context.Context) (*domain.OrderIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Info().Float64("allocation", s.cfg.Allocation).Msg("Starting period run")
	s.events.Emit(events.PeriodRunStart, "strategy", nil)

	mood := s.classifier.Current()

	// Very bearish mood pauses new purchases entirely
	if mood == domain.SentimentVeryBearish {
		s.log.Warn().Msg("Very bearish sentiment, pausing new purchases")
		s.events.Emit(events.PeriodRunSkipped, "strategy", map[string]interface{}{"reason": "very_bearish"})
		return nil, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scores := s.scorer.ScoreAll(s.cfg.Universe, mood.Adjustment())
	s.recordScores(scores)

	best, err := momentum.SelectBest(scores)
	if err != nil {
		s.events.Emit(events.PeriodRunSkipped, "strategy", map[string]interface{}{"reason": "no_candidates"})
		return nil, err
	}

	s.log.Info().Str("symbol", best.Symbol).Float64("score", best.Score).Msg("Instrument selected")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	price, err := s.marketData.LatestPrice(best.Symbol)
	if err != nil || price <= 0 {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrPriceUnavailable, best.Symbol, err)
	}

	intent := s.builder.BuildBuy(best.Symbol, s.cfg.Allocation, price, orders.AllocationReason(mood))

	accountValue, dailyPL := s.accountSnapshot()

	if err := s.validator.Validate(intent, mood.Adjustment(), accountValue, dailyPL); err != nil {
		s.log.Warn().Err(err).Msg("Trade failed validation")
		s.events.Emit(events.OrderRejected, "strategy", map[string]interface{}{
			"symbol": intent.Symbol,
			"reason": err.Error(),
		})
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Dispatch. State is only mutated after the broker confirms.
	result, err := s.broker.Execute(intent.Symbol, intent.Amount, intent.Side)
	if err != nil {
		return nil, fmt.Errorf("%w: broker execute: %v", domain.ErrCollaboratorUnavailable, err)
	}

	s.log.Info().Str("order_id", result.ID).Msg("Order executed")

	// Stop-loss failure leaves an unprotected position; worth an error in
	// the log, but the executed buy still counts toward state.
	if intent.StopLoss != nil {
		if err := s.broker.SetStopLoss(intent.Symbol, intent.Quantity, *intent.StopLoss); err != nil {
			s.log.Error().Err(err).Str("symbol", intent.Symbol).Msg("Failed to set stop-loss")
		}
	}

	s.applyFill(intent)
	s.totalInvested += intent.Amount

	s.events.Emit(events.OrderDispatched, "strategy", map[string]interface{}{
		"symbol":   intent.Symbol,
		"amount":   intent.Amount,
		"quantity": intent.Quantity,
	})

	s.log.Info().
		Float64("total_invested", s.totalInvested).
		Msg("Period run complete")
	s.events.Emit(events.PeriodRunComplete, "strategy", nil)

	if s.shouldRebalanceLocked(time.Now()) {
		s.log.Info().Msg("Rebalance due, will run on next rebalance cycle")
	}

	return &intent, nil
}

// RunRebalance plans and executes a rebalance batch toward the equal-weight
// target. Per-instrument dispatch failures are logged and skipped, never
// retried within the batch. Returns the successfully dispatched intents.
func (s *Strategy) RunRebalance(ctx context.Context) ([]domain.OrderIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Info().Msg("Starting rebalance")
	s.events.Emit(events.RebalanceStart, "strategy", nil)

	prices := s.universePrices()

	planned := s.rebalancer.Plan(s.holdings, prices)
	if planned == nil {
		// Zero-value guard tripped; abandon the batch entirely
		return nil, nil
	}

	executed := make([]domain.OrderIntent, 0, len(planned))

	for _, intent := range planned {
		if err := ctx.Err(); err != nil {
			return executed, err
		}

		if _, err := s.broker.Execute(intent.Symbol, intent.Amount, intent.Side); err != nil {
			s.log.Error().Err(err).
				Str("symbol", intent.Symbol).
				Str("side", string(intent.Side)).
				Msg("Rebalance order failed, skipping instrument")
			continue
		}

		s.applyFill(intent)
		executed = append(executed, intent)
	}

	now := time.Now()
	s.lastRebalance = &now

	s.log.Info().Int("orders", len(executed)).Msg("Rebalance complete")
	s.events.Emit(events.RebalanceComplete, "strategy", map[string]interface{}{"orders": len(executed)})

	return executed, nil
}

// ShouldRebalance reports whether a rebalance is currently due
func (s *Strategy) ShouldRebalance() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shouldRebalanceLocked(time.Now())
}

// UpdateDailyPerformance records the current portfolio value into the
// return series. Intended to run once per trading period, after close.
func (s *Strategy) UpdateDailyPerformance() {
	s.mu.Lock()
	defer s.mu.Unlock()

	value := s.portfolioValueLocked()
	s.tracker.RecordPeriodValue(value)

	s.events.Emit(events.PerformanceRecorded, "strategy", map[string]interface{}{"value": value})
}

// Metrics derives the current performance metrics
func (s *Strategy) Metrics() performance.Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.tracker.Compute(s.totalInvested, s.portfolioValueLocked(), s.trades, time.Now())
	m.LastRebalance = s.lastRebalance
	return m
}

// Holdings returns a copy of the current holdings
func (s *Strategy) Holdings() domain.Holdings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.holdings.Copy()
}

// Trades returns a copy of the in-memory trade log
func (s *Strategy) Trades() []domain.OrderIntent {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.OrderIntent, len(s.trades))
	copy(out, s.trades)
	return out
}

// ScoreHistory returns a copy of the momentum score history
func (s *Strategy) ScoreHistory() []domain.MomentumScore {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.MomentumScore, len(s.scoreHistory))
	copy(out, s.scoreHistory)
	return out
}

// AccountSummary returns the broker's account snapshot, falling back to
// locally tracked values when the broker is unreachable.
func (s *Strategy) AccountSummary() domain.AccountInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	if info, err := s.broker.AccountInfo(); err == nil {
		return *info
	}

	value := s.portfolioValueLocked()
	return domain.AccountInfo{
		PortfolioValue: value,
		Equity:         value,
	}
}

// ---- internal helpers (callers hold the mutex) ----

// applyFill updates holdings and the trade log for a confirmed order
func (s *Strategy) applyFill(intent domain.OrderIntent) {
	delta := intent.Quantity
	if intent.Side == domain.SideSell {
		delta = -delta
	}

	s.holdings.Apply(intent.Symbol, delta)
	s.trades = append(s.trades, intent)

	if s.journal != nil {
		if err := s.journal.RecordTrade(intent); err != nil {
			s.log.Error().Err(err).Msg("Failed to journal trade")
		}
	}
}

func (s *Strategy) recordScores(scores []domain.MomentumScore) {
	s.scoreHistory = append(s.scoreHistory, scores...)

	if s.journal == nil {
		return
	}
	for _, score := range scores {
		if err := s.journal.RecordScore(score); err != nil {
			s.log.Error().Err(err).Msg("Failed to journal momentum score")
		}
	}
}

func (s *Strategy) shouldRebalanceLocked(now time.Time) bool {
	return s.rebalancer.ShouldRebalance(s.holdings, s.universePrices(), s.totalInvested, s.lastRebalance, now)
}

// universePrices fetches the latest price for every instrument in the
// universe. Missing quotes are simply absent from the map.
func (s *Strategy) universePrices() map[string]float64 {
	prices := make(map[string]float64, len(s.cfg.Universe))
	for _, symbol := range s.cfg.Universe {
		price, err := s.marketData.LatestPrice(symbol)
		if err != nil || price <= 0 {
			s.log.Warn().Str("symbol", symbol).Err(err).Msg("No latest price")
			continue
		}
		prices[symbol] = price
	}
	return prices
}

func (s *Strategy) portfolioValueLocked() float64 {
	return s.holdings.Value(s.universePrices())
}

// accountSnapshot returns (account value, daily P&L) from the broker, or a
// locally derived estimate when it is unreachable.
func (s *Strategy) accountSnapshot() (float64, float64) {
	if info, err := s.broker.AccountInfo(); err == nil {
		dailyPL := 0.0
		if info.LastEquity > 0 {
			dailyPL = info.Equity - info.LastEquity
		}
		return info.PortfolioValue, dailyPL
	}

	value := s.portfolioValueLocked() + s.totalInvested
	if value == 0 {
		value = DefaultAccountValue
	}
	return value, 0
}
