package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/etfdca/trader/internal/domain"
	"github.com/etfdca/trader/internal/modules/strategy"
)

// Job timeout for a full pipeline run, dominated by market-data round-trips
const jobTimeout = 5 * time.Minute

// PeriodRunJob triggers the periodic allocation pipeline
type PeriodRunJob struct {
	strategy *strategy.Strategy
	log      zerolog.Logger
}

// NewPeriodRunJob creates the periodic allocation job
func NewPeriodRunJob(s *strategy.Strategy, log zerolog.Logger) *PeriodRunJob {
	return &PeriodRunJob{
		strategy: s,
		log:      log.With().Str("job", "period_run").Logger(),
	}
}

func (j *PeriodRunJob) Name() string { return "period_run" }

func (j *PeriodRunJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	intent, err := j.strategy.RunPeriod(ctx)
	if err != nil {
		return fmt.Errorf("period run failed: %w", err)
	}

	if intent == nil {
		j.log.Info().Msg("Period run ended without an order")
		return nil
	}

	j.log.Info().
		Str("symbol", intent.Symbol).
		Float64("amount", intent.Amount).
		Msg("Period order dispatched")

	return nil
}

// RebalanceJob checks the rebalance gates and runs a rebalance when due
type RebalanceJob struct {
	strategy *strategy.Strategy
	log      zerolog.Logger
}

// NewRebalanceJob creates the rebalance check job
func NewRebalanceJob(s *strategy.Strategy, log zerolog.Logger) *RebalanceJob {
	return &RebalanceJob{
		strategy: s,
		log:      log.With().Str("job", "rebalance").Logger(),
	}
}

func (j *RebalanceJob) Name() string { return "rebalance" }

func (j *RebalanceJob) Run() error {
	if !j.strategy.ShouldRebalance() {
		j.log.Debug().Msg("Rebalance not due")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	executed, err := j.strategy.RunRebalance(ctx)
	if err != nil {
		return fmt.Errorf("rebalance failed: %w", err)
	}

	j.log.Info().Int("orders", len(executed)).Msg("Rebalance executed")
	return nil
}

// PerformanceJob records the end-of-period portfolio value
type PerformanceJob struct {
	strategy *strategy.Strategy
	log      zerolog.Logger
}

// NewPerformanceJob creates the daily performance snapshot job
func NewPerformanceJob(s *strategy.Strategy, log zerolog.Logger) *PerformanceJob {
	return &PerformanceJob{
		strategy: s,
		log:      log.With().Str("job", "performance").Logger(),
	}
}

func (j *PerformanceJob) Name() string { return "performance" }

func (j *PerformanceJob) Run() error {
	j.strategy.UpdateDailyPerformance()
	return nil
}

// RiskResetJob resets the risk gate's per-period counters
type RiskResetJob struct {
	riskGate domain.RiskGate
	log      zerolog.Logger
}

// NewRiskResetJob creates the daily risk counter reset job
func NewRiskResetJob(gate domain.RiskGate, log zerolog.Logger) *RiskResetJob {
	return &RiskResetJob{
		riskGate: gate,
		log:      log.With().Str("job", "risk_reset").Logger(),
	}
}

func (j *RiskResetJob) Name() string { return "risk_reset" }

func (j *RiskResetJob) Run() error {
	if err := j.riskGate.ResetPeriodCounters(); err != nil {
		return fmt.Errorf("failed to reset risk counters: %w", err)
	}

	j.log.Info().Msg("Risk counters reset")
	return nil
}
