package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etfdca/trader/internal/clients/alpaca"
	"github.com/etfdca/trader/internal/clients/riskgate"
	"github.com/etfdca/trader/internal/clients/sentimentsvc"
	"github.com/etfdca/trader/internal/clients/yahoo"
	"github.com/etfdca/trader/internal/config"
	"github.com/etfdca/trader/internal/database"
	"github.com/etfdca/trader/internal/events"
	"github.com/etfdca/trader/internal/modules/journal"
	"github.com/etfdca/trader/internal/modules/momentum"
	"github.com/etfdca/trader/internal/modules/orders"
	"github.com/etfdca/trader/internal/modules/performance"
	"github.com/etfdca/trader/internal/modules/rebalancing"
	"github.com/etfdca/trader/internal/modules/sentiment"
	"github.com/etfdca/trader/internal/modules/strategy"
	"github.com/etfdca/trader/internal/scheduler"
	"github.com/etfdca/trader/internal/server"
	"github.com/etfdca/trader/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Config{Level: "info", Pretty: true})
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().
		Float64("allocation", cfg.PeriodAllocation).
		Strs("universe", cfg.Universe).
		Msg("Starting ETF DCA trader")

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Collaborator clients
	marketData := yahoo.NewClient(log)
	broker := alpaca.NewClient(cfg.BrokerServiceURL, log)
	riskGate := riskgate.NewClient(cfg.RiskGateServiceURL, log)
	sentimentSvc := sentimentsvc.NewClient(cfg.SentimentServiceURL, log)

	// Strategy wiring
	eventManager := events.NewManager(log)
	journalRepo := journal.NewRepository(db.Conn(), log)
	builder := orders.NewBuilder(cfg.StopLossPct)

	strat := strategy.New(strategy.Config{
		Allocation: cfg.PeriodAllocation,
		Universe:   cfg.Universe,
	}, strategy.Deps{
		Classifier: sentiment.NewClassifier(sentimentSvc, cfg.UseSentiment, log),
		Scorer:     momentum.NewScorer(marketData, cfg.RiskFreeRate, log),
		Builder:    builder,
		Validator:  orders.NewValidator(cfg.PeriodAllocation, riskGate, log),
		Rebalancer: rebalancing.NewService(cfg.Universe, cfg.RebalanceThreshold, cfg.RebalanceDays, builder, log),
		Tracker:    performance.NewTracker(cfg.RiskFreeRate, log),
		MarketData: marketData,
		Broker:     broker,
		Journal:    journalRepo,
		Events:     eventManager,
		Log:        log,
	})

	// Scheduler and background jobs
	sched := scheduler.New(log)

	// Schedules assume the host clock runs in market time (America/New_York)
	jobs := []struct {
		schedule string
		job      scheduler.Job
	}{
		// Shortly after the open, once the first prints settle
		{"0 35 9 * * MON-FRI", scheduler.NewPeriodRunJob(strat, log)},
		// After the close
		{"0 15 16 * * MON-FRI", scheduler.NewPerformanceJob(strat, log)},
		{"0 30 16 * * MON-FRI", scheduler.NewRebalanceJob(strat, log)},
		// Before the next session
		{"0 30 8 * * MON-FRI", scheduler.NewRiskResetJob(riskGate, log)},
	}
	for _, j := range jobs {
		if err := sched.AddJob(j.schedule, j.job); err != nil {
			log.Fatal().Err(err).Str("job", j.job.Name()).Msg("Failed to register job")
		}
	}

	sched.Start()
	defer sched.Stop()

	// HTTP server
	srv := server.New(server.Config{
		Port:     cfg.Port,
		Log:      log,
		Strategy: strat,
		Journal:  journalRepo,
		DevMode:  cfg.DevMode,
	})

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")

	// Pending stop orders would float free without a supervisor; pull them
	if cancelled, err := broker.CancelAllOrders(); err != nil {
		log.Error().Err(err).Msg("Failed to cancel pending orders")
	} else if cancelled > 0 {
		log.Info().Int("cancelled", cancelled).Msg("Pending orders cancelled")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Shutdown complete")
}
