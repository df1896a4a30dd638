// Package journal persists an append-only audit trail of dispatched orders
// and momentum scoring passes.
//
// The journal is observational: strategy state is never restored from it.
// It exists so every order and every score that influenced one can be
// audited after the fact.
package journal

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/etfdca/trader/internal/domain"
)

// Repository writes and reads journal rows
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new journal repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "journal").Logger(),
	}
}

// RecordTrade appends a dispatched order to the trade journal
func (r *Repository) RecordTrade(order domain.OrderIntent) error {
	var stopLoss sql.NullFloat64
	if order.StopLoss != nil {
		stopLoss = sql.NullFloat64{Float64: *order.StopLoss, Valid: true}
	}

	_, err := r.db.Exec(`
		INSERT INTO trades (symbol, side, quantity, amount, price, order_type, stop_loss, reason, executed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.Symbol, string(order.Side), order.Quantity, order.Amount,
		order.Price, order.OrderType, stopLoss, order.Reason, order.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to record trade: %w", err)
	}

	return nil
}

// RecordScore appends a momentum score to the scoring journal
func (r *Repository) RecordScore(score domain.MomentumScore) error {
	_, err := r.db.Exec(`
		INSERT INTO momentum_scores (symbol, score, returns_1m, returns_3m, returns_6m, volatility, sharpe_ratio, rsi, sentiment_boost, scored_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		score.Symbol, score.Score, score.Returns1M, score.Returns3M, score.Returns6M,
		score.Volatility, score.SharpeRatio, score.RSI, score.SentimentBoost, score.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to record momentum score: %w", err)
	}

	return nil
}

// RecentTrades returns the most recent journal entries, newest first
func (r *Repository) RecentTrades(limit int) ([]domain.OrderIntent, error) {
	rows, err := r.db.Query(`
		SELECT symbol, side, quantity, amount, price, order_type, stop_loss, reason, executed_at
		FROM trades ORDER BY executed_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []domain.OrderIntent
	for rows.Next() {
		var order domain.OrderIntent
		var side string
		var stopLoss sql.NullFloat64

		if err := rows.Scan(&order.Symbol, &side, &order.Quantity, &order.Amount,
			&order.Price, &order.OrderType, &stopLoss, &order.Reason, &order.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}

		order.Side = domain.Side(side)
		if stopLoss.Valid {
			order.StopLoss = &stopLoss.Float64
		}

		trades = append(trades, order)
	}

	return trades, rows.Err()
}

// RecentScores returns the most recent scoring passes, newest first
func (r *Repository) RecentScores(limit int) ([]domain.MomentumScore, error) {
	rows, err := r.db.Query(`
		SELECT symbol, score, returns_1m, returns_3m, returns_6m, volatility, sharpe_ratio, rsi, sentiment_boost, scored_at
		FROM momentum_scores ORDER BY scored_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query momentum scores: %w", err)
	}
	defer rows.Close()

	var scores []domain.MomentumScore
	for rows.Next() {
		var s domain.MomentumScore
		if err := rows.Scan(&s.Symbol, &s.Score, &s.Returns1M, &s.Returns3M, &s.Returns6M,
			&s.Volatility, &s.SharpeRatio, &s.RSI, &s.SentimentBoost, &s.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan momentum score: %w", err)
		}
		scores = append(scores, s)
	}

	return scores, rows.Err()
}
