package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"strconv"

	"github.com/etfdca/trader/internal/domain"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"version": "1.0.0",
		"service": "etf-dca-trader",
	}

	s.writeJSON(w, http.StatusOK, response)
}

// handleSystemStatus handles system status requests
func (s *Server) handleSystemStatus(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := map[string]interface{}{
		"status": "running",
		"memory": map[string]interface{}{
			"alloc_mb":       m.Alloc / 1024 / 1024,
			"total_alloc_mb": m.TotalAlloc / 1024 / 1024,
			"sys_mb":         m.Sys / 1024 / 1024,
			"num_gc":         m.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}

	s.writeJSON(w, http.StatusOK, response)
}

// handleRunPeriod triggers an allocation pipeline run outside the schedule
func (s *Server) handleRunPeriod(w http.ResponseWriter, r *http.Request) {
	intent, err := s.strategy.RunPeriod(r.Context())
	if err != nil {
		s.writeError(w, statusForError(err), err.Error())
		return
	}

	if intent == nil {
		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"executed": false,
			"reason":   "period skipped",
		})
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"executed": true,
		"order":    intent,
	})
}

// handleRebalance triggers a rebalance run outside the schedule
func (s *Server) handleRebalance(w http.ResponseWriter, r *http.Request) {
	executed, err := s.strategy.RunRebalance(r.Context())
	if err != nil {
		s.writeError(w, statusForError(err), err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"orders": executed,
		"count":  len(executed),
	})
}

// handleMetrics returns the current performance metrics
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.strategy.Metrics())
}

// handleHoldings returns the current holdings
func (s *Server) handleHoldings(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"holdings":         s.strategy.Holdings(),
		"should_rebalance": s.strategy.ShouldRebalance(),
	})
}

// handleScores returns recent momentum scores from the journal
func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 50)

	scores, err := s.journal.RecentScores(limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{"scores": scores})
}

// handleTrades returns recent trades from the journal
func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 50)

	trades, err := s.journal.RecentTrades(limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{"trades": trades})
}

// handleAccount returns the account summary
func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.strategy.AccountSummary())
}

// statusForError maps pipeline errors to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNoValidCandidates),
		errors.Is(err, domain.ErrAllocationExceeded),
		errors.Is(err, domain.ErrRiskGateRejected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrPriceUnavailable),
		errors.Is(err, domain.ErrCollaboratorUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// queryLimit parses the ?limit= query parameter with a default
func queryLimit(r *http.Request, def int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return def
	}
	return limit
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
