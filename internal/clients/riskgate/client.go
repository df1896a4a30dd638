// Package riskgate talks to the risk management microservice. Callers
// treat transport failures as "gate unavailable" and fall back to local
// validation only.
package riskgate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/etfdca/trader/internal/domain"
)

// Client for the risk gate microservice
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// ServiceResponse is the standard response format
type ServiceResponse struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     *string         `json:"error"`
	Timestamp string          `json:"timestamp"`
}

// NewClient creates a new risk gate client
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("client", "riskgate").Logger(),
	}
}

// post makes a POST request to the microservice
func (c *Client) post(endpoint string, request interface{}) (*ServiceResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + endpoint
	resp, err := c.client.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return c.parseResponse(resp)
}

// parseResponse parses the service response
func (c *Client) parseResponse(resp *http.Response) (*ServiceResponse, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var result ServiceResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if !result.Success {
		errMsg := "unknown error"
		if result.Error != nil {
			errMsg = *result.Error
		}
		return &result, fmt.Errorf("risk gate error: %s", errMsg)
	}

	return &result, nil
}

// ValidateTrade checks a proposed trade against risk limits
func (c *Client) ValidateTrade(req domain.TradeRequest) (*domain.TradeValidation, error) {
	resp, err := c.post("/api/risk/validate-trade", req)
	if err != nil {
		return nil, err
	}

	var validation domain.TradeValidation
	if err := json.Unmarshal(resp.Data, &validation); err != nil {
		return nil, fmt.Errorf("failed to parse validation: %w", err)
	}

	return &validation, nil
}

type canTradeRequest struct {
	AccountValue float64 `json:"account_value"`
	DailyPL      float64 `json:"daily_pl"`
}

type canTradeResult struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}

// CanTrade reports whether account-wide circuit breakers allow trading
func (c *Client) CanTrade(accountValue, dailyPL float64) (bool, error) {
	req := canTradeRequest{
		AccountValue: accountValue,
		DailyPL:      dailyPL,
	}

	resp, err := c.post("/api/risk/can-trade", req)
	if err != nil {
		return false, err
	}

	var result canTradeResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return false, fmt.Errorf("failed to parse can-trade result: %w", err)
	}

	if !result.Allowed {
		c.log.Warn().Str("reason", result.Reason).Msg("Circuit breaker tripped")
	}

	return result.Allowed, nil
}

// ResetPeriodCounters resets per-period risk counters
func (c *Client) ResetPeriodCounters() error {
	if _, err := c.post("/api/risk/reset-counters", struct{}{}); err != nil {
		return err
	}

	c.log.Info().Msg("Risk counters reset")
	return nil
}
