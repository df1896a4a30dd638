// Package alpaca talks to the broker microservice, which wraps the Alpaca
// paper-trading API behind the standard service envelope.
package alpaca

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

// Client for the broker microservice
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

// NewClient creates a new broker microservice client
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("client", "alpaca").Logger(),
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

// get makes a GET request to the microservice
func (c *Client) get(endpoint string) (*ServiceResponse, error) {
	url := c.baseURL + endpoint
	resp, err := c.client.Get(url)
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
		return &result, fmt.Errorf("broker service error: %s", errMsg)
	}

	return &result, nil
}

type placeOrderRequest struct {
	Symbol   string  `json:"symbol"`
	Notional float64 `json:"notional"`
	Side     string  `json:"side"`
}

// Execute places a notional market order
func (c *Client) Execute(symbol string, notional float64, side domain.Side) (*domain.OrderResult, error) {
	req := placeOrderRequest{
		Symbol:   symbol,
		Notional: notional,
		Side:     string(side),
	}

	resp, err := c.post("/api/orders", req)
	if err != nil {
		return nil, err
	}

	var result domain.OrderResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse order result: %w", err)
	}

	c.log.Info().
		Str("symbol", symbol).
		Str("side", string(side)).
		Float64("notional", notional).
		Str("order_id", result.ID).
		Msg("Order placed")

	return &result, nil
}

type stopLossRequest struct {
	Symbol    string  `json:"symbol"`
	Quantity  float64 `json:"quantity"`
	StopPrice float64 `json:"stop_price"`
}

// SetStopLoss attaches a stop order to a position
func (c *Client) SetStopLoss(symbol string, quantity, stopPrice float64) error {
	req := stopLossRequest{
		Symbol:    symbol,
		Quantity:  quantity,
		StopPrice: stopPrice,
	}

	if _, err := c.post("/api/orders/stop-loss", req); err != nil {
		return err
	}

	c.log.Info().
		Str("symbol", symbol).
		Float64("stop_price", stopPrice).
		Msg("Stop-loss set")

	return nil
}

// AccountInfo returns the account snapshot
func (c *Client) AccountInfo() (*domain.AccountInfo, error) {
	resp, err := c.get("/api/account")
	if err != nil {
		return nil, err
	}

	var info domain.AccountInfo
	if err := json.Unmarshal(resp.Data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse account info: %w", err)
	}

	return &info, nil
}

// Positions returns the broker's view of open positions
func (c *Client) Positions() ([]domain.BrokerPosition, error) {
	resp, err := c.get("/api/positions")
	if err != nil {
		return nil, err
	}

	var positions []domain.BrokerPosition
	if err := json.Unmarshal(resp.Data, &positions); err != nil {
		return nil, fmt.Errorf("failed to parse positions: %w", err)
	}

	return positions, nil
}

type cancelAllResult struct {
	Cancelled int `json:"cancelled"`
}

// CancelAllOrders cancels all pending orders and returns the count
func (c *Client) CancelAllOrders() (int, error) {
	resp, err := c.post("/api/orders/cancel-all", struct{}{})
	if err != nil {
		return 0, err
	}

	var result cancelAllResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return 0, fmt.Errorf("failed to parse cancel result: %w", err)
	}

	c.log.Info().Int("cancelled", result.Cancelled).Msg("Pending orders cancelled")

	return result.Cancelled, nil
}
