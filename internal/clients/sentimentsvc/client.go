// Package sentimentsvc talks to the market sentiment microservice.
package sentimentsvc

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/etfdca/trader/internal/domain"
)

// Client for the sentiment microservice
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

// NewClient creates a new sentiment service client
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("client", "sentiment").Logger(),
	}
}

// get makes a GET request to the microservice
func (c *Client) get(endpoint string) (*ServiceResponse, error) {
	url := c.baseURL + endpoint
	resp, err := c.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

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
		return &result, fmt.Errorf("sentiment service error: %s", errMsg)
	}

	return &result, nil
}

// Outlook returns the current market outlook
func (c *Client) Outlook() (*domain.MarketOutlook, error) {
	resp, err := c.get("/api/sentiment/outlook")
	if err != nil {
		return nil, err
	}

	var outlook domain.MarketOutlook
	if err := json.Unmarshal(resp.Data, &outlook); err != nil {
		return nil, fmt.Errorf("failed to parse outlook: %w", err)
	}

	c.log.Debug().
		Float64("overall_sentiment", outlook.OverallSentiment).
		Str("trend", outlook.Trend).
		Msg("Fetched market outlook")

	return &outlook, nil
}
