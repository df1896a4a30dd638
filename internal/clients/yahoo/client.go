// Package yahoo fetches daily price history and quotes from the Yahoo
// Finance chart API. It satisfies domain.MarketDataSource.
package yahoo

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/etfdca/trader/internal/domain"
)

// Client is a Yahoo Finance API client
type Client struct {
	client *http.Client
	log    zerolog.Logger
}

// NewClient creates a new Yahoo Finance client
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("client", "yahoo").Logger(),
	}
}

// History returns the daily close series for [start, end], ascending by date
func (c *Client) History(symbol string, start, end time.Time) (domain.PriceSeries, error) {
	params := url.Values{}
	params.Add("interval", "1d")
	params.Add("period1", strconv.FormatInt(start.Unix(), 10))
	params.Add("period2", strconv.FormatInt(end.Unix(), 10))

	result, err := c.fetchChart(symbol, params)
	if err != nil {
		return nil, err
	}

	series := chartToSeries(result)

	c.log.Info().
		Str("symbol", symbol).
		Int("count", len(series)).
		Msg("Fetched historical prices")

	return series, nil
}

// LatestPrice returns the most recent daily close for a symbol
func (c *Client) LatestPrice(symbol string) (float64, error) {
	params := url.Values{}
	params.Add("interval", "1d")
	params.Add("range", "5d")

	result, err := c.fetchChart(symbol, params)
	if err != nil {
		return 0, err
	}

	series := chartToSeries(result)
	if len(series) == 0 {
		return 0, fmt.Errorf("no recent prices for %s", symbol)
	}

	return series[len(series)-1].Close, nil
}

// fetchChart calls the v8 chart API and parses the envelope
func (c *Client) fetchChart(symbol string, params url.Values) (*chartResult, error) {
	baseURL := "https://query1.finance.yahoo.com/v8/finance/chart/" + url.QueryEscape(symbol)
	reqURL := baseURL + "?" + params.Encode()

	req, err := http.NewRequest("GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers to mimic browser
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Yahoo Finance API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var result chartResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.Chart.Error != nil {
		return nil, fmt.Errorf("Yahoo Finance API error: %v", result.Chart.Error)
	}

	if len(result.Chart.Result) == 0 {
		c.log.Warn().Str("symbol", symbol).Msg("No chart data returned")
		return &chartResult{}, nil
	}

	return &result.Chart.Result[0], nil
}

// chartToSeries converts a chart result into a close series, skipping
// null rows (Yahoo pads holidays with zeroes).
func chartToSeries(chart *chartResult) domain.PriceSeries {
	if len(chart.Indicators.Quote) == 0 {
		return domain.PriceSeries{}
	}

	quote := chart.Indicators.Quote[0]

	var adjClose []float64
	if len(chart.Indicators.AdjClose) > 0 {
		adjClose = chart.Indicators.AdjClose[0].AdjClose
	}

	series := make(domain.PriceSeries, 0, len(chart.Timestamp))
	for i, ts := range chart.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == 0 {
			continue
		}

		close := quote.Close[i]
		if i < len(adjClose) && adjClose[i] != 0 {
			close = adjClose[i]
		}

		series = append(series, domain.PricePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Close: close,
		})
	}

	return series
}
