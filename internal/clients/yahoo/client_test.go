package yahoo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleChart = `{
	"chart": {
		"result": [{
			"timestamp": [1700000000, 1700086400, 1700172800],
			"indicators": {
				"quote": [{
					"open": [449, 451, 0],
					"high": [452, 454, 0],
					"low": [448, 450, 0],
					"close": [450, 452, 0],
					"volume": [1000, 1200, 0]
				}],
				"adjclose": [{
					"adjclose": [449.5, 451.5, 0]
				}]
			}
		}],
		"error": null
	}
}`

func TestChartToSeries(t *testing.T) {
	var resp chartResponse
	require.NoError(t, json.Unmarshal([]byte(sampleChart), &resp))
	require.Len(t, resp.Chart.Result, 1)

	series := chartToSeries(&resp.Chart.Result[0])

	// The zero-padded third row is dropped
	require.Len(t, series, 2)

	// Adjusted close wins over raw close
	assert.Equal(t, 449.5, series[0].Close)
	assert.Equal(t, 451.5, series[1].Close)
	assert.True(t, series[0].Date.Before(series[1].Date))
}

func TestChartToSeries_NoQuotes(t *testing.T) {
	assert.Empty(t, chartToSeries(&chartResult{}))
}

func TestChartToSeries_FallsBackToRawClose(t *testing.T) {
	chart := &chartResult{Timestamp: []int64{1700000000}}
	chart.Indicators.Quote = []struct {
		Open   []float64 `json:"open"`
		High   []float64 `json:"high"`
		Low    []float64 `json:"low"`
		Close  []float64 `json:"close"`
		Volume []int64   `json:"volume"`
	}{
		{Close: []float64{450}},
	}

	series := chartToSeries(chart)
	require.Len(t, series, 1)
	assert.Equal(t, 450.0, series[0].Close)
}
