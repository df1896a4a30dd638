// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Strategy parameters
	PeriodAllocation   float64  // Dollar amount invested per period
	Universe           []string // Instrument universe, order is the tie-break order
	StopLossPct        float64  // Trailing stop fraction (0.05 = 5%)
	UseSentiment       bool     // Whether to consult the sentiment service
	RiskFreeRate       float64  // Annual risk-free rate for Sharpe math
	RebalanceThreshold float64  // Concentration deviation that triggers rebalance
	RebalanceDays      int      // Minimum days between rebalances

	// Collaborator services
	BrokerServiceURL    string
	SentimentServiceURL string
	RiskGateServiceURL  string

	// Infrastructure
	DatabasePath string
	LogLevel     string
	Port         int
	DevMode      bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		PeriodAllocation:   getEnvAsFloat("PERIOD_ALLOCATION", 6.0),
		Universe:           getEnvAsList("UNIVERSE", []string{"SPY", "QQQ", "VOO"}),
		StopLossPct:        getEnvAsFloat("STOP_LOSS_PCT", 0.05),
		UseSentiment:       getEnvAsBool("USE_SENTIMENT", true),
		RiskFreeRate:       getEnvAsFloat("RISK_FREE_RATE", 0.04),
		RebalanceThreshold: getEnvAsFloat("REBALANCE_THRESHOLD", 0.15),
		RebalanceDays:      getEnvAsInt("REBALANCE_FREQUENCY_DAYS", 30),

		BrokerServiceURL:    getEnv("BROKER_SERVICE_URL", "http://localhost:9001"),
		SentimentServiceURL: getEnv("SENTIMENT_SERVICE_URL", "http://localhost:9002"),
		RiskGateServiceURL:  getEnv("RISK_GATE_SERVICE_URL", "http://localhost:9003"),

		DatabasePath: getEnv("DATABASE_PATH", "./data/strategy.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Port:         getEnvAsInt("PORT", 8001),
		DevMode:      getEnvAsBool("DEV_MODE", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present and sane
func (c *Config) Validate() error {
	if c.PeriodAllocation <= 0 {
		return fmt.Errorf("PERIOD_ALLOCATION must be positive, got %.2f", c.PeriodAllocation)
	}

	if len(c.Universe) == 0 {
		return fmt.Errorf("UNIVERSE must contain at least one symbol")
	}

	if c.StopLossPct < 0 || c.StopLossPct >= 1 {
		return fmt.Errorf("STOP_LOSS_PCT must be in [0, 1), got %.2f", c.StopLossPct)
	}

	if c.RebalanceThreshold <= 0 {
		return fmt.Errorf("REBALANCE_THRESHOLD must be positive, got %.2f", c.RebalanceThreshold)
	}

	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	if len(out) == 0 {
		return defaultValue
	}
	return out
}
