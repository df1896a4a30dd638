// Package sentiment maps the sentiment service's continuous market outlook
// to a discrete mood level used by the momentum scorer.
package sentiment

import (
	"github.com/rs/zerolog"

	"github.com/etfdca/trader/internal/domain"
)

// Classification thresholds on the continuous [-1, 1] sentiment score
const (
	ThresholdVeryBullish = 0.6
	ThresholdBullish     = 0.2
	ThresholdNeutral     = -0.2
	ThresholdBearish     = -0.6
)

// Classifier converts a continuous sentiment score to a mood level
type Classifier struct {
	service domain.SentimentService
	enabled bool
	log     zerolog.Logger
}

// NewClassifier creates a new sentiment classifier. With a nil service or
// enabled=false the classifier always reports neutral.
func NewClassifier(service domain.SentimentService, enabled bool, log zerolog.Logger) *Classifier {
	return &Classifier{
		service: service,
		enabled: enabled && service != nil,
		log:     log.With().Str("component", "sentiment").Logger(),
	}
}

// Classify converts a continuous score to its mood level
func Classify(score float64) domain.Sentiment {
	switch {
	case score >= ThresholdVeryBullish:
		return domain.SentimentVeryBullish
	case score >= ThresholdBullish:
		return domain.SentimentBullish
	case score >= ThresholdNeutral:
		return domain.SentimentNeutral
	case score >= ThresholdBearish:
		return domain.SentimentBearish
	default:
		return domain.SentimentVeryBearish
	}
}

// Current returns the present market mood. Fails open to neutral when the
// service is disabled or unreachable: sentiment absence must never block a
// momentum run, so the error is logged and absorbed here.
func (c *Classifier) Current() domain.Sentiment {
	if !c.enabled {
		c.log.Debug().Msg("Sentiment disabled, using neutral")
		return domain.SentimentNeutral
	}

	outlook, err := c.service.Outlook()
	if err != nil {
		c.log.Warn().Err(err).Msg("Sentiment service unavailable, falling back to neutral")
		return domain.SentimentNeutral
	}

	level := Classify(outlook.OverallSentiment)

	c.log.Info().
		Str("level", string(level)).
		Float64("score", outlook.OverallSentiment).
		Str("trend", outlook.Trend).
		Strs("key_drivers", outlook.KeyDrivers).
		Msg("Market sentiment classified")

	return level
}
