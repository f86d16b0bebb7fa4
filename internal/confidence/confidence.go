// Package confidence derives best-effort confidence scores for predictions.
// A failure here never fails the prediction itself: both estimators degrade
// to a constant placeholder and log a warning.
package confidence

import (
	"math"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultConfidence is reported when an estimate cannot be computed.
	DefaultConfidence = 75.0
	// NonPositiveMeanConfidence is reported when the ensemble mean is <= 0,
	// where the coefficient of variation is undefined.
	NonPositiveMeanConfidence = 50.0
)

// Regression scores a regression prediction from the disagreement among the
// ensemble's per-member predictions: the coefficient of variation
// (stddev/mean) is mapped onto [0,100], where full agreement scores 100.
func Regression(members []float64) float64 {
	if len(members) == 0 {
		log.Warn().Msg("regression confidence: no ensemble members, using default")
		return DefaultConfidence
	}

	var sum float64
	for _, m := range members {
		sum += m
	}
	mean := sum / float64(len(members))

	if mean <= 0 {
		return NonPositiveMeanConfidence
	}

	var sq float64
	for _, m := range members {
		d := m - mean
		sq += d * d
	}
	// Population standard deviation, matching how the forest was evaluated
	// at training time.
	std := math.Sqrt(sq / float64(len(members)))

	cv := std / mean
	conf := (1 - math.Min(cv, 1)) * 100
	conf = math.Max(0, math.Min(100, conf))
	return round1(conf)
}

// Classification scores a classification prediction as the probability of
// the winning class, on a 0-100 scale.
func Classification(probs []float64) float64 {
	if len(probs) == 0 {
		log.Warn().Msg("classification confidence: no probabilities, using default")
		return DefaultConfidence
	}

	maxProb := probs[0]
	for _, p := range probs[1:] {
		if p > maxProb {
			maxProb = p
		}
	}
	if maxProb < 0 || maxProb > 1 || math.IsNaN(maxProb) {
		log.Warn().Float64("max_prob", maxProb).Msg("classification confidence: invalid probability, using default")
		return DefaultConfidence
	}

	return round1(maxProb * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
