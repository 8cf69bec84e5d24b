package degradation

import (
	"fmt"
	"math"

	"github.com/yourusername/pitwall/internal/models"
	"github.com/yourusername/pitwall/internal/regression"
)

// DefaultDegradationThreshold is the lap-time increase over the base lap
// that triggers a pit recommendation when the caller supplies no threshold.
const DefaultDegradationThreshold = 2.0

// Confidence blend weights and normalization bounds.
const (
	rSquaredWeight    = 0.4
	sampleWeight      = 0.3
	consistencyWeight = 0.3

	fullSampleSize   = 15.0
	maxNormalizedStd = 0.05

	implausibleRate        = 0.3
	implausibleRatePenalty = 0.7
)

// Recommendation bands on the absolute degradation rate in seconds per lap.
const (
	improvingRate = -0.02
	minimalRate   = 0.02
	lowRate       = 0.05
	moderateRate  = 0.08
	highRate      = 0.12
)

const maxPredictedTimes = 10

// PredictPitWindow projects lap times forward to maxStintLength and derives
// the optimal pit lap, a blended confidence score, and a qualitative
// recommendation. threshold is the acceptable lap-time increase over the
// base lap before pitting; pass DefaultDegradationThreshold when in doubt.
func (c *Curve) PredictPitWindow(currentStintLap, maxStintLength int, threshold float64) models.PitPrediction {
	futureLaps := maxStintLength - currentStintLap + 1
	if futureLaps < 0 {
		futureLaps = 0
	}
	predicted := make([]float64, 0, futureLaps)
	for lap := currentStintLap; lap <= maxStintLength; lap++ {
		predicted = append(predicted, c.PredictLapTime(lap))
	}

	// A non-degrading stint is pushed to its cap rather than searching for
	// a threshold crossing.
	optimalPitLap := maxStintLength
	if c.IsDegrading && c.DegradationRate > 0 {
		limit := c.BaseLapTime + threshold
		for i, t := range predicted {
			if t > limit {
				optimalPitLap = currentStintLap + i
				break
			}
		}
	}
	if optimalPitLap <= currentStintLap {
		optimalPitLap = currentStintLap + 1
	}

	times := predicted
	if len(times) > maxPredictedTimes {
		times = times[:maxPredictedTimes]
	}
	rounded := make([]float64, len(times))
	for i, t := range times {
		rounded[i] = models.Round(t, 3)
	}

	return models.PitPrediction{
		OptimalPitLap:     optimalPitLap,
		Confidence:        models.Round(c.confidence(), 3),
		DegradationRate:   models.Round(c.DegradationRate, 4),
		RSquared:          models.Round(c.RSquared, 3),
		LapsAnalyzed:      c.LapsAnalyzed,
		PredictedLapTimes: rounded,
		IsDegrading:       c.IsDegrading,
		Recommendation:    c.recommendation(optimalPitLap),
	}
}

// confidence blends fit quality, sample sufficiency, and lap-time
// consistency, then penalizes implausible wear rates.
func (c *Curve) confidence() float64 {
	sampleComponent := math.Min(float64(c.LapsAnalyzed)/fullSampleSize, 1)

	normalizedStd := 1.0
	if c.BaseLapTime > 0 {
		normalizedStd = c.LapTimeStd / c.BaseLapTime
	}
	consistencyComponent := 1 - math.Min(normalizedStd, maxNormalizedStd)/maxNormalizedStd

	conf := rSquaredWeight*c.RSquared +
		sampleWeight*sampleComponent +
		consistencyWeight*consistencyComponent

	if math.Abs(c.DegradationRate) > implausibleRate {
		conf *= implausibleRatePenalty
	}
	return regression.Clamp01(conf)
}

func (c *Curve) recommendation(optimalPitLap int) string {
	rate := c.DegradationRate
	abs := math.Abs(rate)

	if !c.IsDegrading {
		if rate < improvingRate {
			return fmt.Sprintf("Tires improving significantly (%.4fs/lap) - extend stint to lap %d", rate, optimalPitLap)
		}
		return fmt.Sprintf("Tire performance stable - extend stint to lap %d", optimalPitLap)
	}

	switch {
	case abs < minimalRate:
		return fmt.Sprintf("Minimal degradation (%.4fs/lap) - pit around lap %d", rate, optimalPitLap)
	case abs < lowRate:
		return fmt.Sprintf("Low degradation (%.4fs/lap) - pit around lap %d", rate, optimalPitLap)
	case abs < moderateRate:
		return fmt.Sprintf("Moderate degradation (%.4fs/lap) - plan to pit by lap %d", rate, optimalPitLap)
	case abs < highRate:
		return fmt.Sprintf("High degradation (%.4fs/lap) - pit soon, by lap %d", rate, optimalPitLap)
	default:
		return fmt.Sprintf("Severe degradation (%.4fs/lap) - pit immediately", rate)
	}
}
