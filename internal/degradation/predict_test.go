package degradation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictPitWindowConstantSlope(t *testing.T) {
	curve, err := Fit(stintLaps(90.0, 90.5, 91.0, 91.5, 92.0))
	require.NoError(t, err)

	pred := curve.PredictPitWindow(5, 40, DefaultDegradationThreshold)

	assert.InDelta(t, 0.5, pred.DegradationRate, 1e-4)
	assert.True(t, pred.IsDegrading)
	// base 90.0 + 2.0 = 92.0 is first exceeded at lap 6 on this line.
	assert.Equal(t, 6, pred.OptimalPitLap)
	assert.Equal(t, 5, pred.LapsAnalyzed)
	assert.Len(t, pred.PredictedLapTimes, 10)
	assert.InDelta(t, 92.0, pred.PredictedLapTimes[0], 1e-3)
}

func TestPredictPitWindowStableStint(t *testing.T) {
	curve, err := Fit(stintLaps(91.2, 91.2, 91.2, 91.2, 91.2, 91.2))
	require.NoError(t, err)

	pred := curve.PredictPitWindow(6, 30, DefaultDegradationThreshold)

	assert.False(t, pred.IsDegrading)
	assert.Equal(t, 30, pred.OptimalPitLap)
	assert.Contains(t, pred.Recommendation, "stable")
}

func TestPredictPitWindowBounds(t *testing.T) {
	tests := []struct {
		name            string
		durations       []float64
		currentStintLap int
		maxStintLength  int
	}{
		{"degrading mid stint", []float64{90, 90.5, 91, 91.5, 92}, 5, 40},
		{"flat stint", []float64{91, 91, 91, 91, 91}, 5, 25},
		{"improving stint", []float64{93, 92.5, 92, 91.5, 91}, 5, 30},
		{"current at cap", []float64{90, 90.5, 91, 91.5, 92}, 40, 40},
		{"current beyond cap", []float64{90, 90.5, 91, 91.5, 92}, 45, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			curve, err := Fit(stintLaps(tt.durations...))
			require.NoError(t, err)

			pred := curve.PredictPitWindow(tt.currentStintLap, tt.maxStintLength, DefaultDegradationThreshold)

			assert.Greater(t, pred.OptimalPitLap, tt.currentStintLap)
			assert.LessOrEqual(t, pred.LapsAnalyzed, len(tt.durations))
			assert.GreaterOrEqual(t, pred.Confidence, 0.0)
			assert.LessOrEqual(t, pred.Confidence, 1.0)
			assert.GreaterOrEqual(t, pred.RSquared, 0.0)
			assert.LessOrEqual(t, pred.RSquared, 1.0)
			assert.LessOrEqual(t, len(pred.PredictedLapTimes), maxPredictedTimes)
		})
	}
}

func TestPredictPitWindowNeverRecommendsPast(t *testing.T) {
	// Predicted time already over the limit on the current lap still
	// yields a pit lap strictly in the future.
	curve, err := Fit(stintLaps(90.0, 91.0, 92.0, 93.0, 94.0))
	require.NoError(t, err)

	pred := curve.PredictPitWindow(5, 40, 1.0)
	assert.Equal(t, 6, pred.OptimalPitLap)
}

func TestConfidenceClampedForExtremeRate(t *testing.T) {
	curve := &Curve{
		coeffs:          []float64{80, 5, 0},
		BaseLapTime:     80,
		DegradationRate: 5.0,
		RSquared:        1.0,
		LapsAnalyzed:    30,
		LapTimeStd:      0,
		IsDegrading:     true,
	}

	conf := curve.confidence()
	assert.GreaterOrEqual(t, conf, 0.0)
	assert.LessOrEqual(t, conf, 1.0)
	// Full blend 1.0 knocked down by the implausible-rate penalty.
	assert.InDelta(t, 0.7, conf, 1e-9)
}

func TestConfidenceZeroBaseLapTime(t *testing.T) {
	curve := &Curve{
		coeffs:       []float64{0, 0, 0},
		LapsAnalyzed: 15,
		RSquared:     1.0,
	}
	// Consistency component collapses to zero when there is no base pace
	// to normalize against.
	assert.InDelta(t, 0.7, curve.confidence(), 1e-9)
}

func TestRecommendationBands(t *testing.T) {
	tests := []struct {
		name        string
		rate        float64
		isDegrading bool
		want        string
	}{
		{"improving", -0.05, false, "improving"},
		{"stable", -0.01, false, "stable"},
		{"minimal", 0.01, true, "Minimal"},
		{"minimal upper boundary goes low", 0.02, true, "Low"},
		{"low", 0.03, true, "Low"},
		{"moderate", 0.06, true, "Moderate"},
		{"high", 0.1, true, "High"},
		{"severe", 0.15, true, "Severe"},
		{"severe at boundary", 0.12, true, "Severe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			curve := &Curve{
				DegradationRate: tt.rate,
				IsDegrading:     tt.isDegrading,
			}
			got := curve.recommendation(20)
			if !strings.Contains(got, tt.want) {
				t.Fatalf("recommendation %q does not mention %q", got, tt.want)
			}
		})
	}
}

func TestPredictedTimesTruncatedAndRounded(t *testing.T) {
	curve, err := Fit(stintLaps(90.0, 90.5, 91.0, 91.5, 92.0))
	require.NoError(t, err)

	pred := curve.PredictPitWindow(5, 8, DefaultDegradationThreshold)
	require.Len(t, pred.PredictedLapTimes, 4)
	assert.InDelta(t, 92.0, pred.PredictedLapTimes[0], 1e-3)
	assert.InDelta(t, 93.5, pred.PredictedLapTimes[3], 1e-3)
}
