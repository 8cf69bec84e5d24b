// Package degradation models tire performance decay over a stint. Fit builds
// an immutable Curve from observed lap times; holding a *Curve is the proof
// that fitting succeeded, so prediction never runs on unfitted state.
package degradation

import (
	"fmt"
	"math"
	"sort"

	"github.com/yourusername/pitwall/internal/models"
	"github.com/yourusername/pitwall/internal/regression"
)

const (
	// MinLapsRequired is the minimum number of clean laps for a usable fit.
	MinLapsRequired = 5

	// outlierSigma is the deviation cutoff for outlier laps (pit in/out
	// laps, safety cars) measured in standard deviations from the mean.
	outlierSigma = 2.0

	curveDegree = 2
)

// Curve is the fitted degradation model for one stint. Values are never
// mutated after Fit returns; a new fit produces a new Curve.
type Curve struct {
	coeffs []float64

	// BaseLapTime is the fastest clean lap in the stint, used as the
	// reference pace rather than the fit intercept.
	BaseLapTime     float64
	DegradationRate float64
	RSquared        float64
	LapsAnalyzed    int
	LapTimeStd      float64
	IsDegrading     bool
}

// Fit fits a degradation curve to the stint laps. It removes outlier laps,
// fits a quadratic curve for prediction and a separate linear regression for
// the reported wear rate. Fails with models.ErrInsufficientData when too few
// laps are supplied and models.ErrInsufficientCleanData when filtering
// consumed too much of the stint.
func Fit(samples []models.LapSample) (*Curve, error) {
	if len(samples) < MinLapsRequired {
		return nil, fmt.Errorf("%w: got %d laps, need at least %d",
			models.ErrInsufficientData, len(samples), MinLapsRequired)
	}

	clean := removeOutliers(samples)
	if len(clean) < MinLapsRequired {
		return nil, fmt.Errorf("%w: %d laps remain of %d supplied, need at least %d",
			models.ErrInsufficientCleanData, len(clean), len(samples), MinLapsRequired)
	}

	xs := make([]float64, len(clean))
	ys := make([]float64, len(clean))
	for i, s := range clean {
		xs[i] = float64(s.StintLap)
		ys[i] = s.LapDuration
	}

	coeffs, err := regression.PolyFit(xs, ys, curveDegree)
	if err != nil {
		return nil, fmt.Errorf("degradation fit failed: %w", err)
	}
	// The quadratic curve interpolates well but its linear coefficient is
	// not an average wear rate; report the simple regression slope instead.
	_, slope := regression.LinearFit(xs, ys)

	base := ys[0]
	for _, y := range ys[1:] {
		if y < base {
			base = y
		}
	}

	return &Curve{
		coeffs:          coeffs,
		BaseLapTime:     base,
		DegradationRate: slope,
		RSquared:        regression.RSquared(xs, ys, coeffs),
		LapsAnalyzed:    len(clean),
		LapTimeStd:      regression.PopStdDev(ys),
		IsDegrading:     isDegrading(ys),
	}, nil
}

// PredictLapTime returns the modeled duration for a stint lap.
func (c *Curve) PredictLapTime(stintLap int) float64 {
	return regression.PolyEval(c.coeffs, float64(stintLap))
}

// removeOutliers drops laps more than outlierSigma standard deviations from
// the mean duration. When that would leave fewer than MinLapsRequired laps,
// it instead keeps the MinLapsRequired laps closest to the mean so a stint
// full of outliers-by-this-metric still yields a usable sample set. Input
// order is preserved.
func removeOutliers(samples []models.LapSample) []models.LapSample {
	durations := make([]float64, len(samples))
	for i, s := range samples {
		durations[i] = s.LapDuration
	}
	mean := regression.Mean(durations)
	std := regression.PopStdDev(durations)

	if std == 0 {
		return samples
	}

	clean := make([]models.LapSample, 0, len(samples))
	for _, s := range samples {
		if math.Abs(s.LapDuration-mean) < outlierSigma*std {
			clean = append(clean, s)
		}
	}
	if len(clean) >= MinLapsRequired {
		return clean
	}

	// Keep the laps closest to the mean, in original order.
	idx := make([]int, len(samples))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return math.Abs(samples[idx[a]].LapDuration-mean) < math.Abs(samples[idx[b]].LapDuration-mean)
	})
	keep := make(map[int]bool, MinLapsRequired)
	for _, i := range idx[:MinLapsRequired] {
		keep[i] = true
	}
	clean = clean[:0]
	for i, s := range samples {
		if keep[i] {
			clean = append(clean, s)
		}
	}
	return clean
}

// isDegrading compares the second half of the stint against the first, in
// time order. A tie counts as not degrading.
func isDegrading(durations []float64) bool {
	half := len(durations) / 2
	return regression.Mean(durations[half:]) > regression.Mean(durations[:half])
}
