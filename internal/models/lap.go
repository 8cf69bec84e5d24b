// Package models defines the request-scoped value objects shared by the
// prediction core and the HTTP adapter. All types are plain values: a new
// request builds new instances and nothing is shared or mutated across calls.
package models

// LapSample is a single observed lap within a stint. StintLap counts from 1
// at the first lap on the current tire set; LapDuration is wall-clock seconds.
type LapSample struct {
	LapNumber    int     `json:"lap_number" validate:"gte=0"`
	LapDuration  float64 `json:"lap_duration" validate:"required,gt=0"`
	TireCompound string  `json:"tire_compound"`
	StintLap     int     `json:"stint_lap" validate:"required,gt=0"`
}

// PitPrediction is the result of one pit-window prediction. Immutable; the
// estimator builds a fresh value per call with all numeric fields already
// rounded for the wire (confidence/r_squared 3 decimals, rate 4, times 3).
type PitPrediction struct {
	OptimalPitLap     int       `json:"optimal_pit_lap"`
	Confidence        float64   `json:"confidence"`
	DegradationRate   float64   `json:"degradation_rate"`
	RSquared          float64   `json:"r_squared"`
	LapsAnalyzed      int       `json:"laps_analyzed"`
	PredictedLapTimes []float64 `json:"predicted_lap_times"`
	IsDegrading       bool      `json:"is_degrading"`
	Recommendation    string    `json:"recommendation"`
}
