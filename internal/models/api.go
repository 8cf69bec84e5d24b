package models

// PitStopRequest is the wire payload for a pit-window prediction. Threshold
// and stint length fall back to configured defaults when omitted.
type PitStopRequest struct {
	Laps                 []LapSample `json:"laps" validate:"required,min=1,dive"`
	DegradationThreshold float64     `json:"degradation_threshold" validate:"gte=0"`
	MaxStintLength       int         `json:"max_stint_length" validate:"gte=0"`
}

// PitStopResponse is the wire result for a pit-window prediction.
type PitStopResponse struct {
	OptimalPitLap     int       `json:"optimal_pit_lap"`
	Confidence        float64   `json:"confidence"`
	DegradationRate   float64   `json:"degradation_rate"`
	RSquared          float64   `json:"r_squared"`
	PredictedLapTimes []float64 `json:"predicted_lap_times"`
	IsDegrading       bool      `json:"is_degrading"`
	Recommendation    string    `json:"recommendation"`
	TireCompound      string    `json:"tire_compound"`
	LapsAnalyzed      int       `json:"laps_analyzed"`
}

// StrategyImpactRequest is the wire payload for a strategy projection.
type StrategyImpactRequest struct {
	Standings          []DriverStanding `json:"standings" validate:"required,min=1,dive"`
	TargetDriverID     string           `json:"target_driver_id" validate:"required"`
	PitLap             int              `json:"pit_lap" validate:"required,gt=0"`
	PitStopTime        float64          `json:"pit_stop_time" validate:"gte=0"`
	FreshTireAdvantage float64          `json:"fresh_tire_advantage" validate:"gte=0"`
	FreshTireLaps      int              `json:"fresh_tire_laps" validate:"gte=0"`
}

// ErrorResponse is the wire shape for every non-2xx reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// ServiceInfo describes the service on the root endpoint.
type ServiceInfo struct {
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}
