package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"github.com/yourusername/pitwall/internal/degradation"
	"github.com/yourusername/pitwall/internal/metrics"
	"github.com/yourusername/pitwall/internal/models"
	"github.com/yourusername/pitwall/internal/strategy"
)

// handleRoot serves the service info index.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, models.ServiceInfo{
		Service: "Pitwall Pit Stop Prediction",
		Version: s.version,
		Endpoints: map[string]string{
			"POST /predict/pitstop": "Predict optimal pit stop window",
			"POST /strategy/impact": "Project position impact of a pit stop",
			"GET /health":           "Health check",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handlePredictPitStop runs the degradation fit and pit-window prediction.
func (s *Server) handlePredictPitStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req models.PitStopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if req.DegradationThreshold == 0 {
		req.DegradationThreshold = s.cfg.Prediction.DefaultDegradationThreshold
	}
	if req.MaxStintLength == 0 {
		req.MaxStintLength = s.cfg.Prediction.DefaultMaxStintLength
	}

	// Pit in/out laps and safety car laps are grossly slower than race
	// pace; drop them before the estimator sees the stint.
	valid := filterByMedian(req.Laps, s.cfg.Prediction.MedianFilterRatio)
	filtered := len(req.Laps) - len(valid)
	metrics.RecordLapsFiltered(filtered)

	curve, err := degradation.Fit(valid)
	if err != nil {
		s.writePredictionError(w, r, err)
		return
	}

	// Current stint lap is the latest lap observed, filtered or not.
	currentStintLap := 0
	for _, lap := range req.Laps {
		if lap.StintLap > currentStintLap {
			currentStintLap = lap.StintLap
		}
	}

	prediction := curve.PredictPitWindow(currentStintLap, req.MaxStintLength, req.DegradationThreshold)

	metrics.RecordPrediction(prediction.Confidence)
	s.predLog.LogPitPrediction(
		len(req.Laps), filtered, prediction.LapsAnalyzed,
		prediction.OptimalPitLap, prediction.DegradationRate, prediction.Confidence,
	)

	writeJSON(w, http.StatusOK, models.PitStopResponse{
		OptimalPitLap:     prediction.OptimalPitLap,
		Confidence:        prediction.Confidence,
		DegradationRate:   prediction.DegradationRate,
		RSquared:          prediction.RSquared,
		PredictedLapTimes: prediction.PredictedLapTimes,
		IsDegrading:       prediction.IsDegrading,
		Recommendation:    prediction.Recommendation,
		TireCompound:      req.Laps[0].TireCompound,
		LapsAnalyzed:      prediction.LapsAnalyzed,
	})
}

// handleStrategyImpact runs the strategy impact projection.
func (s *Server) handleStrategyImpact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req models.StrategyImpactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if req.PitStopTime == 0 {
		req.PitStopTime = s.cfg.Strategy.DefaultPitStopTime
	}
	if req.FreshTireAdvantage == 0 {
		req.FreshTireAdvantage = s.cfg.Strategy.DefaultFreshTireAdvantage
	}
	if req.FreshTireLaps == 0 {
		req.FreshTireLaps = s.cfg.Strategy.DefaultFreshTireLaps
	}

	impact, err := strategy.ProjectImpact(
		req.Standings,
		req.TargetDriverID,
		req.PitLap,
		req.PitStopTime,
		req.FreshTireAdvantage,
		req.FreshTireLaps,
	)
	if err != nil {
		s.writePredictionError(w, r, err)
		return
	}

	metrics.RecordStrategyProjection()
	s.predLog.LogStrategyProjection(
		req.TargetDriverID, len(req.Standings),
		impact.CurrentPosition, impact.ProjectedPosition, impact.NetTimeImpact,
	)

	writeJSON(w, http.StatusOK, impact)
}

// filterByMedian keeps laps whose duration stays under ratio times the
// median. When filtering would leave fewer laps than a fit needs, the
// unfiltered set is used instead.
func filterByMedian(laps []models.LapSample, ratio float64) []models.LapSample {
	durations := make([]float64, len(laps))
	for i, lap := range laps {
		durations[i] = lap.LapDuration
	}
	sort.Float64s(durations)
	median := durations[len(durations)/2]

	valid := make([]models.LapSample, 0, len(laps))
	for _, lap := range laps {
		if lap.LapDuration < median*ratio {
			valid = append(valid, lap)
		}
	}
	if len(valid) < degradation.MinLapsRequired {
		return laps
	}
	return valid
}

// writePredictionError maps core error kinds onto HTTP statuses: the
// enumerated input errors become 400s with their message, anything else is a
// generic 500.
func (s *Server) writePredictionError(w http.ResponseWriter, r *http.Request, err error) {
	kind := errorKind(err)
	metrics.RecordPredictionError(kind)

	switch {
	case errors.Is(err, models.ErrInsufficientData),
		errors.Is(err, models.ErrInsufficientCleanData),
		errors.Is(err, models.ErrNotFitted),
		errors.Is(err, models.ErrDriverNotFound),
		errors.Is(err, models.ErrEmptyStandings):
		s.predLog.LogPredictionError(r.URL.Path, err.Error())
		s.writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		s.logger.WithError(err).Error("Prediction failed unexpectedly")
		s.writeError(w, r, http.StatusInternalServerError, "prediction failed")
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, models.ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, models.ErrInsufficientCleanData):
		return "insufficient_clean_data"
	case errors.Is(err, models.ErrNotFitted):
		return "not_fitted"
	case errors.Is(err, models.ErrDriverNotFound):
		return "driver_not_found"
	case errors.Is(err, models.ErrEmptyStandings):
		return "empty_standings"
	default:
		return "internal"
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{
		Error:     msg,
		RequestID: requestIDFrom(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
