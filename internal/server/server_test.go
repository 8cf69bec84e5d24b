package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitwall/internal/config"
	"github.com/yourusername/pitwall/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "pitwall",
			Environment: "development",
			LogLevel:    "error",
		},
		Server: config.ServerConfig{
			Host:                   "127.0.0.1",
			Port:                   8000,
			ReadTimeoutSeconds:     5,
			WriteTimeoutSeconds:    10,
			ShutdownTimeoutSeconds: 5,
			CORSAllowedOrigins:     []string{"*"},
		},
		Prediction: config.PredictionConfig{
			DefaultDegradationThreshold: 2.0,
			DefaultMaxStintLength:       40,
			MedianFilterRatio:           1.2,
		},
		Strategy: config.StrategyConfig{
			DefaultPitStopTime:        22.0,
			DefaultFreshTireAdvantage: 0.5,
			DefaultFreshTireLaps:      5,
		},
		Metrics: config.MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

func testServer(t *testing.T) *Server {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(testConfig(), log, "test")
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func pitStopBody(durations []float64) models.PitStopRequest {
	laps := make([]models.LapSample, len(durations))
	for i, d := range durations {
		laps[i] = models.LapSample{
			LapNumber:    i + 1,
			StintLap:     i + 1,
			LapDuration:  d,
			TireCompound: "medium",
		}
	}
	return models.PitStopRequest{Laps: laps}
}

func TestPredictPitStopHappyPath(t *testing.T) {
	h := testServer(t).Handler()
	rec := postJSON(t, h, "/predict/pitstop", pitStopBody([]float64{90.0, 90.5, 91.0, 91.5, 92.0}))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.PitStopResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 6, resp.OptimalPitLap)
	assert.InDelta(t, 0.5, resp.DegradationRate, 1e-4)
	assert.True(t, resp.IsDegrading)
	assert.Equal(t, "medium", resp.TireCompound)
	assert.Equal(t, 5, resp.LapsAnalyzed)
	assert.NotEmpty(t, resp.Recommendation)
}

func TestPredictPitStopMedianFilter(t *testing.T) {
	// 118.0 is over 1.2x the median race pace (a pit lap) and must be
	// dropped before fitting; the remaining five laps fit cleanly.
	h := testServer(t).Handler()
	rec := postJSON(t, h, "/predict/pitstop", pitStopBody([]float64{90.0, 90.5, 91.0, 91.5, 92.0, 118.0}))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.PitStopResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 5, resp.LapsAnalyzed)
	assert.InDelta(t, 0.5, resp.DegradationRate, 1e-4)
}

func TestPredictPitStopFilterFallback(t *testing.T) {
	// Filtering a pit lap out of a five-lap stint would leave too few
	// laps, so the unfiltered set is fitted instead of failing.
	h := testServer(t).Handler()
	rec := postJSON(t, h, "/predict/pitstop", pitStopBody([]float64{90.0, 90.5, 91.0, 91.5, 118.0}))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.PitStopResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 5, resp.LapsAnalyzed)
}

func TestPredictPitStopErrors(t *testing.T) {
	h := testServer(t).Handler()

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantSubstr string
	}{
		{
			"too few laps",
			pitStopBody([]float64{90.0, 90.5, 91.0}),
			http.StatusBadRequest,
			"insufficient lap data",
		},
		{
			"no laps",
			map[string]any{"laps": []any{}},
			http.StatusBadRequest,
			"invalid request",
		},
		{
			"non-positive duration",
			map[string]any{"laps": []map[string]any{
				{"lap_number": 1, "stint_lap": 1, "lap_duration": -1.0},
			}},
			http.StatusBadRequest,
			"invalid request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, h, "/predict/pitstop", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code)

			var resp models.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Contains(t, resp.Error, tt.wantSubstr)
			assert.NotEmpty(t, resp.RequestID)
		})
	}
}

func TestPredictPitStopMalformedBody(t *testing.T) {
	h := testServer(t).Handler()
	req := httptest.NewRequest(http.MethodPost, "/predict/pitstop", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPredictPitStopMethodNotAllowed(t *testing.T) {
	h := testServer(t).Handler()
	req := httptest.NewRequest(http.MethodGet, "/predict/pitstop", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStrategyImpactHappyPath(t *testing.T) {
	h := testServer(t).Handler()
	body := models.StrategyImpactRequest{
		Standings: []models.DriverStanding{
			{DriverID: "A", TotalRaceTime: 100.0, AverageLapTime: 20.0, LapsCompleted: 5},
			{DriverID: "B", TotalRaceTime: 98.0, AverageLapTime: 19.8, LapsCompleted: 5},
			{DriverID: "C", TotalRaceTime: 105.0, AverageLapTime: 21.0, LapsCompleted: 5},
		},
		TargetDriverID:     "A",
		PitLap:             10,
		PitStopTime:        22.0,
		FreshTireAdvantage: 0.5,
		FreshTireLaps:      5,
	}

	rec := postJSON(t, h, "/strategy/impact", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var impact models.StrategyImpact
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&impact))
	assert.Equal(t, 2, impact.CurrentPosition)
	assert.Equal(t, 2, impact.ProjectedPosition)
	assert.Equal(t, 0, impact.PositionChange)
	assert.InDelta(t, 19.5, impact.NetTimeImpact, 1e-9)
}

func TestStrategyImpactDefaults(t *testing.T) {
	// pit_stop_time omitted, so the configured 22.0s default applies.
	h := testServer(t).Handler()
	body := map[string]any{
		"standings": []map[string]any{
			{"driver_id": "A", "total_race_time": 100.0, "average_lap_time": 20.0, "laps_completed": 5},
			{"driver_id": "B", "total_race_time": 98.0, "average_lap_time": 19.8, "laps_completed": 5},
		},
		"target_driver_id": "A",
		"pit_lap":          10,
	}

	rec := postJSON(t, h, "/strategy/impact", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var impact models.StrategyImpact
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&impact))
	assert.InDelta(t, 22.0, impact.TimeLostInPit, 1e-9)
	assert.InDelta(t, 2.5, impact.TimeGainedFreshTires, 1e-9)
}

func TestStrategyImpactDriverNotFound(t *testing.T) {
	h := testServer(t).Handler()
	body := models.StrategyImpactRequest{
		Standings: []models.DriverStanding{
			{DriverID: "A", TotalRaceTime: 100.0, AverageLapTime: 20.0, LapsCompleted: 5},
		},
		TargetDriverID: "missing",
		PitLap:         10,
	}

	rec := postJSON(t, h, "/strategy/impact", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Error, "missing")
}

func TestRootEndpoint(t *testing.T) {
	h := testServer(t).Handler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var info models.ServiceInfo
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&info))
	assert.Equal(t, "test", info.Version)
	assert.Contains(t, info.Endpoints, "POST /predict/pitstop")
}

func TestUnknownPathReturns404(t *testing.T) {
	h := testServer(t).Handler()
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	h := testServer(t).Handler()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
}

func TestCORSHeaders(t *testing.T) {
	h := testServer(t).Handler()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDEchoed(t *testing.T) {
	h := testServer(t).Handler()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestFilterByMedian(t *testing.T) {
	laps := pitStopBody([]float64{90.0, 90.5, 91.0, 91.5, 92.0, 118.0}).Laps

	valid := filterByMedian(laps, 1.2)
	require.Len(t, valid, 5)
	for _, lap := range valid {
		assert.Less(t, lap.LapDuration, 118.0)
	}

	// Filtering down to fewer than five laps falls back to the full set.
	short := pitStopBody([]float64{90.0, 90.5, 91.0, 91.5, 118.0}).Laps
	assert.Len(t, filterByMedian(short, 1.2), 5)
}
