package logger

import (
	"github.com/sirupsen/logrus"
)

// PredictionLogger provides dedicated logging for the prediction core.
type PredictionLogger struct {
	*logrus.Entry
}

// NewPredictionLogger creates a new prediction logger.
func NewPredictionLogger(baseLogger *logrus.Logger) *PredictionLogger {
	return &PredictionLogger{
		Entry: baseLogger.WithField("component", "prediction"),
	}
}

// LogPitPrediction logs a completed pit-window prediction.
func (pl *PredictionLogger) LogPitPrediction(lapsSupplied, lapsFiltered, lapsAnalyzed, optimalPitLap int, degradationRate, confidence float64) {
	pl.WithFields(logrus.Fields{
		"laps_supplied":    lapsSupplied,
		"laps_filtered":    lapsFiltered,
		"laps_analyzed":    lapsAnalyzed,
		"optimal_pit_lap":  optimalPitLap,
		"degradation_rate": degradationRate,
		"confidence":       confidence,
	}).Info("Pit window prediction completed")
}

// LogStrategyProjection logs a completed strategy impact projection.
func (pl *PredictionLogger) LogStrategyProjection(targetID string, fieldSize, currentPosition, projectedPosition int, netTimeImpact float64) {
	pl.WithFields(logrus.Fields{
		"target_driver":      targetID,
		"field_size":         fieldSize,
		"current_position":   currentPosition,
		"projected_position": projectedPosition,
		"net_time_impact":    netTimeImpact,
	}).Info("Strategy impact projection completed")
}

// LogPredictionError logs a failed prediction with its error kind.
func (pl *PredictionLogger) LogPredictionError(operation, reason string) {
	pl.WithFields(logrus.Fields{
		"operation":    operation,
		"error_reason": reason,
	}).Warn("Prediction request rejected")
}
