package models

import "errors"

// Custom errors
var (
	// ErrInsufficientData indicates fewer laps were supplied than the
	// estimator needs for a fit.
	ErrInsufficientData = errors.New("insufficient lap data")

	// ErrInsufficientCleanData indicates outlier removal left too few laps.
	ErrInsufficientCleanData = errors.New("insufficient clean lap data after outlier removal")

	// ErrNotFitted indicates a prediction was requested without a fitted curve.
	ErrNotFitted = errors.New("degradation curve not fitted")

	// ErrDriverNotFound indicates the target driver is absent from the standings.
	ErrDriverNotFound = errors.New("driver not found in standings")

	// ErrEmptyStandings indicates no standings data was supplied.
	ErrEmptyStandings = errors.New("no driver standings provided")
)
