package models

// DriverStanding is one driver's current race state as supplied by the caller.
// TotalRaceTime is cumulative seconds since the start; AverageLapTime is the
// driver's mean lap over the race so far.
type DriverStanding struct {
	DriverID       string  `json:"driver_id" validate:"required"`
	TotalRaceTime  float64 `json:"total_race_time" validate:"required,gt=0"`
	AverageLapTime float64 `json:"average_lap_time" validate:"required,gt=0"`
	LapsCompleted  int     `json:"laps_completed" validate:"gte=0"`
}

// NearbyDriver describes a competitor adjacent to the target in the projected
// ranking. Gap is seconds, always non-negative, measured toward the target.
type NearbyDriver struct {
	DriverID          string  `json:"driver_id"`
	Gap               float64 `json:"gap"`
	ProjectedPosition int     `json:"projected_position"`
}

// StrategyImpact is the projected competitive effect of pitting on a given
// lap. Positions are 1-based; PositionChange is positive when the target
// gains places. AheadOf lists up to three drivers the target would lead,
// BehindOf up to three it would trail, nearest first.
type StrategyImpact struct {
	CurrentPosition      int            `json:"current_position"`
	ProjectedPosition    int            `json:"projected_position"`
	PositionChange       int            `json:"position_change"`
	TimeLostInPit        float64        `json:"time_lost_in_pit"`
	TimeGainedFreshTires float64        `json:"time_gained_fresh_tires"`
	NetTimeImpact        float64        `json:"net_time_impact"`
	AheadOf              []NearbyDriver `json:"ahead_of"`
	BehindOf             []NearbyDriver `json:"behind_of"`
}
