// Package strategy projects the competitive impact of pitting on a given
// lap. The model is a simplified one-lap-ahead projection: while the target
// driver loses the pit stop time, every other driver completes one more lap
// at their own average pace.
package strategy

import (
	"fmt"
	"sort"

	"github.com/yourusername/pitwall/internal/models"
)

const maxNearbyDrivers = 3

type projectedDriver struct {
	standing  models.DriverStanding
	projected float64
}

// ProjectImpact computes the position delta and nearby competitors for the
// target driver pitting on pitLap. The fresh-tire benefit is reported
// informationally but deliberately does not feed the projected ranking; the
// ranking compares the pit loss against a single lap of the field.
func ProjectImpact(
	standings []models.DriverStanding,
	targetID string,
	pitLap int,
	pitStopTime float64,
	freshTireAdvantage float64,
	freshTireLaps int,
) (models.StrategyImpact, error) {
	if len(standings) == 0 {
		return models.StrategyImpact{}, models.ErrEmptyStandings
	}

	targetIdx := -1
	for i, s := range standings {
		if s.DriverID == targetID {
			targetIdx = i
			break
		}
	}
	if targetIdx < 0 {
		return models.StrategyImpact{}, fmt.Errorf("%w: %q", models.ErrDriverNotFound, targetID)
	}

	currentPosition := rankByTotalTime(standings, targetIdx)

	projected := make([]projectedDriver, len(standings))
	for i, s := range standings {
		t := s.TotalRaceTime + s.AverageLapTime
		if i == targetIdx {
			t = s.TotalRaceTime + pitStopTime
		}
		projected[i] = projectedDriver{standing: s, projected: t}
	}
	sort.SliceStable(projected, func(a, b int) bool {
		return projected[a].projected < projected[b].projected
	})

	targetPos := 0
	for i, p := range projected {
		if p.standing.DriverID == targetID {
			targetPos = i
			break
		}
	}
	targetProjected := projected[targetPos].projected

	timeGained := freshTireAdvantage * float64(freshTireLaps)

	impact := models.StrategyImpact{
		CurrentPosition:      currentPosition,
		ProjectedPosition:    targetPos + 1,
		PositionChange:       currentPosition - (targetPos + 1),
		TimeLostInPit:        models.Round(pitStopTime, 3),
		TimeGainedFreshTires: models.Round(timeGained, 3),
		NetTimeImpact:        models.Round(pitStopTime-timeGained, 3),
		AheadOf:              make([]models.NearbyDriver, 0, maxNearbyDrivers),
		BehindOf:             make([]models.NearbyDriver, 0, maxNearbyDrivers),
	}

	for i := targetPos + 1; i < len(projected) && i <= targetPos+maxNearbyDrivers; i++ {
		impact.AheadOf = append(impact.AheadOf, models.NearbyDriver{
			DriverID:          projected[i].standing.DriverID,
			Gap:               models.Round(projected[i].projected-targetProjected, 3),
			ProjectedPosition: i + 1,
		})
	}
	// Nearest driver ahead of the target first.
	for i := targetPos - 1; i >= 0 && i >= targetPos-maxNearbyDrivers; i-- {
		impact.BehindOf = append(impact.BehindOf, models.NearbyDriver{
			DriverID:          projected[i].standing.DriverID,
			Gap:               models.Round(targetProjected-projected[i].projected, 3),
			ProjectedPosition: i + 1,
		})
	}

	return impact, nil
}

// rankByTotalTime returns the 1-based position of standings[targetIdx] by
// ascending cumulative time, ties broken by input order.
func rankByTotalTime(standings []models.DriverStanding, targetIdx int) int {
	order := make([]int, len(standings))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return standings[order[a]].TotalRaceTime < standings[order[b]].TotalRaceTime
	})
	for pos, idx := range order {
		if idx == targetIdx {
			return pos + 1
		}
	}
	return len(standings)
}
