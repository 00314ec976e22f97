package pipeline

import (
	"math"

	"github.com/caddiecup/tour-series/internal/models"
)

// Season points curves, one per tournament tier. These values are a fixed
// compatibility artifact: seasons already scored with them must re-aggregate
// to identical totals, so do not re-derive or "improve" them.
//
// Index 0 is position 1. Positions beyond a table fall through to
// PointsForPosition's extrapolation rule.
var pointsTables = map[models.TournamentType][]float64{
	models.TournamentTypeMajor: {
		750, 500, 400, 350, 300, 275, 250, 225, 200, 175,
		150, 140, 130, 120, 110, 100, 90, 80, 70, 60,
	},
	models.TournamentTypeTour: {
		500, 300, 250, 225, 200, 175, 150, 140, 130, 120,
		110, 100, 90, 80, 70, 60, 50, 45, 40, 35,
	},
	models.TournamentTypeLeague: {
		100, 90, 85, 80, 75, 70, 65, 60, 55, 50,
		45, 40, 35, 30, 25, 20, 15, 10, 5, 2,
	},
	models.TournamentTypeSUPR: {
		200, 150, 125, 100, 90, 80, 70, 60, 50, 45,
		40, 35, 30, 25, 20,
	},
}

// PointsForPosition returns the season points earned by finishing at the given
// 1-based position in a tournament of the given tier.
//
// Beyond the end of a tier's table, League events award nothing (a weekly
// league night shouldn't pay out a 40-deep field), while every other tier
// extrapolates with max(30 - position, 5) so that big fields still earn a
// token amount for showing up.
func PointsForPosition(position int, tier models.TournamentType) float64 {
	table, ok := pointsTables[tier]
	if !ok {
		// Unknown tier: treat like a regular tour stop.
		table = pointsTables[models.TournamentTypeTour]
	}

	if position >= 1 && position <= len(table) {
		return table[position-1]
	}

	if tier == models.TournamentTypeLeague {
		return 0
	}
	return math.Max(float64(30-position), 5)
}
