// Package standings computes the season-long leaderboard from persisted
// results. The aggregation is always a pure, full recomputation over a
// player's complete result history — nothing here is ever incrementally
// patched, which is what keeps the leaderboard immune to ordering and
// staleness bugs when tournaments are uploaded or deleted.
package standings

import (
	"sort"

	"github.com/google/uuid"

	"github.com/caddiecup/tour-series/internal/models"
)

// CountingEventLimit is the "best N of the season" rule: only a player's
// top 8 events (by points) count toward their season total. Fixed constant;
// seasons are scored against it retroactively, so it is not configurable.
const CountingEventLimit = 8

// BoardType selects which side of the results feeds the leaderboard.
type BoardType string

const (
	BoardGross BoardType = "gross"
	BoardNet   BoardType = "net"
)

// ParseBoardType validates a raw board string, defaulting to net — the net
// board is the series' primary standing.
func ParseBoardType(s string) BoardType {
	if BoardType(s) == BoardGross {
		return BoardGross
	}
	return BoardNet
}

// PlayerStats is one leaderboard row. Derived, never persisted.
type PlayerStats struct {
	PlayerID    uuid.UUID   `json:"player_id"`
	DisplayName string      `json:"display_name"`
	Club        models.Club `json:"club"`

	TotalPoints    float64 `json:"total_points"`    // Sum over the counting (top-8) events only
	CountingEvents int     `json:"counting_events"` // How many events counted (≤ 8)
	TotalEvents    int     `json:"total_events"`    // All events played this season
	AvgGross       float64 `json:"avg_gross"`       // Mean gross score over the counting events
	AvgNet         float64 `json:"avg_net"`         // Mean net score over the counting events
	BestFinish     int     `json:"best_finish"`     // Best (lowest) position across ALL events
}

// Compute builds the leaderboard for one board type from every result passed
// in. Results must have their Player association populated.
//
// Per player: results are sorted descending by the board's points field, the
// top 8 become the counting events, and totals/averages come from exactly that
// subset. BestFinish alone looks at every event — a career-best win still
// shows even if that event later rotates out of the counting set.
//
// Players with no results simply don't appear; the leaderboard never renders
// zero rows. An optional club filter drops other clubs' players before any
// aggregation happens.
//
// The final ordering is total points descending, ties broken by the better
// (lower) average score on the selected board.
func Compute(results []models.Result, club *models.Club, board BoardType) []PlayerStats {
	byPlayer := make(map[uuid.UUID][]models.Result)
	playerInfo := make(map[uuid.UUID]models.Player)
	var order []uuid.UUID

	for _, r := range results {
		if club != nil && r.Player.Club != *club {
			continue
		}
		if _, ok := byPlayer[r.PlayerID]; !ok {
			order = append(order, r.PlayerID)
			playerInfo[r.PlayerID] = r.Player
		}
		byPlayer[r.PlayerID] = append(byPlayer[r.PlayerID], r)
	}

	stats := make([]PlayerStats, 0, len(order))
	for _, id := range order {
		stats = append(stats, aggregate(playerInfo[id], byPlayer[id], board))
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].TotalPoints != stats[j].TotalPoints {
			return stats[i].TotalPoints > stats[j].TotalPoints
		}
		return avgFor(stats[i], board) < avgFor(stats[j], board)
	})

	return stats
}

// aggregate folds one player's full season into a stats row.
func aggregate(player models.Player, results []models.Result, board BoardType) PlayerStats {
	// Sort descending by the board's points; stable so equal-points events
	// keep their input order and the counting subset is deterministic.
	sort.SliceStable(results, func(i, j int) bool {
		return pointsFor(results[i], board) > pointsFor(results[j], board)
	})

	counting := results
	if len(counting) > CountingEventLimit {
		counting = counting[:CountingEventLimit]
	}

	stats := PlayerStats{
		PlayerID:       player.ID,
		DisplayName:    player.DisplayName,
		Club:           player.Club,
		CountingEvents: len(counting),
		TotalEvents:    len(results),
	}

	var sumGross, sumNet float64
	for _, r := range counting {
		stats.TotalPoints += pointsFor(r, board)
		sumGross += r.GrossScore
		sumNet += r.NetScore
	}
	stats.AvgGross = sumGross / float64(len(counting))
	stats.AvgNet = sumNet / float64(len(counting))

	// Best finish scans every event, not just the counting subset.
	stats.BestFinish = positionFor(results[0], board)
	for _, r := range results[1:] {
		if p := positionFor(r, board); p < stats.BestFinish {
			stats.BestFinish = p
		}
	}

	return stats
}

func pointsFor(r models.Result, board BoardType) float64 {
	if board == BoardGross {
		return r.GrossPoints
	}
	return r.NetPoints
}

func positionFor(r models.Result, board BoardType) int {
	if board == BoardGross {
		return r.GrossPosition
	}
	return r.NetPosition
}

func avgFor(s PlayerStats, board BoardType) float64 {
	if board == BoardGross {
		return s.AvgGross
	}
	return s.AvgNet
}
