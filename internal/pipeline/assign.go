package pipeline

import (
	"sort"

	"github.com/caddiecup/tour-series/internal/models"
)

// tieTolerance is how close two sort keys must be to count as tied. Scores
// and points are floats (tie splits produce fractions like 266.67), so exact
// equality would split groups that are arithmetically identical.
const tieTolerance = 0.001

// Pass selects which standings a call to AssignPositions computes. The gross
// and net passes are fully independent: each sorts on its own key and writes
// only its own position/points/tie fields, so running them in either order
// yields the same stored result.
type Pass int

const (
	PassGross Pass = iota
	PassNet
)

// AssignPositions sorts the entries for one pass, groups ties, and writes
// positions, tie-group sizes, and season points in place.
//
// Sort direction depends on what the key means:
//   - Points format: descending by the entry's (already known) points.
//   - Stableford: descending by score — more points is better.
//   - Stroke play: ascending by score — fewer strokes is better.
//
// A tie group is a maximal run of sorted entries within tieTolerance of the
// group's leader. Every member gets the group's starting position and the
// group size; points are the combined curve points of the positions the group
// occupies, split evenly. Two players tied for 1st in a tour event (curve:
// 500, 300) each take position 1 and 400 points.
//
// Points-format entries whose points were supplied directly keep them: they
// are positioned and tie-counted like everyone else, but the curve never
// overwrites the source's value.
//
// The function is pure apart from mutating the entries: same entries, tier,
// format, and pass always produce the same assignment.
func AssignPositions(entries []*Entry, tier models.TournamentType, format models.ScoringFormat, pass Pass) {
	if len(entries) == 0 {
		return
	}

	key := sortKey(format, pass)

	// Stable sort keeps input order within ties, which in turn keeps the
	// assignment deterministic for identical uploads.
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := key(entries[i]), key(entries[j])
		if descending(format) {
			return a > b
		}
		return a < b
	})

	for start := 0; start < len(entries); {
		leader := key(entries[start])

		// Extend the group while entries stay within tolerance of the leader.
		end := start + 1
		for end < len(entries) && diff(key(entries[end]), leader) < tieTolerance {
			end++
		}

		groupSize := end - start
		position := start + 1

		// Tied players split the combined points of the positions the group
		// occupies: positions p..p+k-1 summed, divided by k.
		var combined float64
		for i := 0; i < groupSize; i++ {
			combined += PointsForPosition(position+i, tier)
		}
		split := combined / float64(groupSize)

		for i := start; i < end; i++ {
			e := entries[i]
			preserve := format == models.ScoringFormatPoints && e.DirectPoints
			switch pass {
			case PassGross:
				e.GrossPosition = position
				e.GrossTiedPlayers = groupSize
				if !preserve {
					e.GrossPoints = split
				}
			case PassNet:
				e.NetPosition = position
				e.NetTiedPlayers = groupSize
				if !preserve {
					e.NetPoints = split
				}
			}
		}

		start = end
	}
}

// sortKey returns the accessor for the value this pass ranks on.
func sortKey(format models.ScoringFormat, pass Pass) func(*Entry) float64 {
	if format == models.ScoringFormatPoints {
		if pass == PassGross {
			return func(e *Entry) float64 { return e.GrossPoints }
		}
		return func(e *Entry) float64 { return e.NetPoints }
	}
	if pass == PassGross {
		return func(e *Entry) float64 { return e.GrossScore }
	}
	return func(e *Entry) float64 { return e.NetScore }
}

// descending reports whether higher key values rank first for this format.
func descending(format models.ScoringFormat) bool {
	return format == models.ScoringFormatPoints || format == models.ScoringFormatStableford
}

func diff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
