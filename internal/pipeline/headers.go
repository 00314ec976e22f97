// Package pipeline implements the upload-processing core of the Tour Series API:
// classifying spreadsheet headers, normalizing rows into a canonical entry shape,
// interpreting scores under each scoring format, assigning positions and season
// points (with tie splitting), and committing the whole upload through an
// explicit validate-then-commit state machine.
//
// Everything in this package is deliberately free of HTTP and database concerns.
// Persistence is consumed through the small Store interface in upload.go, and
// the HTTP layer only ever calls ProcessUpload / Resume. That keeps the tricky
// logic — flexible column detection, tie math, rollback — in pure, testable code.
package pipeline

import "strings"

// Results sheets arrive from many scoring apps and hand-maintained spreadsheets,
// so column headers are wildly inconsistent: "Player", "Participant", "Full Name",
// "League Score", "Weekly Rank", ... The classifier maps each header to one of a
// small closed set of semantic tags by ordered substring matching. Downstream
// code then works with tags, never with raw header spellings.
//
// The pattern lists are ordered: within a category, the first pattern that the
// header contains decides the match. Order mostly matters for readability —
// containment means "player name" matches via "name" or "player" alike.
var (
	namePatterns = []string{
		"name", "player name", "player", "display name", "full name",
		"first name", "last name", "participant", "golfer", "member",
	}
	scorePatterns = []string{
		"score", "total", "points", "final score", "net", "gross",
		"result", "league score", "weekly score", "round score",
	}
	positionPatterns = []string{
		"position", "place", "rank", "pos", "placement", "finish",
		"league position", "weekly rank",
	}
)

// ColumnTags is the classifier's output: which column (if any) carries the
// player name, and which columns look like scores or positions. Name is
// exclusive — the first matching column in left-to-right order wins and is
// never overwritten, because sheets frequently repeat name-ish words ("Player",
// "Player Score") and only the leftmost is ever the actual name. Score and
// position may legitimately tag several columns; the normalizer decides which
// one to read.
type ColumnTags struct {
	Name      int   // index of the name column; -1 when no header matched
	Scores    []int // all score-tagged column indexes, left to right
	Positions []int // all position-tagged column indexes, left to right
}

// NoTags returns the tags for input with no usable header row.
func NoTags() ColumnTags {
	return ColumnTags{Name: -1}
}

// Empty reports whether classification found nothing at all — used to decide
// whether the first row of an upload is a header row or already data.
func (t ColumnTags) Empty() bool {
	return t.Name < 0 && len(t.Scores) == 0 && len(t.Positions) == 0
}

// ClassifyHeaders tags each header with at most one semantic category.
// Headers are matched lower-cased and trimmed; the categories are checked in
// name → score → position order, so a header like "Player Score" (which
// contains both a name word and a score word) counts as a name column if the
// name slot is still open, and as a score column otherwise.
//
// The function is pure: classifying the same header list twice yields
// identical tags.
func ClassifyHeaders(headers []string) ColumnTags {
	tags := NoTags()

	for i, raw := range headers {
		h := strings.ToLower(strings.TrimSpace(raw))
		if h == "" {
			continue
		}

		if tags.Name < 0 && matchesAny(h, namePatterns) {
			tags.Name = i
			continue
		}
		if matchesAny(h, scorePatterns) {
			tags.Scores = append(tags.Scores, i)
			continue
		}
		if matchesAny(h, positionPatterns) {
			tags.Positions = append(tags.Positions, i)
		}
	}

	return tags
}

// matchesAny reports whether the header contains any of the patterns.
func matchesAny(header string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(header, p) {
			return true
		}
	}
	return false
}
