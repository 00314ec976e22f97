package pipeline

import (
	"math"

	"go.uber.org/zap"

	"github.com/caddiecup/tour-series/internal/models"
)

// Entry is a fully interpreted tournament entry: the RawEntry's numbers turned
// into gross/net scores, ready for position assignment. The assigner mutates
// the position/points/tie fields in place, once per pass.
type Entry struct {
	PlayerToken string

	GrossScore float64
	NetScore   float64
	Handicap   float64

	GrossPosition    int
	NetPosition      int
	GrossPoints      float64
	NetPoints        float64
	GrossTiedPlayers int
	NetTiedPlayers   int

	// DirectPoints marks a Points-format entry whose season points came
	// straight from the source. The assigner still gives it a position and a
	// tie-group size, but never overwrites its points with the curve.
	DirectPoints bool

	// Adjusted records that a NaN was substituted during interpretation —
	// the scores are usable but the source data was malformed.
	Adjusted bool
}

// InterpretScores converts one normalized row into an Entry under the
// tournament's scoring format.
//
// The score cell means different things per format:
//
//   - Stableford: the cell is net Stableford points (handicap already baked
//     in), so netScore = rawScore and grossScore backs the handicap out.
//   - Stroke play: the cell is strokes relative to par ("-3", "+5"), so
//     netScore = par + rawScore and grossScore adds the handicap back on.
//   - Points: scores may be absent entirely; when the sheet supplies gross/net
//     points directly the entry bypasses the points curve downstream.
//
// handicap is the course handicap supplied by the caller — on the structured
// upload path that's the sheet's handicap column, on the flexible path it's 0.
//
// For stroke play and Stableford a row with no parseable score cannot be
// scored at all; that's fatal for the entire upload (the caller aborts before
// anything is persisted).
//
// A NaN anywhere in the arithmetic (a literal "NaN" cell parses as one) is
// substituted — par for scores, 0 for handicap — rather than propagated,
// because one malformed cell must not poison sorting and tie grouping for the
// whole field. The substitution is logged and flagged on the entry since it
// means the source sheet is damaged.
func InterpretScores(raw *RawEntry, format models.ScoringFormat, par int, handicap float64, log *zap.Logger) (*Entry, error) {
	entry := &Entry{
		PlayerToken:      raw.PlayerToken,
		Handicap:         handicap,
		GrossTiedPlayers: 1,
		NetTiedPlayers:   1,
	}

	if math.IsNaN(entry.Handicap) {
		log.Warn("substituting 0 for NaN handicap",
			zap.String("player", raw.PlayerToken))
		entry.Handicap = 0
		entry.Adjusted = true
	}

	switch format {
	case models.ScoringFormatPoints:
		// Direct-points path: no score validation at all. Whatever points the
		// sheet carried are final; a missing net value mirrors gross.
		switch {
		case raw.GrossPoints != nil:
			entry.GrossPoints = *raw.GrossPoints
			entry.NetPoints = *raw.GrossPoints
			if raw.NetPoints != nil {
				entry.NetPoints = *raw.NetPoints
			}
			entry.DirectPoints = true
		case raw.NetPoints != nil:
			entry.GrossPoints = *raw.NetPoints
			entry.NetPoints = *raw.NetPoints
			entry.DirectPoints = true
		case raw.ScoreFound:
			// Single score column on a Points sheet: the cell IS the points.
			entry.GrossPoints = raw.RawScore
			entry.NetPoints = raw.RawScore
			entry.DirectPoints = true
		}
		// Score fields stay zero; they have no meaning in this format.

	case models.ScoringFormatStableford:
		if !raw.ScoreFound {
			return nil, &InvalidScoreError{PlayerToken: raw.PlayerToken, Row: raw.RawPosition}
		}
		entry.NetScore = raw.RawScore
		entry.GrossScore = entry.NetScore - entry.Handicap

	default: // stroke play
		if !raw.ScoreFound {
			return nil, &InvalidScoreError{PlayerToken: raw.PlayerToken, Row: raw.RawPosition}
		}
		entry.NetScore = float64(par) + raw.RawScore
		entry.GrossScore = entry.NetScore + entry.Handicap
	}

	if math.IsNaN(entry.GrossScore) || math.IsNaN(entry.NetScore) {
		log.Warn("substituting par for NaN score",
			zap.String("player", raw.PlayerToken),
			zap.Float64("raw_score", raw.RawScore))
		if math.IsNaN(entry.GrossScore) {
			entry.GrossScore = float64(par)
		}
		if math.IsNaN(entry.NetScore) {
			entry.NetScore = float64(par)
		}
		entry.Adjusted = true
	}

	return entry, nil
}
