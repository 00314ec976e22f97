package pipeline

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/caddiecup/tour-series/internal/models"
)

func TestInterpretStrokePlay(t *testing.T) {
	raw := &RawEntry{PlayerToken: "Tom Anderson", RawScore: -3, ScoreFound: true}

	entry, err := InterpretScores(raw, models.ScoringFormatStroke, 72, 5, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, 69.0, entry.NetScore)   // par + relative score
	require.Equal(t, 74.0, entry.GrossScore) // handicap added back on
	require.Equal(t, 5.0, entry.Handicap)
	require.False(t, entry.DirectPoints)
	require.False(t, entry.Adjusted)
}

func TestInterpretStableford(t *testing.T) {
	raw := &RawEntry{PlayerToken: "Sue Park", RawScore: 36, ScoreFound: true}

	entry, err := InterpretScores(raw, models.ScoringFormatStableford, 72, 4, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, 36.0, entry.NetScore)   // the cell already is net points
	require.Equal(t, 32.0, entry.GrossScore) // handicap backed out
}

func TestInterpretMissingScoreIsFatal(t *testing.T) {
	raw := &RawEntry{PlayerToken: "Tom Anderson", RawPosition: 3}

	for _, format := range []models.ScoringFormat{models.ScoringFormatStroke, models.ScoringFormatStableford} {
		_, err := InterpretScores(raw, format, 72, 0, zap.NewNop())
		require.Error(t, err)
		require.ErrorIs(t, err, ErrInvalidScore)

		var invalid *InvalidScoreError
		require.ErrorAs(t, err, &invalid)
		require.Equal(t, "Tom Anderson", invalid.PlayerToken)
		require.Equal(t, 3, invalid.Row)
	}
}

func TestInterpretDirectPoints(t *testing.T) {
	gross, net := 93.75, 88.5
	raw := &RawEntry{PlayerToken: "Sue Park", GrossPoints: &gross, NetPoints: &net}

	entry, err := InterpretScores(raw, models.ScoringFormatPoints, 72, 0, zap.NewNop())
	require.NoError(t, err)
	require.True(t, entry.DirectPoints)
	require.Equal(t, 93.75, entry.GrossPoints)
	require.Equal(t, 88.5, entry.NetPoints)
}

func TestInterpretPointsFromScoreCell(t *testing.T) {
	// A Points sheet with a single score column: the cell is the points.
	raw := &RawEntry{PlayerToken: "Sue Park", RawScore: 50, ScoreFound: true}

	entry, err := InterpretScores(raw, models.ScoringFormatPoints, 72, 0, zap.NewNop())
	require.NoError(t, err)
	require.True(t, entry.DirectPoints)
	require.Equal(t, 50.0, entry.GrossPoints)
	require.Equal(t, 50.0, entry.NetPoints)
}

func TestInterpretPointsMissingScoreIsNotFatal(t *testing.T) {
	raw := &RawEntry{PlayerToken: "Sue Park"}

	entry, err := InterpretScores(raw, models.ScoringFormatPoints, 72, 0, zap.NewNop())
	require.NoError(t, err)
	require.False(t, entry.DirectPoints)
	require.Zero(t, entry.GrossPoints)
	require.Zero(t, entry.NetPoints)
}

func TestInterpretGrossPointsMirrorToNet(t *testing.T) {
	gross := 100.0
	raw := &RawEntry{PlayerToken: "Sue Park", GrossPoints: &gross}

	entry, err := InterpretScores(raw, models.ScoringFormatPoints, 72, 0, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, 100.0, entry.GrossPoints)
	require.Equal(t, 100.0, entry.NetPoints)
}

func TestInterpretNaNScoreSubstituted(t *testing.T) {
	raw := &RawEntry{PlayerToken: "Tom Anderson", RawScore: math.NaN(), ScoreFound: true}

	entry, err := InterpretScores(raw, models.ScoringFormatStroke, 72, 0, zap.NewNop())
	require.NoError(t, err)
	require.True(t, entry.Adjusted)
	require.Equal(t, 72.0, entry.GrossScore)
	require.Equal(t, 72.0, entry.NetScore)
	require.False(t, math.IsNaN(entry.GrossScore))
}

func TestInterpretNaNHandicapSubstituted(t *testing.T) {
	raw := &RawEntry{PlayerToken: "Tom Anderson", RawScore: 0, ScoreFound: true}

	entry, err := InterpretScores(raw, models.ScoringFormatStroke, 72, math.NaN(), zap.NewNop())
	require.NoError(t, err)
	require.True(t, entry.Adjusted)
	require.Equal(t, 0.0, entry.Handicap)
	require.Equal(t, 72.0, entry.NetScore)
	require.Equal(t, 72.0, entry.GrossScore)
}

func TestInterpretErrorsDoNotWrapEachOther(t *testing.T) {
	raw := &RawEntry{PlayerToken: "Tom Anderson"}

	_, err := InterpretScores(raw, models.ScoringFormatStroke, 72, 0, zap.NewNop())
	require.False(t, errors.Is(err, ErrEmptyInput))
	require.False(t, errors.Is(err, ErrPersistenceFailure))
}
