package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeFlexibleHeaders(t *testing.T) {
	headerVariants := [][]string{
		{"Participant", "Points", "Rank"},
		{"Participant", "League Score", "Weekly Rank"},
		{"Full Name", "Total", "Place"},
	}

	for _, headers := range headerVariants {
		n := NewRowNormalizer(headers)

		entry := n.Normalize([]string{"Tom Anderson", "42", "1"}, 1)
		require.NotNil(t, entry)
		require.Equal(t, "Tom Anderson", entry.PlayerToken, "headers %v", headers)
		require.True(t, entry.ScoreFound)
		require.Equal(t, 42.0, entry.RawScore)
		require.Equal(t, 1, entry.RawPosition)
	}
}

func TestNormalizeLastScoreColumnWins(t *testing.T) {
	n := NewRowNormalizer([]string{"Name", "Gross", "Net", "Total"})

	entry := n.Normalize([]string{"Ann Brook", "80", "72", "68"}, 1)
	require.NotNil(t, entry)
	require.Equal(t, 68.0, entry.RawScore)
}

func TestNormalizeHeaderless(t *testing.T) {
	n := NewHeaderlessNormalizer()

	entry := n.Normalize([]string{"Eric Moore", "72", "1"}, 1)
	require.NotNil(t, entry)
	require.Equal(t, "Eric Moore", entry.PlayerToken)
	require.True(t, entry.ScoreFound)
	require.Equal(t, 72.0, entry.RawScore)
	require.Equal(t, 1, entry.RawPosition)
}

func TestNormalizeNameCleaning(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Tom Anderson", "Tom Anderson"},
		{"Player Tom Anderson", "Tom Anderson"},
		{"Tom Anderson Score", "Tom Anderson"},
		{"Player Golfer Tom Anderson", "Tom Anderson"},
		{"  Participant Sue Park Points ", "Sue Park"},
	}

	n := NewRowNormalizer([]string{"Name", "Score"})
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			entry := n.Normalize([]string{tt.raw, "70"}, 1)
			require.NotNil(t, entry)
			require.Equal(t, tt.want, entry.PlayerToken)
		})
	}
}

func TestNormalizePlaceholderName(t *testing.T) {
	n := NewHeaderlessNormalizer()

	// Nothing name-like on the row at all.
	entry := n.Normalize([]string{"72", "1"}, 3)
	require.NotNil(t, entry)
	require.Equal(t, "Player 3", entry.PlayerToken)
	require.True(t, entry.ScoreFound)
	require.Equal(t, 72.0, entry.RawScore)
}

func TestNormalizeBlankRow(t *testing.T) {
	n := NewHeaderlessNormalizer()
	require.Nil(t, n.Normalize([]string{"", "  ", ""}, 1))
}

func TestNormalizeMissingScore(t *testing.T) {
	n := NewRowNormalizer([]string{"Name", "Score"})

	entry := n.Normalize([]string{"Tom Anderson", "DNF"}, 4)
	require.NotNil(t, entry)
	require.False(t, entry.ScoreFound)
	require.Equal(t, 4, entry.RawPosition) // ordinal default
}

func TestNormalizeShortRow(t *testing.T) {
	n := NewRowNormalizer([]string{"Name", "Score", "Position"})

	// Row narrower than the header: tagged columns beyond the row are skipped.
	entry := n.Normalize([]string{"Tom Anderson"}, 2)
	require.NotNil(t, entry)
	require.Equal(t, "Tom Anderson", entry.PlayerToken)
	require.False(t, entry.ScoreFound)
	require.Equal(t, 2, entry.RawPosition)
}

func TestNormalizeStructuredColumns(t *testing.T) {
	n := NewRowNormalizer([]string{"Name", "Score", "Handicap"})

	entry := n.Normalize([]string{"Sue Park", "-2", "5.4"}, 1)
	require.NotNil(t, entry)
	require.Equal(t, -2.0, entry.RawScore)
	require.Equal(t, 5.4, entry.RawHandicap)
}

func TestNormalizeDirectPointsColumns(t *testing.T) {
	n := NewRowNormalizer([]string{"Name", "Gross Points", "Net Points"})

	entry := n.Normalize([]string{"Sue Park", "93.75", "88.5"}, 1)
	require.NotNil(t, entry)
	require.NotNil(t, entry.GrossPoints)
	require.Equal(t, 93.75, *entry.GrossPoints)
	require.NotNil(t, entry.NetPoints)
	require.Equal(t, 88.5, *entry.NetPoints)
}
