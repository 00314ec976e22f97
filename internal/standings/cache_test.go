package standings

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/caddiecup/tour-series/internal/models"
)

func TestCache(t *testing.T) {
	c := NewCache()

	_, ok := c.Get(BoardNet, nil)
	require.False(t, ok)

	stats := []PlayerStats{{DisplayName: "Tom Anderson"}}
	c.Put(BoardNet, nil, stats)

	got, ok := c.Get(BoardNet, nil)
	require.True(t, ok)
	require.Equal(t, stats, got)

	// Same board narrowed to a club is a distinct key.
	club := models.ClubLakeview
	_, ok = c.Get(BoardNet, &club)
	require.False(t, ok)

	c.Put(BoardNet, &club, nil)
	_, ok = c.Get(BoardNet, &club)
	require.True(t, ok)

	c.Invalidate()
	_, ok = c.Get(BoardNet, nil)
	require.False(t, ok)
	_, ok = c.Get(BoardNet, &club)
	require.False(t, ok)
}
