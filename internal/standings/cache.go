package standings

import (
	"sync"

	"github.com/caddiecup/tour-series/internal/models"
)

// Cache memoizes computed leaderboards per (board, club) key. The only write
// operation is Invalidate, which drops everything: after any result write the
// next read recomputes from scratch. There is deliberately no "update one
// entry" path — partial patching is how leaderboards drift out of sync with
// the results that back them.
type Cache struct {
	mu     sync.RWMutex
	boards map[string][]PlayerStats
}

func NewCache() *Cache {
	return &Cache{boards: make(map[string][]PlayerStats)}
}

// Get returns the cached board and whether it was present.
func (c *Cache) Get(board BoardType, club *models.Club) ([]PlayerStats, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	stats, ok := c.boards[cacheKey(board, club)]
	return stats, ok
}

// Put stores a freshly computed board.
func (c *Cache) Put(board BoardType, club *models.Club, stats []PlayerStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.boards[cacheKey(board, club)] = stats
}

// Invalidate empties the whole cache. Called after every upload commit and
// every tournament/player mutation.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.boards = make(map[string][]PlayerStats)
}

func cacheKey(board BoardType, club *models.Club) string {
	if club == nil {
		return string(board)
	}
	return string(board) + ":" + string(*club)
}
