// This file handles GET /api/v1/leaderboard — the season standings.
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/caddiecup/tour-series/internal/models"
	"github.com/caddiecup/tour-series/internal/standings"
	"github.com/caddiecup/tour-series/internal/store"
)

// Leaderboard returns the handler for GET /api/v1/leaderboard.
// Query params:
//   - type: "gross" or "net" (default net)
//   - club: "stoneridge" or "lakeview" (default: all clubs)
//
// The board is computed from the full result history and cached; an upload
// commit or any tournament/player mutation invalidates the cache, so a cache
// hit is always current.
func Leaderboard(st *store.Store, cache *standings.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		board := standings.ParseBoardType(c.Query("type"))

		var club *models.Club
		if raw := c.Query("club"); raw != "" {
			parsed, ok := models.ParseClub(raw)
			if !ok {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "club must be 'stoneridge' or 'lakeview'",
				})
			}
			club = &parsed
		}

		if stats, ok := cache.Get(board, club); ok {
			return c.JSON(fiber.Map{"type": board, "standings": stats})
		}

		results, err := st.AllResults()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load results",
			})
		}

		stats := standings.Compute(results, club, board)
		cache.Put(board, club, stats)

		return c.JSON(fiber.Map{"type": board, "standings": stats})
	}
}
