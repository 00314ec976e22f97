// This file handles the /api/v1/players routes — the player registry that
// uploads resolve against.
package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/caddiecup/tour-series/internal/models"
	"github.com/caddiecup/tour-series/internal/standings"
	"github.com/caddiecup/tour-series/internal/store"
)

// GetPlayers returns the handler for GET /api/v1/players — every registered
// player, ordered by display name. An optional ?search= narrows to fuzzy
// name matches, the same lookup the upload confirmation flow uses.
func GetPlayers(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var (
			players []models.Player
			err     error
		)
		if q := c.Query("search"); q != "" {
			players, err = st.SearchPlayersByName(q)
		} else {
			players, err = st.ListPlayers()
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch players",
			})
		}
		return c.JSON(players)
	}
}

// GetPlayerResults returns the handler for GET /api/v1/players/:id/results —
// one player's full result history with tournaments attached.
func GetPlayerResults(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid player ID"})
		}

		player, err := st.FindPlayerByID(id)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch player"})
		}
		if player == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "player not found"})
		}

		results, err := st.GetResultsByPlayer(id)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch results"})
		}

		return c.JSON(fiber.Map{
			"player":  player,
			"results": results,
		})
	}
}

// UpdatePlayerRequest is the JSON body for PATCH /api/v1/players/:id.
// Both fields are optional; omitted fields are left unchanged.
type UpdatePlayerRequest struct {
	DisplayName *string `json:"display_name"`
	Club        *string `json:"club"`
}

// UpdatePlayer returns the handler for PATCH /api/v1/players/:id — renaming a
// player or moving them between clubs. Club moves change which filtered
// leaderboard the player appears on, so the cache is dropped.
func UpdatePlayer(st *store.Store, cache *standings.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid player ID"})
		}

		player, err := st.FindPlayerByID(id)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch player"})
		}
		if player == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "player not found"})
		}

		var req UpdatePlayerRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		var club *models.Club
		if req.Club != nil {
			parsed, ok := models.ParseClub(*req.Club)
			if !ok {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "club must be 'stoneridge' or 'lakeview'",
				})
			}
			club = &parsed
		}

		if err := st.UpdatePlayer(id, req.DisplayName, club); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update player"})
		}

		cache.Invalidate()

		updated, err := st.FindPlayerByID(id)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch player"})
		}
		return c.JSON(updated)
	}
}

// DeletePlayer returns the handler for DELETE /api/v1/players/:id. Deleting a
// player removes their results too, which shifts the standings — admin only.
func DeletePlayer(st *store.Store, cache *standings.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid player ID"})
		}

		player, err := st.FindPlayerByID(id)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch player"})
		}
		if player == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "player not found"})
		}

		if err := st.DeletePlayer(id); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete player"})
		}

		cache.Invalidate()
		return c.SendStatus(fiber.StatusNoContent)
	}
}
