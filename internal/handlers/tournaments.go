// This file handles the /api/v1/tournaments routes — listing tournaments,
// fetching one tournament's results, and deleting a tournament outright.
package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/caddiecup/tour-series/internal/standings"
	"github.com/caddiecup/tour-series/internal/store"
)

// GetTournaments returns the handler for GET /api/v1/tournaments — every
// tournament, newest first.
func GetTournaments(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tournaments, err := st.ListTournaments()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch tournaments",
			})
		}
		return c.JSON(tournaments)
	}
}

// GetTournamentResults returns the handler for GET /api/v1/tournaments/:id/results.
// Results come back with player identities attached, ordered by gross position.
func GetTournamentResults(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid tournament ID"})
		}

		tournament, err := st.FindTournamentByID(id)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch tournament"})
		}
		if tournament == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "tournament not found"})
		}

		results, err := st.GetResultsByTournament(id)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch results"})
		}

		return c.JSON(fiber.Map{
			"tournament": tournament,
			"results":    results,
		})
	}
}

// DeleteTournament returns the handler for DELETE /api/v1/tournaments/:id.
// Removing a tournament takes its results with it; the leaderboard cache is
// dropped so the next read recomputes without those events.
func DeleteTournament(st *store.Store, cache *standings.Cache, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid tournament ID"})
		}

		tournament, err := st.FindTournamentByID(id)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch tournament"})
		}
		if tournament == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "tournament not found"})
		}

		// Results are removed explicitly rather than leaning on the schema's
		// cascade, so a partial failure surfaces here and not as silent orphans.
		if err := st.DeleteResultsByTournament(id); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete results"})
		}
		if err := st.DeleteTournament(id); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete tournament"})
		}

		cache.Invalidate()
		log.Info("tournament deleted",
			zap.String("tournament_id", id.String()),
			zap.String("name", tournament.Name))

		return c.SendStatus(fiber.StatusNoContent)
	}
}
