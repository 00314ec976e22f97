// Package handlers contains the HTTP route handler functions for the Tour Series API.
// Each handler corresponds to one API endpoint and is responsible for reading the
// request, delegating to the pipeline or store, and writing a response.
package handlers

import "github.com/gofiber/fiber/v2"

// HealthCheck handles GET /health.
// It returns a simple JSON response indicating the server is alive and reachable.
// This endpoint is intentionally lightweight — no database queries, no authentication.
// Load balancers and container probes use it to decide whether to route traffic here.
func HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
