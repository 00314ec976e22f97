// Entry point for the Tour Series API server.
// The cmd/ folder holds executable binaries; internal/ holds the packages they
// are built from.
package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"

	"github.com/caddiecup/tour-series/internal/config"
	"github.com/caddiecup/tour-series/internal/database"
	"github.com/caddiecup/tour-series/internal/handlers"
	"github.com/caddiecup/tour-series/internal/logger"
	"github.com/caddiecup/tour-series/internal/middleware"
	"github.com/caddiecup/tour-series/internal/standings"
	"github.com/caddiecup/tour-series/internal/store"
	"github.com/caddiecup/tour-series/internal/websocket"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.Debug)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zlog.Sync()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}

	// Running pending migrations on startup keeps the schema in sync with the
	// binary being deployed.
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}

	st := store.New(db)
	cache := standings.NewCache()
	pending := handlers.NewPendingRegistry()

	// The Hub pushes leaderboard refresh notices to connected clients after
	// each upload commit.
	hub := websocket.NewHub()
	go hub.Run()

	app := fiber.New(fiber.Config{
		AppName: "Tour Series API",
		// Result sheets are small, but xlsx exports with formatting can run a
		// few megabytes.
		BodyLimit: 16 * 1024 * 1024,
	})

	app.Use(fiberlogger.New())
	app.Use(cors.New())

	// Liveness check for load balancers; no auth, no database.
	app.Get("/health", handlers.HealthCheck)

	// Everything under /api/v1 requires a valid Clerk JWT. Auth also lazily
	// syncs the operator into the users table.
	api := app.Group("/api/v1", middleware.Auth(cfg, db))

	// Uploads: submitting a results file, confirming new players when an
	// upload suspends, and abandoning a suspended upload.
	api.Post("/uploads",
		middleware.RequireRole("admin", "manager"),
		handlers.Upload(st, pending, cache, hub, zlog))
	api.Post("/uploads/:id/players",
		middleware.RequireRole("admin", "manager"),
		handlers.ConfirmPlayers(st, pending, cache, hub, zlog))
	api.Delete("/uploads/:id",
		middleware.RequireRole("admin", "manager"),
		handlers.AbandonUpload(pending))

	// Season standings.
	api.Get("/leaderboard", handlers.Leaderboard(st, cache))

	// Tournaments and their results.
	api.Get("/tournaments", handlers.GetTournaments(st))
	api.Get("/tournaments/:id/results", handlers.GetTournamentResults(st))
	api.Delete("/tournaments/:id",
		middleware.RequireRole("admin"),
		handlers.DeleteTournament(st, cache, zlog))

	// Player registry.
	api.Get("/players", handlers.GetPlayers(st))
	api.Get("/players/:id/results", handlers.GetPlayerResults(st))
	api.Patch("/players/:id",
		middleware.RequireRole("admin", "manager"),
		handlers.UpdatePlayer(st, cache))
	api.Delete("/players/:id",
		middleware.RequireRole("admin"),
		handlers.DeletePlayer(st, cache))

	zlog.Info("starting server", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Fatal("server exited", zap.Error(err))
	}
}
