// cmd/server/main.go
// Entry point for the Ryder Cup scorekeeper API: loads config, connects to the database,
// builds the tournament from its pairings, and serves the HTTP API and live feed.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	// adaptor mounts the standard net/http Prometheus handler on a Fiber route
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trentd187/ryder-cup/internal/config"
	"github.com/trentd187/ryder-cup/internal/database"
	"github.com/trentd187/ryder-cup/internal/handlers"
	"github.com/trentd187/ryder-cup/internal/metrics"
	"github.com/trentd187/ryder-cup/internal/tournament"
	"github.com/trentd187/ryder-cup/internal/websocket"
)

// migrationsDir holds the versioned SQL files applied to Postgres on startup.
const migrationsDir = "migrations"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Build the tournament before touching the database: a bad roster or pairing
	// should stop startup with a clear message.
	tour, warnings, err := tournament.New(cfg.Tournament)
	if err != nil {
		log.Fatal("Invalid tournament:", err)
	}
	for _, w := range warnings {
		log.Printf("Skipped pairing line: %s", w)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := database.Migrate(db, cfg.DatabaseURL, migrationsDir); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	svc := tournament.NewService(tour, database.NewMatchStore(db))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The hub fans out day updates to everyone watching live.
	hub := websocket.NewHub()
	go hub.Run(ctx)

	app := fiber.New(fiber.Config{
		AppName: "Ryder Cup Scorekeeper",
	})

	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(metrics.RequestDuration())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	handlers.Register(app, cfg, svc, hub)

	if cfg.JWTSecret == "" {
		log.Printf("JWT_SECRET is not set; API auth is disabled")
	}

	go func() {
		<-ctx.Done()
		log.Printf("Shutting down")
		if err := app.Shutdown(); err != nil {
			log.Printf("Shutdown failed: %v", err)
		}
	}()

	log.Printf("Starting %s (%s) on port %s", tour.Name, cfg.Env, cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
