package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/ryder-cup/internal/config"
	"github.com/trentd187/ryder-cup/internal/middleware"
	"github.com/trentd187/ryder-cup/internal/models"
	"github.com/trentd187/ryder-cup/internal/tournament"
	"github.com/trentd187/ryder-cup/internal/websocket"
)

// Register mounts the API and the live feed on app.
//
//	GET    /health
//	GET    /ws/days/:day                                  live day updates (WebSocket)
//	GET    /api/v1/tournament                             rosters, days, pairings, challenges
//	GET    /api/v1/scoreboard                             tournament and per-day totals
//	GET    /api/v1/days/:day                              one day with its matches
//	GET    /api/v1/days/:day/matches/:index               one match
//	PUT    /api/v1/days/:day/matches/:index/holes/:hole   save strokes for a hole
//	POST   /api/v1/days/:day/matches/:index/challenges    call a challenge
//	DELETE /api/v1/days/:day/matches/:index               clear a match (admin)
//	DELETE /api/v1/matches                                clear everything (admin)
//	POST   /api/v1/pairings/parse                         preview pairing text
func Register(app *fiber.App, cfg *config.Config, svc *tournament.Service, hub *websocket.Hub) {
	app.Get("/health", HealthCheck)
	app.Get("/ws/days/:day", LiveDay(svc), websocket.Serve(hub))

	api := app.Group("/api/v1", middleware.Auth(cfg))

	api.Get("/tournament", GetTournament(svc))
	api.Get("/scoreboard", GetScoreboard(svc))
	api.Get("/days/:day", GetDay(svc))
	api.Get("/days/:day/matches/:index", GetMatch(svc))

	api.Put("/days/:day/matches/:index/holes/:hole", SaveHole(svc, hub))
	api.Post("/days/:day/matches/:index/challenges", ActivateChallenge(svc, hub))

	admin := middleware.RequireRole(models.UserRoleAdmin)
	api.Delete("/days/:day/matches/:index", admin, ResetMatch(svc, hub))
	api.Delete("/matches", admin, ResetAll(svc, hub))

	api.Post("/pairings/parse", ParsePairings)
}
