package handlers

import (
	"context"
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/ryder-cup/internal/tournament"
)

// Broadcaster pushes a payload to everyone watching a day. *websocket.Hub implements it.
type Broadcaster interface {
	BroadcastToDay(day int, data []byte)
}

// publishDay sends the refreshed day view to live watchers. A failure here never
// fails the request: the write already succeeded.
func publishDay(ctx context.Context, svc *tournament.Service, hub Broadcaster, day int) {
	if hub == nil {
		return
	}
	view, err := svc.Day(ctx, day)
	if err != nil {
		log.Printf("Failed to build day %d for broadcast: %v", day, err)
		return
	}
	data, err := json.Marshal(view)
	if err != nil {
		log.Printf("Failed to encode day %d for broadcast: %v", day, err)
		return
	}
	hub.BroadcastToDay(day, data)
}

// matchParams reads :day and :index.
func matchParams(c *fiber.Ctx) (day, index int, ok bool, err error) {
	if day, ok, err = intParam(c, "day"); !ok {
		return 0, 0, false, err
	}
	if index, ok, err = intParam(c, "index"); !ok {
		return 0, 0, false, err
	}
	return day, index, true, nil
}

// GetMatch returns a handler for GET /api/v1/days/:day/matches/:index.
// A match nobody has scored yet comes back with empty holes and zero points.
func GetMatch(svc *tournament.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		day, index, ok, err := matchParams(c)
		if !ok {
			return err
		}

		view, err := svc.Match(c.UserContext(), day, index)
		if err != nil {
			return respondError(c, err, "failed to fetch match")
		}
		return c.JSON(view)
	}
}

// SaveHole returns a handler for PUT /api/v1/days/:day/matches/:index/holes/:hole.
// The body carries both sides' strokes; saving the same hole again replaces it.
func SaveHole(svc *tournament.Service, hub Broadcaster) fiber.Handler {
	return func(c *fiber.Ctx) error {
		day, index, ok, err := matchParams(c)
		if !ok {
			return err
		}
		hole, ok, err := intParam(c, "hole")
		if !ok {
			return err
		}

		var req HoleRequest
		if ok, err := parseBody(c, &req); !ok {
			return err
		}

		view, err := svc.SaveHole(c.UserContext(), day, index, hole, req.StrokesA, req.StrokesB)
		if err != nil {
			return respondError(c, err, "failed to save score")
		}

		publishDay(c.UserContext(), svc, hub, day)
		return c.JSON(view)
	}
}

// ActivateChallenge returns a handler for POST /api/v1/days/:day/matches/:index/challenges.
// A player calling a second challenge in the same half gets 409 Conflict.
func ActivateChallenge(svc *tournament.Service, hub Broadcaster) fiber.Handler {
	return func(c *fiber.Ctx) error {
		day, index, ok, err := matchParams(c)
		if !ok {
			return err
		}

		var req ChallengeRequest
		if ok, err := parseBody(c, &req); !ok {
			return err
		}

		view, err := svc.ActivateChallenge(c.UserContext(), day, index, req.Hole, req.Player, req.Challenge)
		if err != nil {
			return respondError(c, err, "failed to save challenge")
		}

		publishDay(c.UserContext(), svc, hub, day)
		return c.Status(fiber.StatusCreated).JSON(view)
	}
}

// ResetMatch returns a handler for DELETE /api/v1/days/:day/matches/:index.
// Admin only (enforced by RequireRole on the route).
func ResetMatch(svc *tournament.Service, hub Broadcaster) fiber.Handler {
	return func(c *fiber.Ctx) error {
		day, index, ok, err := matchParams(c)
		if !ok {
			return err
		}

		if err := svc.ResetMatch(c.UserContext(), day, index); err != nil {
			return respondError(c, err, "failed to clear match")
		}

		publishDay(c.UserContext(), svc, hub, day)
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ResetAll returns a handler for DELETE /api/v1/matches. Admin only.
func ResetAll(svc *tournament.Service, hub Broadcaster) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.ResetAll(c.UserContext()); err != nil {
			return respondError(c, err, "failed to clear matches")
		}

		for _, d := range svc.Tournament().Days {
			publishDay(c.UserContext(), svc, hub, d.Number)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
