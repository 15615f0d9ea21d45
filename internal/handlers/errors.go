package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/ryder-cup/internal/scoring"
	"github.com/trentd187/ryder-cup/internal/tournament"
)

// respondError maps a service error to a status and a {"error": ...} body.
// Anything unrecognised is a storage failure: it is logged and the client only
// sees failMsg.
func respondError(c *fiber.Ctx, err error, failMsg string) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, tournament.ErrUnknownDay),
		errors.Is(err, tournament.ErrUnknownMatch):
		status = fiber.StatusNotFound
	case errors.Is(err, scoring.ErrChallengeUsed):
		status = fiber.StatusConflict
	case errors.Is(err, scoring.ErrInvalidHole),
		errors.Is(err, scoring.ErrUnknownChallenge),
		errors.Is(err, tournament.ErrInvalidStrokes),
		errors.Is(err, tournament.ErrUnknownPlayer):
		status = fiber.StatusBadRequest
	}

	if status == fiber.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Method(), c.Path(), err)
		return c.Status(status).JSON(fiber.Map{"error": failMsg})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
