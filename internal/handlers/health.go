// Package handlers contains the HTTP route handlers for the Ryder Cup API.
// Each handler reads the request, calls the tournament service, and writes the
// response. Handlers that change a match also push the refreshed day to anyone
// watching it live.
package handlers

import "github.com/gofiber/fiber/v2"

// HealthCheck handles GET /health.
// It does no database work and needs no authentication, so load balancers and
// container health checks can call it freely.
func HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
