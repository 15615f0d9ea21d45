package middleware

// roles.go: role-based access control.
// There are two roles: scorers enter strokes and call challenges, admins can also
// clear matches.

import (
	"slices"

	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/ryder-cup/internal/models"
)

// RequireRole returns a middleware handler that allows only callers whose role is
// one of roles, and answers 403 Forbidden otherwise:
//
//	api.Delete("/matches", middleware.RequireRole(models.UserRoleAdmin), handlers.ResetAll(svc, hub))
//
// RequireRole must run after Auth, which is what sets the role in c.Locals.
func RequireRole(roles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userRole, ok := c.Locals(LocalRole).(string)
		if !ok || userRole == "" {
			// Auth was not applied or did not set a role.
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "forbidden",
			})
		}

		if slices.Contains(roles, models.UserRole(userRole)) {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "insufficient permissions",
		})
	}
}
