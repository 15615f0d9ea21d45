// Package middleware contains HTTP middleware for the Ryder Cup API.
// Middleware runs between the HTTP server and the route handlers, which makes it the
// place for cross-cutting concerns like authentication and role checks.
package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	// jwt parses and verifies the bearer tokens handed out to scorers
	"github.com/golang-jwt/jwt/v5"

	"github.com/trentd187/ryder-cup/internal/config"
	"github.com/trentd187/ryder-cup/internal/models"
)

// Keys used with c.Locals to pass the caller's identity to handlers.
const (
	LocalUser = "user"
	LocalRole = "userRole"
)

// Claims is the payload we expect inside a scorer token.
// Subject is a free-form scorer name used in logs; Role is "admin" or "scorer".
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Auth returns a Fiber middleware handler that:
//  1. Reads the token from the "Authorization: Bearer <token>" header
//  2. Verifies its HS256 signature against cfg.JWTSecret
//  3. Stores the subject and role in c.Locals for RequireRole and the handlers
//
// When cfg.JWTSecret is empty auth is off: every request runs as an admin. That is
// how the scorekeeper is used on a single phone at the course.
func Auth(cfg *config.Config) fiber.Handler {
	secret := []byte(cfg.JWTSecret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *fiber.Ctx) error {
		if len(secret) == 0 {
			c.Locals(LocalUser, "local")
			c.Locals(LocalRole, string(models.UserRoleAdmin))
			return c.Next()
		}

		authHeader := c.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or invalid authorization header",
			})
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims := &Claims{}
		_, err := parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
			return secret, nil
		})
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "token expired"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": msg,
			})
		}

		if claims.Subject == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "token missing subject",
			})
		}

		c.Locals(LocalUser, claims.Subject)
		c.Locals(LocalRole, string(roleFromClaim(claims.Role)))
		return c.Next()
	}
}

// roleFromClaim converts the raw role claim into a UserRole.
// Anything unrecognised falls back to scorer, the least privileged role.
func roleFromClaim(s string) models.UserRole {
	switch models.UserRole(s) {
	case models.UserRoleAdmin:
		return models.UserRoleAdmin
	default:
		return models.UserRoleScorer
	}
}
