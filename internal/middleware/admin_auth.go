package middleware

import (
	"os"

	"github.com/gofiber/fiber/v2"
)

// RequireAdminKey gates admin endpoints behind the ADMIN_API_KEY env var.
// When no key is configured the gate is open (local development).
func RequireAdminKey() fiber.Handler {
	return func(c *fiber.Ctx) error {
		expected := os.Getenv("ADMIN_API_KEY")
		if expected == "" {
			return c.Next()
		}
		if c.Get("X-Admin-Key") != expected {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid admin key",
			})
		}
		return c.Next()
	}
}
