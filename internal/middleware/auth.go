package middleware

import (
	"strings"

	"github.com/SumantMunagala/civiclens/internal/config"
	"github.com/SumantMunagala/civiclens/pkg/auth"
	"github.com/gofiber/fiber/v2"
)

// AuthRequired rejects requests without a valid Bearer access token. The
// error body is uniform regardless of what exactly was wrong with the
// credentials.
func AuthRequired(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		claims, err := auth.ParseAccess(parts[1], cfg.JWTSecretKey)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		c.Locals("userID", claims.UserID)
		return c.Next()
	}
}
