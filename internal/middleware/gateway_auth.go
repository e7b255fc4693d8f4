package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sanctuarysound/api/internal/auth"
	"github.com/sanctuarysound/api/pkg/response"
)

// GatewayAuthMiddleware reads the operator identity from X-User-* headers
// set by Traefik ForwardAuth and populates Fiber context locals.
func GatewayAuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		operatorID := c.Get("X-User-Id")
		if operatorID == "" {
			return response.Unauthorized(c, "Missing user identity headers")
		}

		setIdentity(c, auth.Identity{
			OperatorID: operatorID,
			Email:      c.Get("X-User-Email"),
			Name:       c.Get("X-User-Name"),
			TeamID:     c.Get("X-User-Team"),
		})
		return c.Next()
	}
}
