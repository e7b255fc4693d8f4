package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sanctuarysound/api/internal/auth"
)

// AuthHandler handles ForwardAuth verification for the API gateway
type AuthHandler struct {
	authenticator *auth.Authenticator
}

func NewAuthHandler(authenticator *auth.Authenticator) *AuthHandler {
	return &AuthHandler{authenticator: authenticator}
}

// Verify handles GET /auth/verify, called by Traefik ForwardAuth.
// Returns 200 with X-User-* headers on success, 401 on failure.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	id, err := h.authenticator.Authenticate(c.Get("Authorization"))
	if err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	c.Set("X-User-Id", id.OperatorID)
	c.Set("X-User-Email", id.Email)
	c.Set("X-User-Name", id.Name)
	c.Set("X-User-Team", id.TeamID)
	return c.SendStatus(fiber.StatusOK)
}
