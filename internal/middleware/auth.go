package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/sanctuarysound/api/internal/auth"
	"github.com/sanctuarysound/api/pkg/response"
)

// AuthMiddleware handles bearer authentication for the API routes
type AuthMiddleware struct {
	authenticator *auth.Authenticator
}

func NewAuthMiddleware(authenticator *auth.Authenticator) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator}
}

// Authenticate validates the bearer token and stores the operator identity
// in the request locals.
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := m.authenticator.Authenticate(c.Get("Authorization"))
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrMissingToken):
				return response.Unauthorized(c, "Missing authorization header")
			case errors.Is(err, auth.ErrMalformed):
				return response.Unauthorized(c, "Invalid authorization header format")
			case errors.Is(err, auth.ErrNotConfigured):
				return response.Unauthorized(c, "Authentication not configured")
			default:
				return response.Unauthorized(c, "Invalid or expired token")
			}
		}
		setIdentity(c, id)
		return c.Next()
	}
}

func setIdentity(c *fiber.Ctx, id auth.Identity) {
	c.Locals("operatorId", id.OperatorID)
	c.Locals("email", id.Email)
	c.Locals("name", id.Name)
	c.Locals("teamId", id.TeamID)
}

// GetOperatorID extracts the operator ID from context
func GetOperatorID(c *fiber.Ctx) string {
	if id, ok := c.Locals("operatorId").(string); ok {
		return id
	}
	return ""
}

// GetTeamID extracts the team (church or venue) ID from context
func GetTeamID(c *fiber.Ctx) string {
	if id, ok := c.Locals("teamId").(string); ok {
		return id
	}
	return ""
}

// GetIdentity collects the identity stored by the auth middleware.
func GetIdentity(c *fiber.Ctx) auth.Identity {
	id := auth.Identity{OperatorID: GetOperatorID(c), TeamID: GetTeamID(c)}
	id.Email, _ = c.Locals("email").(string)
	id.Name, _ = c.Locals("name").(string)
	return id
}
