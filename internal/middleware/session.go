package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/aid-portal/beneficiary_portal/internal/auth"
)

// SessionIDKey is the fiber.Locals key holding the authenticated portal session id.
const SessionIDKey = "portal_session_id"

// SessionAuth returns a middleware that validates the portal session bearer token.
func SessionAuth(tokens *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		sessionID, err := tokens.Verify(strings.TrimSpace(authz[len("Bearer "):]))
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}
		c.Locals(SessionIDKey, sessionID)
		return c.Next()
	}
}

// SessionID returns the session id stored by SessionAuth.
func SessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(SessionIDKey).(string)
	return id
}
