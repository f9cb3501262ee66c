package jwt

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userIDKey = "userId"

// NewAuthMiddleware returns a Fiber middleware that validates Bearer JWT (HS256).
// On success sets user id (subject) into c.Locals("userId"). When the verifier
// has no secret every request belongs to LocalUserID.
func NewAuthMiddleware(v *Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !v.Enabled() {
			c.Locals(userIDKey, LocalUserID)
			return c.Next()
		}
		tokenStr := bearer(c.Get("Authorization"))
		if tokenStr == "" {
			// браузерный WebSocket не умеет слать заголовки
			tokenStr = c.Query("access_token")
		}
		if tokenStr == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "missing Authorization header"})
		}
		id, _, err := v.Verify(tokenStr)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
		}
		c.Locals(userIDKey, id)
		return c.Next()
	}
}

// Support both "Bearer <token>" and "<token>" (no prefix).
func bearer(header string) string {
	header = strings.TrimSpace(header)
	if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return header
}

// UserID returns the authenticated user set by the middleware.
func UserID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(userIDKey).(uuid.UUID)
	return id, ok
}
