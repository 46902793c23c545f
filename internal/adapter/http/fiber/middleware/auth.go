package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/seu-repo/voice-concierge/internal/service/auth"
)

const roomLocal = "room_id"

// TokenValidator validates a bearer room token.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (*auth.RoomClaims, error)
}

// RoomAuthRequired rejects requests without a valid room token and stores
// the token's room for handlers. Browsers cannot set headers on websocket
// upgrades, so a token query parameter is accepted too.
func RoomAuthRequired(tokens TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Query("token")
		if authHeader := c.Get("Authorization"); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid authorization header format"})
			}
			token = parts[1]
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing authorization header"})
		}

		claims, err := tokens.Validate(c.UserContext(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		if room := c.Params("room"); room != "" && room != claims.Room {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Token does not grant this room"})
		}

		c.Locals(roomLocal, claims.Room)
		return c.Next()
	}
}

// RoomFrom returns the authenticated room, or fallback when the request
// carries no room token.
func RoomFrom(c *fiber.Ctx, fallback string) string {
	if room, ok := c.Locals(roomLocal).(string); ok && room != "" {
		return room
	}
	return fallback
}
