package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AdminLevel is the minimum user_level allowed through RequireAdmin
// (4 = "Admin" in the level map).
const AdminLevel = 4

// CookieName is the session cookie set on login.
const CookieName = "token"

// RequireAuth validates the bearer token (or session cookie) and stores the
// identity in locals. Controllers behind it never re-check authorization.
func RequireAuth(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := ""
		if header := c.Get("Authorization"); header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
			}
			raw = parts[1]
		} else {
			raw = c.Cookies(CookieName)
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing token")
		}

		claims, err := ParseToken(secret, raw)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals("user", claims.User)
		c.Locals("user_level", claims.UserLevel)
		return c.Next()
	}
}

// RequireAdmin gates admin route groups. It runs after RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		level, ok := c.Locals("user_level").(int)
		if !ok || level < AdminLevel {
			return fiber.NewError(fiber.StatusForbidden, "admin access required")
		}
		return c.Next()
	}
}
