package api

import (
	"strings"

	"github.com/WaleedKhaledKhaled/TasksManager/modules/auth"
	"github.com/gofiber/fiber/v2"
)

const (
	// UserContextKey is the key used to store user claims in the Fiber context.
	UserContextKey = "user"
)

// AuthMiddleware validates the Bearer token on every protected route and
// stores the resulting claims for the handlers behind it. Expired tokens are
// reported distinctly from malformed or forged ones so clients know a fresh
// login will help.
func AuthMiddleware(authAdapter auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "A Bearer token is required",
			})
		}

		claims, err := authAdapter.ValidateToken(c.UserContext(), token)
		if err != nil {
			message := "Invalid token"
			if strings.Contains(err.Error(), "expired") {
				message = "Token has expired"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: message,
			})
		}

		c.Locals(UserContextKey, claims)

		return c.Next()
	}
}
