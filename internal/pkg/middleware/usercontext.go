package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shvarc/provider/internal/pkg/session"
	"github.com/shvarc/provider/internal/pkg/usercontext"
)

// UserContextMiddleware sets up the user context for every request from
// the session.
func UserContextMiddleware(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := store.User(c)
		if !ok {
			usercontext.Set(c, usercontext.UserContext{IsLoggedIn: false})
			return c.Next()
		}

		usercontext.Set(c, usercontext.UserContext{
			UserID:     id.UserID,
			Username:   id.Username,
			IsLoggedIn: true,
			IsAdmin:    id.IsAdmin,
		})
		return c.Next()
	}
}
