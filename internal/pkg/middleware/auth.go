package middleware

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/shvarc/provider/internal/pkg/constants"
	icuser "github.com/shvarc/provider/internal/pkg/usercontext"
)

// RequireAuth ensures a logged-in web session; redirects to /login with the
// requested path in next if missing.
func RequireAuth(c *fiber.Ctx) error {
	if !loggedIn(c) {
		return redirectToLogin(c)
	}
	return c.Next()
}

// RequireAdmin ensures a logged-in admin; other users are sent home.
func RequireAdmin(c *fiber.Ctx) error {
	if !loggedIn(c) {
		return redirectToLogin(c)
	}
	if isAdmin, ok := c.Locals(icuser.KeyIsAdmin).(bool); !ok || !isAdmin {
		return c.Redirect(constants.HomeRoute, fiber.StatusSeeOther)
	}
	return c.Next()
}

func loggedIn(c *fiber.Ctx) bool {
	b, ok := c.Locals(icuser.KeyFromProtected).(bool)
	return ok && b
}

func redirectToLogin(c *fiber.Ctx) error {
	target := constants.LoginRoute + "?next=" + url.QueryEscape(c.OriginalURL())
	return c.Redirect(target, fiber.StatusSeeOther)
}

// SafeNext returns next when it is a local absolute path, otherwise the
// home route.
func SafeNext(next string) string {
	if next == "" || next[0] != '/' || (len(next) > 1 && (next[1] == '/' || next[1] == '\\')) {
		return constants.HomeRoute
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return constants.HomeRoute
	}
	return next
}
