package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"github.com/shvarc/provider/internal/pkg/env"
	"github.com/shvarc/provider/internal/pkg/middleware"
)

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	csrfConf := csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/") || strings.HasPrefix(c.Path(), "/docs/")
		},
	}

	group := app.Group("", cors.New(), csrf.New(csrfConf))

	// Catalog
	group.Get("/", h.catalog.HandleHome)
	group.Get("/services/:slug", h.catalog.HandleServiceDetails)
	group.Get("/plans/:service/:plan", h.catalog.HandlePlanDetails)

	// Orders
	group.Get("/order-submission/:service/:plan", middleware.RequireAuth, h.orders.HandleOrderForm)
	group.Post("/order-submission/:service/:plan", middleware.RequireAuth, h.orders.HandleOrderSubmit)
	group.Post("/cancel-plan/:service/:plan", middleware.RequireAuth, h.orders.HandleCancelPlan)

	// Account
	group.Get("/account", middleware.RequireAuth, h.account.HandleAccount)
	group.Post("/account", middleware.RequireAuth, h.account.HandleAccountUpdate)

	// Auth
	group.Get("/login", h.auth.HandleLogin)
	group.Post("/login", h.auth.HandleLoginPost)
	group.Get("/register", h.auth.HandleRegister)
	group.Post("/register", h.auth.HandleRegisterPost)
	group.Post("/logout", middleware.RequireAuth, h.auth.HandleLogout)

	h.registerAdminRoutes(group)
}
