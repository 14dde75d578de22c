package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shvarc/provider/app/repository"
	"github.com/shvarc/provider/internal/pkg/catalog"
	"github.com/shvarc/provider/internal/pkg/hcaptcha"
	"github.com/shvarc/provider/internal/pkg/ordering"
	"github.com/shvarc/provider/internal/pkg/session"
	"github.com/shvarc/provider/internal/pkg/statistics"
)

// Router installs a group of routes on the app.
type Router interface {
	InstallRouter(app *fiber.App)
}

// Dependencies are the services the routes are served by. Stats and
// Captcha may be nil.
type Dependencies struct {
	Repos    *repository.Repositories
	Catalog  *catalog.Service
	Manager  *catalog.Manager
	Ordering *ordering.Service
	Stats    *statistics.Service
	Sessions *session.Store
	Captcha  *hcaptcha.Verifier
}

func InstallRouter(app *fiber.App, deps Dependencies) {
	// HttpRouter installs the UserContext middleware, so it goes first
	setup(app, NewHttpRouter(deps), NewApiRouter(deps))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
