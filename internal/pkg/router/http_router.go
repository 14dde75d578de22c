package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shvarc/provider/app/controllers"
	"github.com/shvarc/provider/internal/pkg/middleware"
)

type HttpRouter struct {
	deps Dependencies

	catalog *controllers.CatalogController
	orders  *controllers.OrderController
	account *controllers.AccountController
	auth    *controllers.AuthController

	admin        *controllers.AdminController
	adminCatalog *controllers.AdminCatalogController
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware(h.deps.Sessions))

	h.registerPublicRoutes(app)
	h.registerCSRFProtectedRoutes(app)
}

func NewHttpRouter(deps Dependencies) *HttpRouter {
	return &HttpRouter{
		deps:    deps,
		catalog: controllers.NewCatalogController(deps.Catalog, deps.Ordering, deps.Stats),
		orders:  controllers.NewOrderController(deps.Catalog, deps.Ordering, deps.Stats),
		account: controllers.NewAccountController(deps.Repos.User, deps.Ordering),
		auth:    controllers.NewAuthController(deps.Repos.User, deps.Ordering, deps.Sessions, deps.Captcha, deps.Stats),

		admin:        controllers.NewAdminController(deps.Repos, deps.Ordering),
		adminCatalog: controllers.NewAdminCatalogController(deps.Manager, deps.Stats),
	}
}
