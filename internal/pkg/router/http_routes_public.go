package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shvarc/provider/internal/pkg/constants"
	"github.com/shvarc/provider/internal/pkg/middleware"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Order guards, no form behind them
	app.Get(constants.AnonymOrderRoute, h.orders.HandleAnonymOrder)
	app.Get(constants.ServiceInUseRoute, middleware.RequireAuth, h.orders.HandleServiceInUse)
}
