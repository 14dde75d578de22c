package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shvarc/provider/internal/pkg/constants"
	"github.com/shvarc/provider/internal/pkg/middleware"
)

func (h HttpRouter) registerAdminRoutes(router fiber.Router) {
	adminGroup := router.Group(constants.AdminRoute, middleware.RequireAdmin)

	adminGroup.Get("/", h.admin.HandleAdminDashboard)
	adminGroup.Get("/orders", h.admin.HandleAdminOrders)

	// Services
	adminGroup.Get("/services", h.adminCatalog.HandleAdminServices)
	adminGroup.Get("/services/create", h.adminCatalog.HandleAdminServiceCreate)
	adminGroup.Post("/services/store", h.adminCatalog.HandleAdminServiceStore)
	adminGroup.Get("/services/edit/:id", h.adminCatalog.HandleAdminServiceEdit)
	adminGroup.Post("/services/update/:id", h.adminCatalog.HandleAdminServiceUpdate)
	adminGroup.Post("/services/delete/:id", h.adminCatalog.HandleAdminServiceDelete)

	// Plans, one table per kind
	adminGroup.Get("/plans/:kind", h.adminCatalog.HandleAdminPlans)
	adminGroup.Get("/plans/:kind/create", h.adminCatalog.HandleAdminPlanCreate)
	adminGroup.Post("/plans/:kind/store", h.adminCatalog.HandleAdminPlanStore)
	adminGroup.Get("/plans/:kind/edit/:id", h.adminCatalog.HandleAdminPlanEdit)
	adminGroup.Post("/plans/:kind/update/:id", h.adminCatalog.HandleAdminPlanUpdate)
	adminGroup.Post("/plans/:kind/delete/:id", h.adminCatalog.HandleAdminPlanDelete)
}
