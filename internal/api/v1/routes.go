package apiv1

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/shvarc/provider/app/models"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /ping)
	GetPing(c *fiber.Ctx) error
	// (GET /services)
	ListServices(c *fiber.Ctx) error
	// (GET /services/{id})
	GetService(c *fiber.Ctx, id uint) error
	// (GET /internet), (GET /wireless), (GET /tv)
	ListPlans(c *fiber.Ctx, kind models.PlanKind) error
	// (GET /internet/{id}), (GET /wireless/{id}), (GET /tv/{id})
	GetPlan(c *fiber.Ctx, kind models.PlanKind, id uint) error
}

// ServerInterfaceWrapper converts path parameters before calling the handlers.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) GetPing(c *fiber.Ctx) error {
	return w.Handler.GetPing(c)
}

func (w *ServerInterfaceWrapper) ListServices(c *fiber.Ctx) error {
	return w.Handler.ListServices(c)
}

func (w *ServerInterfaceWrapper) GetService(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return badID(c)
	}
	return w.Handler.GetService(c, id)
}

func (w *ServerInterfaceWrapper) listPlans(kind models.PlanKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return w.Handler.ListPlans(c, kind)
	}
}

func (w *ServerInterfaceWrapper) getPlan(kind models.PlanKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return badID(c)
		}
		return w.Handler.GetPlan(c, kind, id)
	}
}

// RegisterHandlers adds each server route to the router.
func RegisterHandlers(router fiber.Router, si ServerInterface) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.Get("/ping", wrapper.GetPing)
	router.Get("/services", wrapper.ListServices)
	router.Get("/services/:id", wrapper.GetService)

	for _, kind := range []models.PlanKind{models.PlanKindInternet, models.PlanKindWireless, models.PlanKindTV} {
		router.Get("/"+string(kind), wrapper.listPlans(kind))
		router.Get("/"+string(kind)+"/:id", wrapper.getPlan(kind))
	}
}

func pathID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	return uint(id), err
}

func badID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(Error{Error: "bad_request", Message: "Invalid format for parameter id"})
}
