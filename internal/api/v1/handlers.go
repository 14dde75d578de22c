package apiv1

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/shvarc/provider/app/models"
	"github.com/shvarc/provider/app/repository"
)

// APIServer implements the ServerInterface
type APIServer struct {
	services repository.ServiceRepository
	plans    repository.PlanRepository
}

// NewAPIServer creates a new API server instance
func NewAPIServer(services repository.ServiceRepository, plans repository.PlanRepository) *APIServer {
	return &APIServer{services: services, plans: plans}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// ListServices returns every service
func (s *APIServer) ListServices(c *fiber.Ctx) error {
	services, err := s.services.List(c.UserContext())
	if err != nil {
		return internalError(c, err)
	}

	response := make([]Service, 0, len(services))
	for _, svc := range services {
		response = append(response, newService(svc))
	}
	return c.JSON(response)
}

// GetService returns one service by id
func (s *APIServer) GetService(c *fiber.Ctx, id uint) error {
	svc, err := s.services.GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c)
		}
		return internalError(c, err)
	}
	return c.JSON(newService(*svc))
}

// ListPlans returns every plan of one kind in primary key order
func (s *APIServer) ListPlans(c *fiber.Ctx, kind models.PlanKind) error {
	plans, err := s.plans.List(c.UserContext(), kind, repository.PlanSort{})
	if err != nil {
		return internalError(c, err)
	}

	response := make([]interface{}, 0, len(plans))
	for _, p := range plans {
		response = append(response, planResponse(p))
	}
	return c.JSON(response)
}

// GetPlan returns one plan of a kind by id
func (s *APIServer) GetPlan(c *fiber.Ctx, kind models.PlanKind, id uint) error {
	plan, err := s.plans.GetByID(c.UserContext(), kind, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c)
		}
		return internalError(c, err)
	}
	return c.JSON(planResponse(plan))
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(Error{Error: "not_found", Message: "Not found."})
}

func internalError(c *fiber.Ctx, err error) error {
	log.Errorf("api %s: %v", c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(Error{Error: "internal_error", Message: "Internal server error"})
}
