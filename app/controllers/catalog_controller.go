package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/shvarc/provider/app/models"
	"github.com/shvarc/provider/internal/pkg/catalog"
	"github.com/shvarc/provider/internal/pkg/ordering"
	"github.com/shvarc/provider/internal/pkg/statistics"
	"github.com/shvarc/provider/internal/pkg/usercontext"
	"github.com/shvarc/provider/internal/pkg/viewmodel"
)

// CatalogController renders the homepage and the catalog pages
type CatalogController struct {
	catalog  *catalog.Service
	ordering *ordering.Service
	stats    *statistics.Service
}

// NewCatalogController creates a new catalog controller. stats may be nil.
func NewCatalogController(catalog *catalog.Service, ordering *ordering.Service, stats *statistics.Service) *CatalogController {
	return &CatalogController{catalog: catalog, ordering: ordering, stats: stats}
}

// HandleHome shows one representative plan per service
func (cc *CatalogController) HandleHome(c *fiber.Ctx) error {
	best := cc.catalog.BestPlans(c.UserContext())

	data := fiber.Map{
		"BestPlans": viewmodel.NewPlanCards(best),
	}
	if cc.stats != nil {
		data["Stats"] = cc.stats.Get(c.UserContext())
	}
	return render(c, "home", "Shvarc", data)
}

// HandleServiceDetails lists the plans of a service, sorted by ?filter=
func (cc *CatalogController) HandleServiceDetails(c *fiber.Ctx) error {
	page, err := cc.catalog.ServicePage(c.UserContext(), c.Params("slug"), c.Query("filter"))
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownService) {
			return notFound(c)
		}
		return serverError(c, err)
	}

	return render(c, "catalog/service", page.Service.Name, fiber.Map{
		"Service": page.Service,
		"Plans":   viewmodel.NewPlanCards(page.Plans),
		"Filter":  page.Filter,
		"Sorts":   page.Sorts,
	})
}

// HandlePlanDetails shows a plan and the order affordance for the visitor
func (cc *CatalogController) HandlePlanDetails(c *fiber.Ctx) error {
	plan, ok, err := resolvePlan(c, cc.catalog)
	if !ok {
		return err
	}

	state := ordering.PlanState{}
	if isLoggedIn(c) {
		customer, err := cc.ordering.EnsureCustomer(c.UserContext(), usercontext.GetUserID(c))
		if err != nil {
			return serverError(c, err)
		}
		state, err = cc.ordering.PlanState(c.UserContext(), plan, customer)
		if err != nil {
			return serverError(c, err)
		}
	}

	return render(c, "catalog/plan", plan.Base().Name, fiber.Map{
		"Plan":   viewmodel.NewPlanCard(plan),
		"Button": viewmodel.NewOrderButton(plan, isLoggedIn(c), state),
	})
}

// resolvePlan loads the plan named by the :service and :plan params. When
// ok is false the error page has been written and err is the handler result.
func resolvePlan(c *fiber.Ctx, svc *catalog.Service) (plan models.Planner, ok bool, err error) {
	plan, err = svc.PlanBySlugs(c.UserContext(), c.Params("service"), c.Params("plan"))
	if err == nil {
		return plan, true, nil
	}

	if errors.Is(err, catalog.ErrUnknownService) || errors.Is(err, catalog.ErrPlanNotFound) {
		return nil, false, notFound(c)
	}
	return nil, false, serverError(c, err)
}
