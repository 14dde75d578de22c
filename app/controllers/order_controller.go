package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/shvarc/provider/app/models"
	"github.com/shvarc/provider/internal/pkg/catalog"
	"github.com/shvarc/provider/internal/pkg/constants"
	"github.com/shvarc/provider/internal/pkg/forms"
	"github.com/shvarc/provider/internal/pkg/ordering"
	"github.com/shvarc/provider/internal/pkg/statistics"
	"github.com/shvarc/provider/internal/pkg/usercontext"
)

// OrderController handles order submission, cancellation and the order
// guard redirects
type OrderController struct {
	catalog  *catalog.Service
	ordering *ordering.Service
	stats    *statistics.Service
}

// NewOrderController creates a new order controller. stats may be nil.
func NewOrderController(catalog *catalog.Service, ordering *ordering.Service, stats *statistics.Service) *OrderController {
	return &OrderController{catalog: catalog, ordering: ordering, stats: stats}
}

// HandleOrderForm shows the order form prefilled from the account
func (oc *OrderController) HandleOrderForm(c *fiber.Ctx) error {
	plan, customer, ok, err := oc.load(c)
	if !ok {
		return err
	}

	state, err := oc.ordering.PlanState(c.UserContext(), plan, customer)
	if err != nil {
		return serverError(c, err)
	}
	if state.ServiceInUse {
		return c.Redirect(constants.ServiceInUseRoute, fiber.StatusSeeOther)
	}

	return oc.renderForm(c, plan, forms.NewOrderForm(plan, customer), nil)
}

// HandleOrderSubmit validates the form and places the order
func (oc *OrderController) HandleOrderSubmit(c *fiber.Ctx) error {
	plan, customer, ok, err := oc.load(c)
	if !ok {
		return err
	}

	var form forms.OrderForm
	if err := c.BodyParser(&form); err != nil {
		return renderError(c, fiber.StatusBadRequest, "Invalid form data")
	}
	form.Plan = plan.Base().Name
	form.Clean()

	if errs := forms.Validate(form); errs != nil {
		return oc.renderForm(c, plan, form, errs)
	}

	_, err = oc.ordering.SubmitOrder(c.UserContext(), plan, customer, form.Submission())
	if err != nil {
		if errors.Is(err, ordering.ErrServiceInUse) {
			return c.Redirect(constants.ServiceInUseRoute, fiber.StatusSeeOther)
		}
		return serverError(c, err)
	}

	if oc.stats != nil {
		oc.stats.InvalidateOrders(c.UserContext())
	}

	fm := flashMessage("success", "Thank you for your order! Our manager will contact you soon.")
	return flash.WithSuccess(c, fm).Redirect(constants.HomeRoute)
}

// HandleCancelPlan removes the customer's order line for the plan
func (oc *OrderController) HandleCancelPlan(c *fiber.Ctx) error {
	plan, customer, ok, err := oc.load(c)
	if !ok {
		return err
	}

	if err := oc.ordering.DeleteOrderedPlan(c.UserContext(), plan, customer); err != nil {
		return serverError(c, err)
	}

	if oc.stats != nil {
		oc.stats.InvalidateOrders(c.UserContext())
	}

	fm := flashMessage("success", "Plan "+plan.Base().Name+" was cancelled.")
	return flash.WithSuccess(c, fm).Redirect(constants.AccountRoute)
}

// HandleAnonymOrder sends anonymous visitors to the login page
func (oc *OrderController) HandleAnonymOrder(c *fiber.Ctx) error {
	fm := flashMessage("info", "Log in first to order a plan.")
	flash.WithInfo(c, fm)
	return c.Redirect(constants.LoginRoute, fiber.StatusSeeOther)
}

// HandleServiceInUse sends customers holding a plan of the service to
// their account
func (oc *OrderController) HandleServiceInUse(c *fiber.Ctx) error {
	fm := flashMessage("warning", "You already have a plan in this service. Cancel it in your account before ordering another one.")
	flash.WithInfo(c, fm)
	return c.Redirect(constants.AccountRoute, fiber.StatusSeeOther)
}

func (oc *OrderController) load(c *fiber.Ctx) (models.Planner, *models.Customer, bool, error) {
	plan, ok, err := resolvePlan(c, oc.catalog)
	if !ok {
		return nil, nil, false, err
	}

	customer, err := oc.ordering.EnsureCustomer(c.UserContext(), usercontext.GetUserID(c))
	if err != nil {
		return nil, nil, false, serverError(c, err)
	}
	return plan, customer, true, nil
}

func (oc *OrderController) renderForm(c *fiber.Ctx, plan models.Planner, form forms.OrderForm, errs forms.Errors) error {
	return render(c, "orders/submission", "Order "+plan.Base().Name, fiber.Map{
		"Plan":   plan.Base(),
		"Action": models.OrderURL(plan),
		"Form":   form,
		"Errors": errs,
	})
}
