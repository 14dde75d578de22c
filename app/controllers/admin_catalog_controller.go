package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"
	"gorm.io/gorm"

	"github.com/shvarc/provider/app/models"
	"github.com/shvarc/provider/internal/pkg/catalog"
	"github.com/shvarc/provider/internal/pkg/constants"
	"github.com/shvarc/provider/internal/pkg/forms"
	"github.com/shvarc/provider/internal/pkg/statistics"
)

const adminServicesRoute = constants.AdminRoute + "/services"

// AdminCatalogController handles service and plan management
type AdminCatalogController struct {
	manager *catalog.Manager
	stats   *statistics.Service
}

// NewAdminCatalogController creates a new catalog admin controller. stats
// may be nil.
func NewAdminCatalogController(manager *catalog.Manager, stats *statistics.Service) *AdminCatalogController {
	return &AdminCatalogController{manager: manager, stats: stats}
}

func (acc *AdminCatalogController) fail(c *fiber.Ctx, target, message string) error {
	return flash.WithError(c, flashMessage("error", message)).Redirect(target)
}

func (acc *AdminCatalogController) done(c *fiber.Ctx, target, message string) error {
	return flash.WithSuccess(c, flashMessage("success", message)).Redirect(target)
}

func paramID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ============================================================================
// Services
// ============================================================================

func (acc *AdminCatalogController) HandleAdminServices(c *fiber.Ctx) error {
	services, err := acc.manager.Services(c.UserContext())
	if err != nil {
		return serverError(c, err)
	}
	return render(c, "admin/services", "Services", fiber.Map{
		"Services": services,
	})
}

func (acc *AdminCatalogController) HandleAdminServiceCreate(c *fiber.Ctx) error {
	return acc.renderServiceForm(c, adminServicesRoute+"/store", forms.ServiceForm{}, nil)
}

func (acc *AdminCatalogController) HandleAdminServiceStore(c *fiber.Ctx) error {
	var form forms.ServiceForm
	if err := c.BodyParser(&form); err != nil {
		return renderError(c, fiber.StatusBadRequest, "Invalid form data")
	}
	form.Clean()

	action := adminServicesRoute + "/store"
	if errs := forms.Validate(form); errs != nil {
		return acc.renderServiceForm(c, action, form, errs)
	}

	var service models.Service
	form.Apply(&service)
	if err := acc.manager.CreateService(c.UserContext(), &service); err != nil {
		if errs := serviceErrors(err); errs != nil {
			return acc.renderServiceForm(c, action, form, errs)
		}
		return serverError(c, err)
	}

	return acc.done(c, adminServicesRoute, "Service "+service.Name+" created.")
}

func (acc *AdminCatalogController) HandleAdminServiceEdit(c *fiber.Ctx) error {
	service, ok, err := acc.loadService(c)
	if !ok {
		return err
	}
	return acc.renderServiceForm(c, adminServicesRoute+"/update/"+c.Params("id"), forms.NewServiceForm(service), nil)
}

func (acc *AdminCatalogController) HandleAdminServiceUpdate(c *fiber.Ctx) error {
	service, ok, err := acc.loadService(c)
	if !ok {
		return err
	}

	var form forms.ServiceForm
	if err := c.BodyParser(&form); err != nil {
		return renderError(c, fiber.StatusBadRequest, "Invalid form data")
	}
	form.Clean()

	action := adminServicesRoute + "/update/" + c.Params("id")
	if errs := forms.Validate(form); errs != nil {
		return acc.renderServiceForm(c, action, form, errs)
	}

	form.Apply(service)
	if err := acc.manager.UpdateService(c.UserContext(), service); err != nil {
		if errs := serviceErrors(err); errs != nil {
			return acc.renderServiceForm(c, action, form, errs)
		}
		return serverError(c, err)
	}

	return acc.done(c, adminServicesRoute, "Service "+service.Name+" updated.")
}

func (acc *AdminCatalogController) HandleAdminServiceDelete(c *fiber.Ctx) error {
	service, ok, err := acc.loadService(c)
	if !ok {
		return err
	}

	if err := acc.manager.DeleteService(c.UserContext(), service.ID); err != nil {
		if errors.Is(err, catalog.ErrServiceHasPlans) {
			return acc.fail(c, adminServicesRoute, "Service "+service.Name+" still has plans. Delete them first.")
		}
		return serverError(c, err)
	}

	return acc.done(c, adminServicesRoute, "Service "+service.Name+" deleted.")
}

func (acc *AdminCatalogController) loadService(c *fiber.Ctx) (*models.Service, bool, error) {
	id, ok := paramID(c)
	if !ok {
		return nil, false, notFound(c)
	}

	service, err := acc.manager.Service(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, acc.fail(c, adminServicesRoute, "Service not found")
		}
		return nil, false, serverError(c, err)
	}
	return service, true, nil
}

func serviceErrors(err error) forms.Errors {
	switch {
	case errors.Is(err, catalog.ErrServiceNotRegistered):
		return forms.Errors{"slug": "No plan table is registered for this slug."}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return forms.Errors{"slug": "A service with that slug already exists."}
	}
	return nil
}

func (acc *AdminCatalogController) renderServiceForm(c *fiber.Ctx, action string, form forms.ServiceForm, errs forms.Errors) error {
	return render(c, "admin/service_form", "Service", fiber.Map{
		"Action": action,
		"Form":   form,
		"Errors": errs,
		"Slugs":  acc.manager.RegisteredSlugs(),
	})
}

// ============================================================================
// Plans
// ============================================================================

type adminPlanRow struct {
	ID        uint
	Name      string
	Slug      string
	Price     string
	PublicURL string
	EditURL   string
	DeleteURL string
}

func (acc *AdminCatalogController) HandleAdminPlans(c *fiber.Ctx) error {
	kind, ok := paramKind(c)
	if !ok {
		return notFound(c)
	}

	plans, err := acc.manager.Plans(c.UserContext(), kind)
	if err != nil {
		return serverError(c, err)
	}

	base := adminPlansURL(kind)
	rows := make([]adminPlanRow, len(plans))
	for i, p := range plans {
		b := p.Base()
		id := strconv.FormatUint(uint64(b.ID), 10)
		rows[i] = adminPlanRow{
			ID:        b.ID,
			Name:      b.Name,
			Slug:      b.Slug,
			Price:     b.Price.StringFixed(2),
			PublicURL: models.PlanURL(p),
			EditURL:   base + "/edit/" + id,
			DeleteURL: base + "/delete/" + id,
		}
	}

	return render(c, "admin/plans", kindLabel(kind), fiber.Map{
		"Kind":      kind,
		"Label":     kindLabel(kind),
		"CreateURL": base + "/create",
		"Plans":     rows,
	})
}

func (acc *AdminCatalogController) HandleAdminPlanCreate(c *fiber.Ctx) error {
	kind, ok := paramKind(c)
	if !ok {
		return notFound(c)
	}
	return acc.renderPlanForm(c, adminPlansURL(kind)+"/store", forms.EmptyPlanForm(kind), nil)
}

func (acc *AdminCatalogController) HandleAdminPlanStore(c *fiber.Ctx) error {
	kind, ok := paramKind(c)
	if !ok {
		return notFound(c)
	}

	form, err := parsePlanForm(c, kind)
	if err != nil {
		return renderError(c, fiber.StatusBadRequest, "Invalid form data")
	}

	action := adminPlansURL(kind) + "/store"
	if errs := form.Validate(); errs != nil {
		return acc.renderPlanForm(c, action, form, errs)
	}

	plan := models.NewPlan(kind)
	form.Apply(plan)
	if err := acc.manager.CreatePlan(c.UserContext(), plan); err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return acc.renderPlanForm(c, action, form, forms.Errors{"slug": "A plan with that slug already exists."})
		case errors.Is(err, catalog.ErrUnknownService):
			return acc.fail(c, adminServicesRoute, "Create the service for "+string(kind)+" plans first.")
		}
		return serverError(c, err)
	}

	if acc.stats != nil {
		acc.stats.InvalidatePlans(c.UserContext())
	}
	return acc.done(c, adminPlansURL(kind), "Plan "+plan.Base().Name+" created.")
}

func (acc *AdminCatalogController) HandleAdminPlanEdit(c *fiber.Ctx) error {
	plan, ok, err := acc.loadPlan(c)
	if !ok {
		return err
	}
	return acc.renderPlanForm(c, adminPlansURL(plan.Kind())+"/update/"+c.Params("id"), forms.NewPlanForm(plan), nil)
}

func (acc *AdminCatalogController) HandleAdminPlanUpdate(c *fiber.Ctx) error {
	plan, ok, err := acc.loadPlan(c)
	if !ok {
		return err
	}

	form, err := parsePlanForm(c, plan.Kind())
	if err != nil {
		return renderError(c, fiber.StatusBadRequest, "Invalid form data")
	}

	action := adminPlansURL(plan.Kind()) + "/update/" + c.Params("id")
	if errs := form.Validate(); errs != nil {
		return acc.renderPlanForm(c, action, form, errs)
	}

	form.Apply(plan)
	if err := acc.manager.UpdatePlan(c.UserContext(), plan); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return acc.renderPlanForm(c, action, form, forms.Errors{"slug": "A plan with that slug already exists."})
		}
		return serverError(c, err)
	}

	return acc.done(c, adminPlansURL(plan.Kind()), "Plan "+plan.Base().Name+" updated.")
}

func (acc *AdminCatalogController) HandleAdminPlanDelete(c *fiber.Ctx) error {
	plan, ok, err := acc.loadPlan(c)
	if !ok {
		return err
	}

	target := adminPlansURL(plan.Kind())
	if err := acc.manager.DeletePlan(c.UserContext(), plan.Kind(), plan.Base().ID); err != nil {
		if errors.Is(err, catalog.ErrPlanOrdered) {
			return acc.fail(c, target, "Plan "+plan.Base().Name+" is ordered by customers and cannot be deleted.")
		}
		return serverError(c, err)
	}

	if acc.stats != nil {
		acc.stats.InvalidatePlans(c.UserContext())
	}
	return acc.done(c, target, "Plan "+plan.Base().Name+" deleted.")
}

func (acc *AdminCatalogController) loadPlan(c *fiber.Ctx) (models.Planner, bool, error) {
	kind, ok := paramKind(c)
	if !ok {
		return nil, false, notFound(c)
	}
	id, ok := paramID(c)
	if !ok {
		return nil, false, notFound(c)
	}

	plan, err := acc.manager.Plan(c.UserContext(), kind, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, acc.fail(c, adminPlansURL(kind), "Plan not found")
		}
		return nil, false, serverError(c, err)
	}
	return plan, true, nil
}

func paramKind(c *fiber.Ctx) (models.PlanKind, bool) {
	kind := models.PlanKind(c.Params("kind"))
	return kind, kind.Valid()
}

func parsePlanForm(c *fiber.Ctx, kind models.PlanKind) (forms.PlanForm, error) {
	var form forms.PlanForm
	if err := c.BodyParser(&form); err != nil {
		return form, err
	}
	form.Kind = kind
	form.Clean()
	return form, nil
}

func (acc *AdminCatalogController) renderPlanForm(c *fiber.Ctx, action string, form forms.PlanForm, errs forms.Errors) error {
	return render(c, "admin/plan_form", kindLabel(form.Kind), fiber.Map{
		"Action":        action,
		"Kind":          string(form.Kind),
		"Label":         kindLabel(form.Kind),
		"BackURL":       adminPlansURL(form.Kind),
		"Form":          form,
		"Errors":        errs,
		"InternetTypes": []string{models.InternetType3G, models.InternetType4G, models.InternetType5G},
	})
}
