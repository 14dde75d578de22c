package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/shvarc/provider/app/models"
	"github.com/shvarc/provider/app/repository"
	"github.com/shvarc/provider/internal/pkg/constants"
	"github.com/shvarc/provider/internal/pkg/ordering"
)

const adminDateFormat = "2006-01-02 15:04"

// AdminController serves the admin dashboard and the order line list
type AdminController struct {
	repos    *repository.Repositories
	ordering *ordering.Service
}

func NewAdminController(repos *repository.Repositories, ordering *ordering.Service) *AdminController {
	return &AdminController{repos: repos, ordering: ordering}
}

// handleError is a helper method for consistent error handling
func (ac *AdminController) handleError(c *fiber.Ctx, message string, err error) error {
	fm := flashMessage("error", message+": "+err.Error())
	return flash.WithError(c, fm).Redirect(constants.AdminRoute)
}

type dashboardCount struct {
	Label string
	Value int64
	URL   string
}

// HandleAdminDashboard shows the table sizes with links to their pages
func (ac *AdminController) HandleAdminDashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()

	services, err := ac.repos.Service.List(ctx)
	if err != nil {
		return serverError(c, err)
	}

	counts := []dashboardCount{{Label: "Services", Value: int64(len(services)), URL: constants.AdminRoute + "/services"}}
	for _, k := range []struct {
		label string
		count func() (int64, error)
		url   string
	}{
		{label: "Plans", count: func() (int64, error) { return ac.repos.Plan.Count(ctx) }},
		{label: "Users", count: func() (int64, error) { return ac.repos.User.Count(ctx) }},
		{label: "Customers", count: func() (int64, error) { return ac.repos.Customer.Count(ctx) }},
		{label: "Order lines", count: func() (int64, error) { return ac.repos.Order.Count(ctx) }, url: constants.AdminRoute + "/orders"},
	} {
		n, err := k.count()
		if err != nil {
			return serverError(c, err)
		}
		counts = append(counts, dashboardCount{Label: k.label, Value: n, URL: k.url})
	}

	return render(c, "admin/dashboard", "Admin", fiber.Map{
		"Counts": counts,
		"Kinds":  adminKinds(),
	})
}

type orderLineRow struct {
	Reference string
	Customer  string
	Email     string
	Plan      string
	PlanURL   string
	Price     string
	Confirmed bool
	OrderedAt string
}

// HandleAdminOrders lists every order line, read only
func (ac *AdminController) HandleAdminOrders(c *fiber.Ctx) error {
	views, err := ac.ordering.AllOrderLines(c.UserContext())
	if err != nil {
		return ac.handleError(c, "Could not load order lines", err)
	}

	rows := make([]orderLineRow, 0, len(views))
	for _, v := range views {
		row := orderLineRow{
			Reference: v.Line.Reference.String(),
			Customer:  v.Customer.User.Username,
			Email:     v.Customer.User.Email,
			Plan:      "missing " + string(v.Line.Plan.Kind) + " plan #" + strconv.FormatUint(uint64(v.Line.Plan.ID), 10),
			Confirmed: v.Line.Confirmed,
			OrderedAt: v.Line.CreatedAt.Format(adminDateFormat),
		}
		if v.Plan != nil {
			row.Plan = v.Plan.Base().Name
			row.PlanURL = models.PlanURL(v.Plan)
			row.Price = v.Plan.Base().Price.StringFixed(2)
		}
		rows = append(rows, row)
	}

	return render(c, "admin/orders", "Order lines", fiber.Map{
		"Lines": rows,
	})
}

type adminKind struct {
	Kind  models.PlanKind
	Label string
	URL   string
}

func adminKinds() []adminKind {
	kinds := make([]adminKind, len(models.PlanKinds))
	for i, k := range models.PlanKinds {
		kinds[i] = adminKind{Kind: k, Label: kindLabel(k), URL: adminPlansURL(k)}
	}
	return kinds
}

func kindLabel(kind models.PlanKind) string {
	switch kind {
	case models.PlanKindInternet:
		return "Internet plans"
	case models.PlanKindWireless:
		return "Wireless plans"
	case models.PlanKindTV:
		return "TV plans"
	}
	return string(kind)
}

func adminPlansURL(kind models.PlanKind) string {
	return constants.AdminRoute + "/plans/" + string(kind)
}
