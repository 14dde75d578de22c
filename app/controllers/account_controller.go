package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/shvarc/provider/app/models"
	"github.com/shvarc/provider/app/repository"
	"github.com/shvarc/provider/internal/pkg/constants"
	"github.com/shvarc/provider/internal/pkg/forms"
	"github.com/shvarc/provider/internal/pkg/ordering"
	"github.com/shvarc/provider/internal/pkg/usercontext"
	"github.com/shvarc/provider/internal/pkg/utils"
)

// AccountController shows the account page and edits the user's name and email
type AccountController struct {
	userRepo repository.UserRepository
	ordering *ordering.Service
}

// NewAccountController creates a new account controller with repository
func NewAccountController(userRepo repository.UserRepository, ordering *ordering.Service) *AccountController {
	return &AccountController{userRepo: userRepo, ordering: ordering}
}

// orderedPlanRow is one line of the ordered plans table.
type orderedPlanRow struct {
	Name      string
	Service   string
	Price     string
	Reference string
	OrderedAt string
	PlanURL   string
	CancelURL string
}

func (ac *AccountController) HandleAccount(c *fiber.Ctx) error {
	customer, err := ac.ordering.EnsureCustomer(c.UserContext(), usercontext.GetUserID(c))
	if err != nil {
		return serverError(c, err)
	}
	return ac.renderAccount(c, customer, forms.NewAccountForm(&customer.User), nil)
}

func (ac *AccountController) HandleAccountUpdate(c *fiber.Ctx) error {
	customer, err := ac.ordering.EnsureCustomer(c.UserContext(), usercontext.GetUserID(c))
	if err != nil {
		return serverError(c, err)
	}

	var form forms.AccountForm
	if err := c.BodyParser(&form); err != nil {
		return renderError(c, fiber.StatusBadRequest, "Invalid form data")
	}
	form.Clean()

	if errs := forms.Validate(form); errs != nil {
		return ac.renderAccount(c, customer, form, errs)
	}

	user := customer.User
	user.FirstName = form.FirstName
	user.LastName = form.LastName
	user.Email = form.Email
	if err := ac.userRepo.Update(c.UserContext(), &user); err != nil {
		return serverError(c, err)
	}

	fm := flashMessage("success", "Your account data was updated.")
	return flash.WithSuccess(c, fm).Redirect(constants.AccountRoute)
}

func (ac *AccountController) renderAccount(c *fiber.Ctx, customer *models.Customer, form forms.AccountForm, errs forms.Errors) error {
	views, err := ac.ordering.OrderedPlans(c.UserContext(), customer)
	if err != nil {
		return serverError(c, err)
	}

	rows := make([]orderedPlanRow, 0, len(views))
	for _, v := range views {
		b := v.Plan.Base()
		rows = append(rows, orderedPlanRow{
			Name:      b.Name,
			Service:   b.Service.Name,
			Price:     b.Price.StringFixed(2),
			Reference: v.Line.Reference.String(),
			OrderedAt: v.Line.CreatedAt.Format("2006-01-02"),
			PlanURL:   models.PlanURL(v.Plan),
			CancelURL: models.CancelURL(v.Plan),
		})
	}

	return render(c, "account/account", "Account", fiber.Map{
		"User":         customer.User,
		"Avatar":       utils.GetGravatarURL(customer.User.Email, 80),
		"Customer":     customer,
		"Form":         form,
		"Errors":       errs,
		"OrderedPlans": rows,
	})
}
