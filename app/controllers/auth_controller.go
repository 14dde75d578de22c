package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"
	"gorm.io/gorm"

	"github.com/shvarc/provider/app/models"
	"github.com/shvarc/provider/app/repository"
	"github.com/shvarc/provider/internal/pkg/constants"
	"github.com/shvarc/provider/internal/pkg/env"
	"github.com/shvarc/provider/internal/pkg/forms"
	"github.com/shvarc/provider/internal/pkg/hcaptcha"
	"github.com/shvarc/provider/internal/pkg/middleware"
	"github.com/shvarc/provider/internal/pkg/ordering"
	"github.com/shvarc/provider/internal/pkg/session"
	"github.com/shvarc/provider/internal/pkg/statistics"
)

const loginFailed = "Please enter a correct username and password."

// AuthController handles login, logout and registration
type AuthController struct {
	userRepo repository.UserRepository
	ordering *ordering.Service
	sessions *session.Store
	captcha  *hcaptcha.Verifier
	stats    *statistics.Service
}

// NewAuthController creates a new auth controller. captcha and stats may
// be nil.
func NewAuthController(userRepo repository.UserRepository, ordering *ordering.Service, sessions *session.Store, captcha *hcaptcha.Verifier, stats *statistics.Service) *AuthController {
	return &AuthController{userRepo: userRepo, ordering: ordering, sessions: sessions, captcha: captcha, stats: stats}
}

func (ac *AuthController) HandleLogin(c *fiber.Ctx) error {
	if isLoggedIn(c) {
		return c.Redirect(constants.HomeRoute, fiber.StatusSeeOther)
	}
	return ac.renderLogin(c, forms.LoginForm{Next: c.Query("next")}, nil)
}

func (ac *AuthController) HandleLoginPost(c *fiber.Ctx) error {
	var form forms.LoginForm
	if err := c.BodyParser(&form); err != nil {
		return renderError(c, fiber.StatusBadRequest, "Invalid form data")
	}

	if errs := forms.Validate(form); errs != nil {
		return ac.renderLogin(c, form, errs)
	}

	// notice: the message does not tell whether the username exists
	user, err := ac.userRepo.GetByUsername(c.UserContext(), form.Username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return serverError(c, err)
		}
		return ac.renderLogin(c, form, forms.Errors{"__all__": loginFailed})
	}
	if !user.CheckPassword(form.Password) {
		return ac.renderLogin(c, form, forms.Errors{"__all__": loginFailed})
	}

	id := session.Identity{UserID: user.ID, Username: user.Username, IsAdmin: user.IsAdmin()}
	if err := ac.sessions.Login(c, id); err != nil {
		return serverError(c, err)
	}
	if err := ac.userRepo.UpdateLastLogin(c.UserContext(), user.ID, time.Now()); err != nil {
		log.Warnf("update last login of user %d: %v", user.ID, err)
	}

	fm := flashMessage("success", "Welcome back, "+user.FullName()+"!")
	return flash.WithSuccess(c, fm).Redirect(middleware.SafeNext(form.Next))
}

func (ac *AuthController) HandleLogout(c *fiber.Ctx) error {
	if err := ac.sessions.Logout(c); err != nil {
		fm := flashMessage("error", "Logout failed, please try again.")
		log.Errorf("logout: %v", err)
		return flash.WithError(c, fm).Redirect(constants.HomeRoute)
	}

	fm := flashMessage("success", "You have been logged out.")
	return flash.WithSuccess(c, fm).Redirect(constants.HomeRoute)
}

func (ac *AuthController) HandleRegister(c *fiber.Ctx) error {
	if isLoggedIn(c) {
		return c.Redirect(constants.HomeRoute, fiber.StatusSeeOther)
	}
	return ac.renderRegister(c, forms.RegisterForm{}, nil)
}

func (ac *AuthController) HandleRegisterPost(c *fiber.Ctx) error {
	var form forms.RegisterForm
	if err := c.BodyParser(&form); err != nil {
		return renderError(c, fiber.StatusBadRequest, "Invalid form data")
	}
	form.Clean()

	if ac.captcha.Enabled() {
		valid, err := ac.captcha.Verify(c.FormValue("h-captcha-response"))
		if err != nil || !valid {
			errorMsg := "Captcha validation failed. Please try again."
			if err != nil {
				if env.IsDev() {
					errorMsg = "Captcha validation failed: " + err.Error()
				}
				log.Warnf("hCaptcha validation error: %v", err)
			}
			return ac.renderRegister(c, form, forms.Errors{"__all__": errorMsg})
		}
	}

	if errs := forms.Validate(form); errs != nil {
		return ac.renderRegister(c, form, errs)
	}

	user, err := models.CreateUser(form.Username, form.FirstName, form.LastName, form.Email, form.Password)
	if err != nil {
		return ac.renderRegister(c, form, forms.ParseErrors(err))
	}

	if _, err := ac.ordering.Register(c.UserContext(), user); err != nil {
		if errors.Is(err, ordering.ErrUsernameTaken) {
			return ac.renderRegister(c, form, forms.Errors{"username": "A user with that username already exists."})
		}
		return serverError(c, err)
	}

	if ac.stats != nil {
		ac.stats.InvalidateCustomers(c.UserContext())
	}

	fm := flashMessage("success", "Registration complete, you can log in now.")
	return flash.WithSuccess(c, fm).Redirect(constants.LoginRoute)
}

func (ac *AuthController) renderLogin(c *fiber.Ctx, form forms.LoginForm, errs forms.Errors) error {
	form.Password = ""
	return render(c, "auth/login", "Log in", fiber.Map{
		"Form":   form,
		"Errors": errs,
	})
}

func (ac *AuthController) renderRegister(c *fiber.Ctx, form forms.RegisterForm, errs forms.Errors) error {
	form.Password = ""
	form.Password2 = ""
	siteKey := ""
	if ac.captcha.Enabled() {
		siteKey = ac.captcha.SiteKey
	}
	return render(c, "auth/register", "Register", fiber.Map{
		"Form":            form,
		"Errors":          errs,
		"HCaptchaSitekey": siteKey,
	})
}
