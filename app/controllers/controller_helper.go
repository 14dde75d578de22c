package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"

	"github.com/shvarc/provider/internal/pkg/usercontext"
	"github.com/shvarc/provider/internal/pkg/viewmodel"
)

const mainLayout = "layouts/main"

func isLoggedIn(c *fiber.Ctx) bool {
	return usercontext.IsLoggedIn(c)
}

func csrfToken(c *fiber.Ctx) string {
	token, _ := c.Locals("csrf").(string)
	return token
}

func newLayout(c *fiber.Ctx, title, page string) viewmodel.Layout {
	userCtx := usercontext.GetUserContext(c)
	return viewmodel.Layout{
		Title:         title,
		Page:          page,
		FromProtected: userCtx.IsLoggedIn,
		IsAdmin:       userCtx.IsAdmin,
		Username:      userCtx.Username,
		Msg:           flash.Get(c),
		CSRF:          csrfToken(c),
	}
}

// render executes a view inside the main layout. data may be nil.
func render(c *fiber.Ctx, view, title string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["Layout"] = newLayout(c, title, view)
	return c.Render(view, data, mainLayout)
}

func renderError(c *fiber.Ctx, status int, message string) error {
	c.Status(status)
	return render(c, "errors/error", message, fiber.Map{
		"Status":  status,
		"Message": message,
	})
}

func notFound(c *fiber.Ctx) error {
	return renderError(c, fiber.StatusNotFound, "Page not found")
}

func serverError(c *fiber.Ctx, err error) error {
	log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	return renderError(c, fiber.StatusInternalServerError, "Something went wrong")
}

func flashMessage(kind, message string) fiber.Map {
	return fiber.Map{
		"type":    kind,
		"message": message,
	}
}
