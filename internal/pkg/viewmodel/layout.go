package viewmodel

import "github.com/gofiber/fiber/v2"

// Layout is the data every page passes to layouts/main.
type Layout struct {
	Title         string
	Page          string
	FromProtected bool
	IsAdmin       bool
	Username      string
	Msg           fiber.Map
	CSRF          string
}
