package controller

import "github.com/gofiber/fiber/v2"

// wantsHTML honours ?format= first, then the Accept header. JSON wins ties.
func wantsHTML(ctx *fiber.Ctx) bool {
	switch ctx.Query("format") {
	case "html":
		return true
	case "json":
		return false
	}
	return ctx.Accepts(fiber.MIMEApplicationJSON, fiber.MIMETextHTML) == fiber.MIMETextHTML
}

// wantsJSON is the inverse default for routes whose natural answer is a page.
func wantsJSON(ctx *fiber.Ctx) bool {
	switch ctx.Query("format") {
	case "json":
		return true
	case "html":
		return false
	}
	return ctx.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON
}
