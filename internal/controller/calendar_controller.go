package controller

import (
	"errors"
	"fmt"
	"html"

	"haruhi-agent-be/internal/dto"
	"haruhi-agent-be/internal/pkg/serverutils"
	"haruhi-agent-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICalendarController interface {
	RegisterRoutes(r fiber.Router)
	OAuthStart(ctx *fiber.Ctx) error
	OAuthCallback(ctx *fiber.Ctx) error
	CreateEvent(ctx *fiber.Ctx) error
	SendOAuth(ctx *fiber.Ctx) error
}

type calendarController struct {
	service service.ICalendarService
}

func NewCalendarController(service service.ICalendarService) ICalendarController {
	return &calendarController{service: service}
}

func (c *calendarController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/gcal")
	h.Get("/oauth/start", c.OAuthStart)
	h.Get("/oauth/callback", c.OAuthCallback)
	h.Post("/create-event", c.CreateEvent)
	h.Post("/send-oauth", c.SendOAuth)
}

func (c *calendarController) OAuthStart(ctx *fiber.Ctx) error {
	res, err := c.service.StartOAuth(ctx.UserContext(), ctx.Query("user_id", "anon"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(res)
}

// OAuthCallback is opened by the user's browser, so it answers with a short page.
func (c *calendarController) OAuthCallback(ctx *fiber.Ctx) error {
	ctx.Type("html", "utf-8")

	res, err := c.service.CompleteOAuth(ctx.UserContext(), ctx.Query("state"), ctx.Query("code"))
	switch {
	case errors.Is(err, service.ErrMissingState):
		return ctx.Status(fiber.StatusBadRequest).SendString("Missing state")
	case errors.Is(err, service.ErrMissingCode):
		return ctx.Status(fiber.StatusBadRequest).SendString("Missing code")
	case err != nil:
		return ctx.Status(fiber.StatusInternalServerError).SendString("OAuth callback failed")
	}

	return ctx.SendString(fmt.Sprintf("Google Calendar connected for user %s. You can close this window.", html.EscapeString(res.UserID)))
}

func (c *calendarController) CreateEvent(ctx *fiber.Ctx) error {
	var req dto.CreateEventRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.Validate(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res := c.service.CreateEvent(ctx.UserContext(), req)
	if !res.OK() {
		return ctx.Status(res.StatusCode).JSON(serverutils.ErrorResponse(res.StatusCode, res.Error))
	}
	return ctx.JSON(fiber.Map{"status": "created", "event": res.Event})
}

func (c *calendarController) SendOAuth(ctx *fiber.Ctx) error {
	var req dto.SendOAuthRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.Validate(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.SendOAuthLink(ctx.UserContext(), req)
	if err != nil {
		var de *service.LinkDeliveryError
		if errors.As(err, &de) {
			return ctx.Status(fiber.StatusBadGateway).JSON(serverutils.UpstreamErrorResponse(de.StatusCode, de.Upstream))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(res)
}
