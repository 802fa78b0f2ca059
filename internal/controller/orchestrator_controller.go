package controller

import (
	"errors"

	"haruhi-agent-be/internal/dto"
	"haruhi-agent-be/internal/pkg/serverutils"
	"haruhi-agent-be/internal/service"
	"haruhi-agent-be/pkg/travel"

	"github.com/gofiber/fiber/v2"
)

type IOrchestratorController interface {
	RegisterRoutes(r fiber.Router)
	Execute(ctx *fiber.Ctx) error
	ListBookings(ctx *fiber.Ctx) error
}

type orchestratorController struct {
	service service.IOrchestratorService
}

func NewOrchestratorController(service service.IOrchestratorService) IOrchestratorController {
	return &orchestratorController{service: service}
}

func (c *orchestratorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/orchestrator")
	h.Post("/execute", c.Execute)
	h.Get("/bookings/:user_id", c.ListBookings)
}

func (c *orchestratorController) Execute(ctx *fiber.Ctx) error {
	var req dto.OrchestratorRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.Validate(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.Execute(ctx.UserContext(), req)
	if err != nil {
		if errors.Is(err, travel.ErrEmptyMessage) {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	if wantsJSON(ctx) {
		return ctx.JSON(res)
	}
	ctx.Type("html", "utf-8")
	return c.service.RenderHTML(ctx, res)
}

func (c *orchestratorController) ListBookings(ctx *fiber.Ctx) error {
	userID := ctx.Params("user_id")
	res, err := c.service.ListBookings(ctx.UserContext(), userID, ctx.QueryInt("limit", 20), ctx.QueryInt("offset", 0))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("bookings", res))
}
