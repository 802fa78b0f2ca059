package controller

import (
	"haruhi-agent-be/internal/dto"
	"haruhi-agent-be/internal/pkg/serverutils"
	"haruhi-agent-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICoordinatorController interface {
	RegisterRoutes(r fiber.Router)
	Task(ctx *fiber.Ctx) error
}

type coordinatorController struct {
	service service.ICoordinatorService
}

func NewCoordinatorController(service service.ICoordinatorService) ICoordinatorController {
	return &coordinatorController{service: service}
}

func (c *coordinatorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/coordinator")
	h.Post("/task", c.Task)
}

func (c *coordinatorController) Task(ctx *fiber.Ctx) error {
	var req dto.CoordinatorRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
		}
	}
	if err := serverutils.Validate(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	page := c.service.Plan(ctx.UserContext(), req)
	if wantsJSON(ctx) {
		return ctx.JSON(page)
	}
	ctx.Type("html", "utf-8")
	return c.service.RenderHTML(ctx, page)
}
