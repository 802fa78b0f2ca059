package controller

import (
	"haruhi-agent-be/internal/dto"
	"haruhi-agent-be/internal/pkg/serverutils"
	"haruhi-agent-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IMarketingController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
}

type marketingController struct {
	service service.IMarketingService
}

func NewMarketingController(service service.IMarketingService) IMarketingController {
	return &marketingController{service: service}
}

func (c *marketingController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/marketing")
	h.Post("/generate", c.Generate)
}

func (c *marketingController) Generate(ctx *fiber.Ctx) error {
	var req dto.MarketingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.Validate(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	return ctx.JSON(c.service.Generate(ctx.UserContext(), req))
}
