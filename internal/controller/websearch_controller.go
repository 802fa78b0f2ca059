package controller

import (
	"strings"

	"haruhi-agent-be/internal/dto"
	"haruhi-agent-be/internal/pkg/serverutils"
	"haruhi-agent-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IWebSearchController interface {
	RegisterRoutes(r fiber.Router)
	Query(ctx *fiber.Ctx) error
}

type webSearchController struct {
	service service.IWebSearchService
}

func NewWebSearchController(service service.IWebSearchService) IWebSearchController {
	return &webSearchController{service: service}
}

func (c *webSearchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/websearch")
	h.Post("/query", c.Query)
}

func (c *webSearchController) Query(ctx *fiber.Ctx) error {
	var req dto.WebSearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	req.Q = strings.TrimSpace(req.Q)
	if req.Q == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Missing 'q' in request body"))
	}
	if err := serverutils.Validate(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res := c.service.Query(ctx.UserContext(), req)
	if !res.OK() {
		return ctx.Status(res.StatusCode).JSON(serverutils.UpstreamErrorResponse(res.StatusCode, res.Body))
	}
	return ctx.JSON(dto.WebSearchResponse{Results: res.Hits})
}
