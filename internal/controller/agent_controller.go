package controller

import (
	"haruhi-agent-be/internal/dto"
	"haruhi-agent-be/internal/pkg/serverutils"
	"haruhi-agent-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAgentController interface {
	RegisterRoutes(r fiber.Router)
	Hook(ctx *fiber.Ctx) error
}

type agentController struct {
	service service.IAgentService
}

func NewAgentController(service service.IAgentService) IAgentController {
	return &agentController{service: service}
}

func (c *agentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/agents/haruhi")
	h.Post("/hook", c.Hook)
}

// Hook always answers 200; the worst case is an echo of the message.
func (c *agentController) Hook(ctx *fiber.Ctx) error {
	var req dto.HookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.reply(ctx, c.service.Reject(req.Message, "invalid request body"))
	}
	if err := serverutils.Validate(req); err != nil {
		return c.reply(ctx, c.service.Reject(req.Message, err.Error()))
	}

	return c.reply(ctx, c.service.Handle(ctx.UserContext(), req))
}

func (c *agentController) reply(ctx *fiber.Ctx, res dto.HookResponse) error {
	if !wantsHTML(ctx) {
		return ctx.Status(fiber.StatusOK).JSON(res)
	}
	ctx.Type("html", "utf-8")
	return c.service.RenderHTML(ctx.Status(fiber.StatusOK), res)
}
