package controller

import (
	"strings"

	"haruhi-agent-be/internal/pkg/serverutils"
	"haruhi-agent-be/internal/service"
	"haruhi-agent-be/pkg/circlo"

	"github.com/gofiber/fiber/v2"
)

type ICircloController interface {
	RegisterRoutes(r fiber.Router)
	UserPreferences(ctx *fiber.Ctx) error
	ListUserPreferences(ctx *fiber.Ctx) error
	PostsByKeywords(ctx *fiber.Ctx) error
	CreatePost(ctx *fiber.Ctx) error
	CreateAgent(ctx *fiber.Ctx) error
	Debug(ctx *fiber.Ctx) error
}

type circloController struct {
	service   service.ICircloService
	jwtSecret string
}

func NewCircloController(service service.ICircloService, jwtSecret string) ICircloController {
	return &circloController{service: service, jwtSecret: jwtSecret}
}

func (c *circloController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/circlo", serverutils.JwtMiddleware(c.jwtSecret))
	h.Get("/user-preferences/:user_id", c.UserPreferences)
	h.Get("/user-preferences", c.ListUserPreferences)
	h.Get("/posts/by-keywords", c.PostsByKeywords)
	h.Post("/posts/create", c.CreatePost)
	h.Post("/agents", c.CreateAgent)
	h.Get("/_debug", c.Debug)
}

// proxy returns the upstream data on 2xx and keeps the upstream status otherwise.
func proxy(ctx *fiber.Ctx, resp circlo.Response) error {
	if !resp.OK() {
		return ctx.Status(resp.StatusCode).JSON(serverutils.UpstreamErrorResponse(resp.StatusCode, resp.Error))
	}
	return ctx.Status(resp.StatusCode).JSON(resp.Data)
}

func (c *circloController) UserPreferences(ctx *fiber.Ctx) error {
	return proxy(ctx, c.service.UserPreferences(ctx.UserContext(), ctx.Params("user_id")))
}

func (c *circloController) ListUserPreferences(ctx *fiber.Ctx) error {
	return proxy(ctx, c.service.ListUserPreferences(ctx.UserContext(), ctx.QueryInt("page", 1), ctx.QueryInt("limit", 10)))
}

func (c *circloController) PostsByKeywords(ctx *fiber.Ctx) error {
	keywords := strings.TrimSpace(ctx.Query("keywords"))
	if keywords == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "keywords parameter is required"))
	}
	return proxy(ctx, c.service.PostsByKeywords(ctx.UserContext(), keywords, ctx.QueryInt("page", 1), ctx.QueryInt("limit", 10)))
}

func (c *circloController) CreatePost(ctx *fiber.Ctx) error {
	var post circlo.Post
	if err := ctx.BodyParser(&post); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	return proxy(ctx, c.service.CreatePost(ctx.UserContext(), post))
}

func (c *circloController) CreateAgent(ctx *fiber.Ctx) error {
	profile := map[string]any{}
	if err := ctx.BodyParser(&profile); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	return proxy(ctx, c.service.CreateAgent(ctx.UserContext(), profile))
}

func (c *circloController) Debug(ctx *fiber.Ctx) error {
	return ctx.JSON(c.service.Debug(ctx.UserContext()))
}
