package controller

import (
	"os"
	"path/filepath"

	"haruhi-agent-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const avatarFallbackSVG = "<svg xmlns='http://www.w3.org/2000/svg' viewBox='0 0 600 1067'>" +
	"<rect width='100%' height='100%' fill='#f8f0ff'/>" +
	"<text x='50%' y='50%' dominant-baseline='middle' text-anchor='middle'" +
	" font-family='Arial, Helvetica, sans-serif' font-size='48' fill='#333'>Haruhi</text>" +
	"</svg>"

type ISystemController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
	Avatar(ctx *fiber.Ctx) error
}

type systemController struct {
	service   service.ISystemService
	staticDir string
}

func NewSystemController(service service.ISystemService, staticDir string) ISystemController {
	return &systemController{service: service, staticDir: staticDir}
}

func (c *systemController) RegisterRoutes(r fiber.Router) {
	r.Get("/healthz", c.Health)
	r.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// registered before the static mount so the fallback wins when the file is missing
	r.Get("/static/haruhi.jpg", c.Avatar)
	r.Static("/static", c.staticDir)
}

func (c *systemController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(c.service.Health())
}

func (c *systemController) Avatar(ctx *fiber.Ctx) error {
	path := filepath.Join(c.staticDir, "haruhi.jpg")
	if _, err := os.Stat(path); err == nil {
		return ctx.SendFile(path)
	}
	ctx.Type("svg")
	return ctx.SendString(avatarFallbackSVG)
}
