package routes

import (
	v1 "skill-eval/internal/delivery/http/routes/v1"
	"skill-eval/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	v1 v1.Deps
}

func NewRegistry(deps v1.Deps) *Registry {
	return &Registry{v1: deps}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
	r.registerFallback(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.v1.System == nil {
		return
	}
	app.Get("/health", r.v1.System.Health)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.v1)
}

func (r *Registry) registerFallback(app *fiber.App) {
	app.Use(func(c fiber.Ctx) error {
		return response.Error(c, fiber.StatusNotFound, response.CodeNotFound, "route not found", nil)
	})
}
