package system

import (
	"go-fitstaff/internal/common/api"
	"go-fitstaff/internal/config"
	"go-fitstaff/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type HealthApi struct {
	controller *HealthController
	guard      *middleware.Guard
	config     *config.Config
}

func NewHealthApi(controller *HealthController, guard *middleware.Guard, cfg *config.Config) api.Route {
	return &HealthApi{
		controller: controller,
		guard:      guard,
		config:     cfg,
	}
}

// Setup registers health and, outside production, debug routes
func (h *HealthApi) Setup(app *fiber.App) {
	app.Get("/api/health", h.controller.Health)

	if !h.config.IsProduction() {
		debug := app.Group("/api/debug", h.guard.Authenticate())
		debug.Get("/me", h.controller.Whoami)
	}
}
