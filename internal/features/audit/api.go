package audit

import (
	"go-fitstaff/internal/access"
	"go-fitstaff/internal/common/api"
	"go-fitstaff/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuditApi struct {
	controller *AuditController
	guard      *middleware.Guard
}

func NewAuditApi(controller *AuditController, guard *middleware.Guard) api.Route {
	return &AuditApi{
		controller: controller,
		guard:      guard,
	}
}

func (h *AuditApi) Setup(app *fiber.App) {
	audit := app.Group("/api/audit", h.guard.Authenticate())

	audit.Get("/", h.guard.RequirePermission(access.PermSettingsView), h.controller.ListLogs)
}
