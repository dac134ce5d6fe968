package permission

import (
	"go-fitstaff/internal/access"
	"go-fitstaff/internal/common/api"
	"go-fitstaff/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type PermissionApi struct {
	permissionController *PermissionController
	guard                *middleware.Guard
}

func NewPermissionApi(permissionController *PermissionController, guard *middleware.Guard) api.Route {
	return &PermissionApi{
		permissionController: permissionController,
		guard:                guard,
	}
}

// Setup registers access introspection routes
func (h *PermissionApi) Setup(app *fiber.App) {
	group := app.Group("/api/access", h.guard.Authenticate())

	group.Get("/me", h.permissionController.Me)
	group.Post("/check", h.permissionController.Check)
	group.Post("/modify", h.permissionController.CheckModify)
	group.Get("/page", h.permissionController.CheckPage)
	group.Get("/matrix", h.guard.RequirePermission(access.PermPermissionsManage), h.permissionController.Matrix)
}
