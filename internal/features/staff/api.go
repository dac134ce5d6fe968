package staff

import (
	"go-fitstaff/internal/access"
	"go-fitstaff/internal/common/api"
	"go-fitstaff/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type StaffApi struct {
	controller *StaffController
	guard      *middleware.Guard
}

func NewStaffApi(controller *StaffController, guard *middleware.Guard) api.Route {
	return &StaffApi{
		controller: controller,
		guard:      guard,
	}
}

// Setup registers all staff routes
func (h *StaffApi) Setup(app *fiber.App) {
	staff := app.Group("/api/staff", h.guard.Authenticate())

	staff.Get("/", h.guard.RequirePermission(access.PermStaffView), h.controller.ListStaff)
	staff.Get("/:id", h.guard.RequirePermission(access.PermStaffView), h.controller.GetStaff)
	staff.Post("/", h.guard.RequirePermission(access.PermStaffCreate), h.controller.CreateStaff)
	staff.Put("/:id", h.guard.RequirePermission(access.PermStaffUpdate), h.controller.UpdateStaff)
	staff.Put("/:id/overrides", h.guard.RequirePermission(access.PermPermissionsManage), h.controller.SetOverrides)
	staff.Delete("/:id", h.guard.RequirePermission(access.PermStaffDelete), h.controller.DeleteStaff)
}
