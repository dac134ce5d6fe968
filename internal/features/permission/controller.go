package permission

import (
	"errors"

	"go-fitstaff/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type PermissionController struct {
	PermissionService PermissionService
}

func NewPermissionController(permissionService PermissionService) *PermissionController {
	return &PermissionController{
		PermissionService: permissionService,
	}
}

// Me godoc
// @Summary      Caller access summary
// @Description  Effective permissions, accessible pages and per data type access levels of the caller
// @Tags         access
// @Produce      json
// @Success      200  {object} Summary
// @Router       /api/access/me [get]
func (ctrl *PermissionController) Me(c *fiber.Ctx) error {
	return c.JSON(ctrl.PermissionService.Summary(middleware.SubjectFrom(c)))
}

// Check godoc
// @Summary      Check permissions
// @Description  Evaluates one or more permissions and explains each result
// @Tags         access
// @Accept       json
// @Produce      json
// @Param        request body CheckRequest true "Permissions to check"
// @Success      200  {object} CheckResponse
// @Failure      400  {object} map[string]string
// @Failure      403  {object} map[string]string
// @Router       /api/access/check [post]
func (ctrl *PermissionController) Check(c *fiber.Ctx) error {
	var req CheckRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := ctrl.PermissionService.Check(middleware.SubjectFrom(c), req)
	if err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, ErrNotManager) {
			status = fiber.StatusForbidden
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(resp)
}

// CheckModify godoc
// @Summary      Check record modification
// @Description  Reports whether the caller may change a record with the given ownership
// @Tags         access
// @Accept       json
// @Produce      json
// @Param        request body ModifyRequest true "Record ownership"
// @Success      200  {object} ModifyResponse
// @Failure      400  {object} map[string]string
// @Router       /api/access/modify [post]
func (ctrl *PermissionController) CheckModify(c *fiber.Ctx) error {
	var req ModifyRequest
	if err := c.BodyParser(&req); err != nil || req.DataType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "data_type is required",
		})
	}
	return c.JSON(ctrl.PermissionService.CheckModify(middleware.SubjectFrom(c), req))
}

// CheckPage godoc
// @Summary      Check page access
// @Tags         access
// @Produce      json
// @Param        path query string true "Dashboard path"
// @Success      200  {object} PageResponse
// @Router       /api/access/page [get]
func (ctrl *PermissionController) CheckPage(c *fiber.Ctx) error {
	path := c.Query("path")
	if path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "path is required",
		})
	}
	return c.JSON(ctrl.PermissionService.CheckPage(middleware.SubjectFrom(c), path))
}

// Matrix godoc
// @Summary      Access matrix
// @Description  Role permissions, page requirements and position levels
// @Tags         access
// @Produce      json
// @Success      200  {object} Matrix
// @Router       /api/access/matrix [get]
func (ctrl *PermissionController) Matrix(c *fiber.Ctx) error {
	return c.JSON(ctrl.PermissionService.Matrix())
}
