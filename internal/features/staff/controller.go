package staff

import (
	"errors"

	"go-fitstaff/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type StaffController struct {
	StaffService StaffService
}

func NewStaffController(staffService StaffService) *StaffController {
	return &StaffController{
		StaffService: staffService,
	}
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrUsernameTaken):
		return fiber.StatusConflict
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, ErrInvalidRole), errors.Is(err, ErrInvalidPosition),
		errors.Is(err, ErrInvalidPermission), errors.Is(err, ErrRoleImmutable),
		errors.Is(err, ErrMissingFields):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

// ListStaff godoc
// @Summary      List staff
// @Description  Lists the staff members visible to the caller
// @Tags         staff
// @Produce      json
// @Param        role query string false "Filter by role"
// @Param        status query string false "Filter by status"
// @Success      200  {array} Staff
// @Router       /api/staff [get]
func (ctrl *StaffController) ListStaff(c *fiber.Ctx) error {
	filter := make(map[string]interface{})
	if role := c.Query("role"); role != "" {
		filter["role"] = role
	}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	staff, err := ctrl.StaffService.ListStaff(c.UserContext(), middleware.SubjectFrom(c), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch staff",
		})
	}
	return c.JSON(staff)
}

// GetStaff godoc
// @Summary      Get staff member
// @Tags         staff
// @Produce      json
// @Param        id path string true "Staff ID"
// @Success      200  {object} Staff
// @Failure      404  {object} map[string]string
// @Router       /api/staff/{id} [get]
func (ctrl *StaffController) GetStaff(c *fiber.Ctx) error {
	staff, err := ctrl.StaffService.GetStaff(c.UserContext(), middleware.SubjectFrom(c), c.Params("id"))
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(staff)
}

// CreateStaff godoc
// @Summary      Create staff member
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        input body CreateStaffRequest true "Staff"
// @Success      201  {object} Staff
// @Failure      400  {object} map[string]string
// @Failure      409  {object} map[string]string
// @Router       /api/staff [post]
func (ctrl *StaffController) CreateStaff(c *fiber.Ctx) error {
	var req CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	staff, err := ctrl.StaffService.CreateStaff(c.UserContext(), req)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(staff)
}

// UpdateStaff godoc
// @Summary      Update staff profile
// @Description  Role is fixed at creation and cannot be changed
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        id path string true "Staff ID"
// @Param        input body UpdateStaffRequest true "Fields to update"
// @Success      200  {object} Staff
// @Router       /api/staff/{id} [put]
func (ctrl *StaffController) UpdateStaff(c *fiber.Ctx) error {
	var req UpdateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	staff, err := ctrl.StaffService.UpdateStaff(c.UserContext(), middleware.SubjectFrom(c), c.Params("id"), req)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(staff)
}

// SetOverrides godoc
// @Summary      Replace permission overrides
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        id path string true "Staff ID"
// @Param        input body OverridesRequest true "Overrides"
// @Success      200  {object} Staff
// @Router       /api/staff/{id}/overrides [put]
func (ctrl *StaffController) SetOverrides(c *fiber.Ctx) error {
	var req OverridesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	staff, err := ctrl.StaffService.SetOverrides(c.UserContext(), c.Params("id"), req.Overrides)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(staff)
}

// DeleteStaff godoc
// @Summary      Delete staff member
// @Tags         staff
// @Param        id path string true "Staff ID"
// @Success      204
// @Router       /api/staff/{id} [delete]
func (ctrl *StaffController) DeleteStaff(c *fiber.Ctx) error {
	if err := ctrl.StaffService.DeleteStaff(c.UserContext(), middleware.SubjectFrom(c), c.Params("id")); err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
