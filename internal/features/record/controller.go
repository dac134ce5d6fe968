package record

import (
	"errors"

	"go-fitstaff/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RecordController struct {
	Service RecordService
}

func NewRecordController(service RecordService) *RecordController {
	return &RecordController{Service: service}
}

type QueryRequest struct {
	Filters   []Filter `json:"filters"`
	Page      int64    `json:"page"`
	Limit     int64    `json:"limit"`
	SortBy    string   `json:"sort_by"`
	SortOrder string   `json:"sort_order"`
}

func fail(c *fiber.Ctx, err error) error {
	var forbidden *ForbiddenError
	var status int
	switch {
	case errors.As(err, &forbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":  "Forbidden: Insufficient permissions",
			"reason": forbidden.Reason,
		})
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUnknownEntity):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrNotAssignable):
		status = fiber.StatusConflict
	default:
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// CreateRecord godoc
// @Summary      Create record
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        entity path string true "Data type" Enums(tasks, schedules, reports, announcements, suggestions, ot_members)
// @Param        input body CreateRecordRequest true "Record"
// @Success      201 {object} Record
// @Router       /api/records/{entity} [post]
func (ctrl *RecordController) CreateRecord(c *fiber.Ctx) error {
	var req CreateRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	rec, err := ctrl.Service.CreateRecord(c.UserContext(), middleware.SubjectFrom(c), c.Params("entity"), req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

// GetRecord godoc
// @Summary      Get record
// @Tags         records
// @Produce      json
// @Param        entity path string true "Data type"
// @Param        id path string true "Record ID"
// @Success      200 {object} Record
// @Router       /api/records/{entity}/{id} [get]
func (ctrl *RecordController) GetRecord(c *fiber.Ctx) error {
	rec, err := ctrl.Service.GetRecord(c.UserContext(), middleware.SubjectFrom(c), c.Params("entity"), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rec)
}

// ListRecords godoc
// @Summary      List visible records
// @Description  Query parameters other than paging and sorting are equality filters
// @Tags         records
// @Produce      json
// @Param        entity path string true "Data type"
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Success      200 {object} map[string]interface{}
// @Router       /api/records/{entity} [get]
func (ctrl *RecordController) ListRecords(c *fiber.Ctx) error {
	page := ParseInt64(c.Query("page", "1"), 1)
	limit := ParseInt64(c.Query("limit", "10"), 10)
	sortBy := c.Query("sort_by", "created_at")
	sortOrder := c.Query("sort_order", "desc")

	var filters []Filter
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		k := string(key)
		if k != "page" && k != "limit" && k != "sort_by" && k != "sort_order" {
			filters = append(filters, Filter{Field: k, Operator: "eq", Value: string(value)})
		}
	})

	return ctrl.list(c, filters, page, limit, sortBy, sortOrder)
}

// QueryRecords godoc
// @Summary      Query visible records
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        entity path string true "Data type"
// @Param        input body QueryRequest true "Query"
// @Success      200 {object} map[string]interface{}
// @Router       /api/records/{entity}/query [post]
func (ctrl *RecordController) QueryRecords(c *fiber.Ctx) error {
	var req QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	return ctrl.list(c, req.Filters, req.Page, req.Limit, req.SortBy, req.SortOrder)
}

func (ctrl *RecordController) list(c *fiber.Ctx, filters []Filter, page, limit int64, sortBy, sortOrder string) error {
	records, total, err := ctrl.Service.ListRecords(c.UserContext(), middleware.SubjectFrom(c), c.Params("entity"), filters, page, limit, sortBy, sortOrder)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"data":  records,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// UpdateRecord godoc
// @Summary      Update record data
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        entity path string true "Data type"
// @Param        id path string true "Record ID"
// @Success      200 {object} Record
// @Router       /api/records/{entity}/{id} [put]
func (ctrl *RecordController) UpdateRecord(c *fiber.Ctx) error {
	var data map[string]any
	if err := c.BodyParser(&data); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	rec, err := ctrl.Service.UpdateRecord(c.UserContext(), middleware.SubjectFrom(c), c.Params("entity"), c.Params("id"), data)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rec)
}

// DeleteRecord godoc
// @Summary      Delete record
// @Tags         records
// @Param        entity path string true "Data type"
// @Param        id path string true "Record ID"
// @Success      200 {object} map[string]string
// @Router       /api/records/{entity}/{id} [delete]
func (ctrl *RecordController) DeleteRecord(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteRecord(c.UserContext(), middleware.SubjectFrom(c), c.Params("entity"), c.Params("id")); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Record deleted successfully",
	})
}

// AssignRecord godoc
// @Summary      Assign staff
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        entity path string true "Data type" Enums(tasks, ot_members)
// @Param        id path string true "Record ID"
// @Param        input body AssignRequest true "Assignees"
// @Success      200 {object} Record
// @Router       /api/records/{entity}/{id}/assign [put]
func (ctrl *RecordController) AssignRecord(c *fiber.Ctx) error {
	var req AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	rec, err := ctrl.Service.AssignRecord(c.UserContext(), middleware.SubjectFrom(c), c.Params("entity"), c.Params("id"), req.StaffIDs)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rec)
}

// TransitionStatus godoc
// @Summary      Change task status
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        id path string true "Task ID"
// @Param        input body StatusRequest true "Next status"
// @Success      200 {object} Record
// @Router       /api/records/tasks/{id}/status [put]
func (ctrl *RecordController) TransitionStatus(c *fiber.Ctx) error {
	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	rec, err := ctrl.Service.TransitionStatus(c.UserContext(), middleware.SubjectFrom(c), c.Params("id"), req.Status)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rec)
}
