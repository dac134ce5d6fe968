package report

import (
	"errors"

	"go-fitstaff/internal/features/record"
	"go-fitstaff/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportController struct {
	ReportService ReportService
}

func NewReportController(reportService ReportService) *ReportController {
	return &ReportController{
		ReportService: reportService,
	}
}

// Export godoc
// @Summary      Export reports
// @Description  Exports the reports visible to the caller as an Excel workbook
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        period query string false "Report period" Enums(daily, weekly, monthly)
// @Success      200 {file} file
// @Failure      400 {object} map[string]string
// @Failure      413 {object} map[string]string
// @Router       /api/reports/export [get]
func (ctrl *ReportController) Export(c *fiber.Ctx) error {
	data, filename, err := ctrl.ReportService.ExportToExcel(c.UserContext(), middleware.SubjectFrom(c), c.Query("period"))
	if err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, ErrExportTooLarge) {
			status = fiber.StatusRequestEntityTooLarge
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.Send(data)
}

// ListDigests godoc
// @Summary      List report digests
// @Tags         reports
// @Produce      json
// @Param        limit query int false "Number of digests" default(12)
// @Success      200 {array} Digest
// @Router       /api/reports/digests [get]
func (ctrl *ReportController) ListDigests(c *fiber.Ctx) error {
	limit := record.ParseInt64(c.Query("limit", "12"), 12)

	digests, err := ctrl.ReportService.ListDigests(c.UserContext(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(digests)
}

// RunDigest godoc
// @Summary      Build a report digest now
// @Tags         reports
// @Produce      json
// @Success      201 {object} Digest
// @Router       /api/reports/digests/run [post]
func (ctrl *ReportController) RunDigest(c *fiber.Ctx) error {
	digest, err := ctrl.ReportService.RunDigest(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(digest)
}
