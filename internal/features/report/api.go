package report

import (
	"go-fitstaff/internal/access"
	"go-fitstaff/internal/common/api"
	"go-fitstaff/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportApi struct {
	ReportController *ReportController
	Guard            *middleware.Guard
}

func NewReportApi(reportController *ReportController, guard *middleware.Guard) api.Route {
	return &ReportApi{
		ReportController: reportController,
		Guard:            guard,
	}
}

func (api *ReportApi) Setup(app *fiber.App) {
	group := app.Group("/api/reports", api.Guard.Authenticate())

	group.Get("/export", api.Guard.RequirePermission(access.PermReportsExport), api.ReportController.Export)
	group.Get("/digests", api.Guard.RequirePermission(access.PermReportsViewAll), api.ReportController.ListDigests)
	group.Post("/digests/run",
		api.Guard.RequirePermission(access.PermReportsViewAll),
		api.Guard.RequireElevated(access.PositionManager),
		api.ReportController.RunDigest,
	)
}
