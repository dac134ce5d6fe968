package record

import (
	"go-fitstaff/internal/common/api"
	"go-fitstaff/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RecordApi struct {
	recordController *RecordController
	guard            *middleware.Guard
}

func NewRecordApi(recordController *RecordController, guard *middleware.Guard) api.Route {
	return &RecordApi{
		recordController: recordController,
		guard:            guard,
	}
}

// Setup registers record-related routes. Permissions depend on the data type
// and are checked by the service.
func (h *RecordApi) Setup(app *fiber.App) {
	records := app.Group("/api/records", h.guard.Authenticate())

	records.Put("/tasks/:id/status", h.recordController.TransitionStatus)

	records.Get("/:entity", h.recordController.ListRecords)
	records.Post("/:entity", h.recordController.CreateRecord)
	records.Post("/:entity/query", h.recordController.QueryRecords)
	records.Get("/:entity/:id", h.recordController.GetRecord)
	records.Put("/:entity/:id", h.recordController.UpdateRecord)
	records.Put("/:entity/:id/assign", h.recordController.AssignRecord)
	records.Delete("/:entity/:id", h.recordController.DeleteRecord)
}
