package notification

import (
	"go-fitstaff/internal/common/api"
	"go-fitstaff/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type NotificationApi struct {
	controller *NotificationController
	guard      *middleware.Guard
}

func NewNotificationApi(controller *NotificationController, guard *middleware.Guard) api.Route {
	return &NotificationApi{
		controller: controller,
		guard:      guard,
	}
}

func (h *NotificationApi) Setup(app *fiber.App) {
	app.Get("/api/ws", h.controller.UpgradeRequired, h.guard.Authenticate(), websocket.New(h.controller.HandleWebSocket))

	group := app.Group("/api/notifications", h.guard.Authenticate())

	group.Get("/", h.controller.List)
	group.Get("/unread-count", h.controller.GetUnreadCount)
	group.Put("/:id/read", h.controller.MarkAsRead)
	group.Post("/mark-all-read", h.controller.MarkAllAsRead)
}
