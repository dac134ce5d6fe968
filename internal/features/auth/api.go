package auth

import (
	"go-fitstaff/internal/common/api"
	"go-fitstaff/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuthApi struct {
	controller *AuthController
	guard      *middleware.Guard
}

func NewAuthApi(controller *AuthController, guard *middleware.Guard) api.Route {
	return &AuthApi{
		controller: controller,
		guard:      guard,
	}
}

// Setup registers all auth-related routes
func (h *AuthApi) Setup(app *fiber.App) {
	auth := app.Group("/api/auth")

	// Public routes
	auth.Post("/login", h.controller.Login)

	auth.Post("/logout", h.guard.Authenticate(), h.controller.Logout)
	auth.Get("/me", h.guard.Authenticate(), h.controller.Me)
}
