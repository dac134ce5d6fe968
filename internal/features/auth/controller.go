package auth

import (
	"errors"

	"go-fitstaff/internal/access"
	"go-fitstaff/internal/features/staff"
	"go-fitstaff/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	AuthService AuthService
	Evaluator   *access.Evaluator
}

func NewAuthController(authService AuthService, evaluator *access.Evaluator) *AuthController {
	return &AuthController{
		AuthService: authService,
		Evaluator:   evaluator,
	}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type MeResponse struct {
	Staff       *staff.Staff        `json:"staff,omitempty"`
	Subject     *access.Subject     `json:"subject"`
	Permissions []access.Permission `json:"permissions"`
}

// Login godoc
// @Summary      Login
// @Description  Login with username and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginRequest true "Login Input"
// @Success      200  {object} LoginResult
// @Failure      400  {object} map[string]string
// @Failure      401  {object} map[string]string
// @Router       /api/auth/login [post]
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil || req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	result, err := ctrl.AuthService.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrInactive) {
			status = fiber.StatusUnauthorized
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(result)
}

// Logout godoc
// @Summary      Logout
// @Description  Revokes the current session token
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Router       /api/auth/logout [post]
func (ctrl *AuthController) Logout(c *fiber.Ctx) error {
	if err := ctrl.AuthService.Logout(c.UserContext(), middleware.ClaimsFrom(c)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to end session",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me godoc
// @Summary      Current staff member
// @Description  Returns the session subject and its effective permissions
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object} MeResponse
// @Router       /api/auth/me [get]
func (ctrl *AuthController) Me(c *fiber.Ctx) error {
	subject := middleware.SubjectFrom(c)
	resp := MeResponse{
		Subject:     subject,
		Permissions: ctrl.Evaluator.EffectivePermissions(subject),
	}

	// The dev subject has no stored profile
	if claims := middleware.ClaimsFrom(c); claims != nil {
		member, err := ctrl.AuthService.Me(c.UserContext(), claims.StaffID)
		if err != nil && !errors.Is(err, staff.ErrNotFound) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		resp.Staff = member
	}

	return c.JSON(resp)
}
