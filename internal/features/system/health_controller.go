package system

import (
	"context"
	"time"

	"go-fitstaff/internal/config"
	"go-fitstaff/internal/database"
	"go-fitstaff/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Pinger reports whether a backing store answers
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	config  *config.Config
	mongo   Pinger
	started time.Time
}

func NewHealthController(cfg *config.Config, db *database.MongodbDB) *HealthController {
	return &HealthController{
		config:  cfg,
		mongo:   db,
		started: time.Now(),
	}
}

// Health godoc
// @Summary      Service health
// @Description  Reports whether the database answers
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /api/health [get]
func (h *HealthController) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	mongoStatus := "up"
	if err := h.mongo.Ping(ctx); err != nil {
		status = fiber.StatusServiceUnavailable
		mongoStatus = "down"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":      mongoStatus,
		"app":         h.config.AppId,
		"environment": h.config.Environment,
		"uptime":      time.Since(h.started).Round(time.Second).String(),
	})
}

// Whoami godoc
// @Summary      Current session
// @Description  Echoes the subject and token claims of the caller
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/debug/me [get]
func (h *HealthController) Whoami(c *fiber.Ctx) error {
	resp := fiber.Map{
		"subject": middleware.SubjectFrom(c),
	}
	if claims := middleware.ClaimsFrom(c); claims != nil {
		resp["token_id"] = claims.ID
		if claims.ExpiresAt != nil {
			resp["expires_at"] = claims.ExpiresAt.Time
		}
	}
	return c.JSON(resp)
}
