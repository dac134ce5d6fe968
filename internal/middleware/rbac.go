package middleware

import (
	"go-fitstaff/internal/access"
	"go-fitstaff/internal/config"
	"go-fitstaff/internal/logger"
	"go-fitstaff/internal/metrics"
	"go-fitstaff/internal/session"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LandingPage is where a denied page request is sent
const LandingPage = "/dashboard"

// Guard builds the authentication and authorization handlers for routes
type Guard struct {
	evaluator *access.Evaluator
	sessions  session.Store
	metrics   *metrics.Metrics
	logger    *zap.Logger
	skipAuth  bool
}

func NewGuard(cfg *config.Config, evaluator *access.Evaluator, sessions session.Store, m *metrics.Metrics, log *zap.Logger) *Guard {
	return &Guard{
		evaluator: evaluator,
		sessions:  sessions,
		metrics:   m,
		logger:    log,
		skipAuth:  cfg.SkipAuth,
	}
}

// Evaluator exposes the evaluator the guard decides with
func (g *Guard) Evaluator() *access.Evaluator {
	return g.evaluator
}

// RequirePermission lets the request through when the subject holds any of perms
func (g *Guard) RequirePermission(perms ...access.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := SubjectFrom(c)
		if s == nil {
			g.metrics.ObserveDecision("permission", false)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":  "Unauthorized",
				"reason": access.ReasonLoginRequired,
			})
		}

		if g.evaluator.HasAnyPermission(s, perms...) {
			g.metrics.ObserveDecision("permission", true)
			return c.Next()
		}

		g.metrics.ObserveDecision("permission", false)
		reason := access.ReasonInsufficientRole
		if len(perms) > 0 {
			reason = g.evaluator.CheckPermissionWithReason(s, perms[0]).Reason
		}
		g.denied(c, s, "permission")
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":  "Forbidden: Insufficient permissions",
			"reason": reason,
		})
	}
}

// RequirePageAccess guards the API behind a dashboard page
func (g *Guard) RequirePageAccess(path string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := SubjectFrom(c)
		if g.evaluator.HasPageAccess(s, path) {
			g.metrics.ObserveDecision("page", true)
			return c.Next()
		}

		g.metrics.ObserveDecision("page", false)
		g.denied(c, s, "page")
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":    "Forbidden: Page not accessible",
			"redirect": LandingPage,
		})
	}
}

// RequireElevated lets the request through when the subject position is at
// least as senior as required. Admins always pass.
func (g *Guard) RequireElevated(required access.Position) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := SubjectFrom(c)
		if s.IsAdmin() || g.evaluator.HasElevatedAccess(s, required) {
			g.metrics.ObserveDecision("position", true)
			return c.Next()
		}

		g.metrics.ObserveDecision("position", false)
		g.denied(c, s, "position")
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden: Position " + string(required) + " or above required",
		})
	}
}

func (g *Guard) denied(c *fiber.Ctx, s *access.Subject, kind string) {
	staffID := ""
	if s != nil {
		staffID = s.ID
	}
	g.logger.Info("Access denied",
		zap.String("guard", kind),
		zap.String(logger.FieldStaffID, staffID),
		zap.String(logger.FieldIP, c.IP()),
		zap.String(logger.FieldPath, c.Path()),
	)
}
