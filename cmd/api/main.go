package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go-fitstaff/internal/access"
	common_api "go-fitstaff/internal/common/api"
	"go-fitstaff/internal/config"
	"go-fitstaff/internal/database"
	"go-fitstaff/internal/features/audit"
	"go-fitstaff/internal/features/auth"
	"go-fitstaff/internal/features/notification"
	"go-fitstaff/internal/features/permission"
	"go-fitstaff/internal/features/record"
	"go-fitstaff/internal/features/report"
	"go-fitstaff/internal/features/staff"
	"go-fitstaff/internal/features/system"
	"go-fitstaff/internal/logger"
	"go-fitstaff/internal/metrics"
	"go-fitstaff/internal/middleware"
	"go-fitstaff/internal/session"
	"go-fitstaff/pkg/utils"

	_ "go-fitstaff/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.CORSMiddleware(cfg))

	return app
}

// NewEvaluator builds the access evaluator with the configured policy
func NewEvaluator(cfg *config.Config) *access.Evaluator {
	return access.New(access.Policy{
		AllowMissingDepartment: cfg.AllowMissingDepartment,
	})
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes calls Setup() on every member of the "routes" group
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route, logger *zap.Logger) {
	for _, route := range routes {
		logger.Debug("Setting up route", zap.String("route", fmt.Sprintf("%T", route)))
		route.Setup(app)
	}
	logger.Info("Routes registered", zap.Int("count", len(routes)))
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`, ``),
)

// StartServer starts Fiber in a goroutine and shuts it down when the app exits
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				logger.Info("Listening", zap.String("addr", port))
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(lc fx.Lifecycle, staffRepo staff.StaffRepository, recordRepo record.RecordRepository, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := staffRepo.EnsureIndexes(ctx); err != nil {
					logger.Error("Failed to ensure staff indexes", zap.Error(err))
				}
				if err := recordRepo.EnsureIndexes(ctx); err != nil {
					logger.Error("Failed to ensure record indexes", zap.Error(err))
				}
			}()
			return nil
		},
	})
}

// @title           Fitstaff API
// @version         1.0
// @description     Staff operations for a fitness center: tasks, schedules, reports, announcements and access control.

// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			NewFiberServer,
			database.NewDatabase,
			metrics.NewMetrics,
			session.NewStore,
			NewEvaluator,
			middleware.NewGuard,

			// Repositories
			audit.NewAuditRepository,
			staff.NewStaffRepository,
			record.NewRecordRepository,
			notification.NewNotificationRepository,
			report.NewDigestRepository,

			// Services
			audit.NewAuditService,
			staff.NewStaffService,
			auth.NewAuthService,
			notification.NewHub,
			notification.NewNotificationService,
			record.NewRecordService,
			report.NewReportService,
			report.NewDigestScheduler,
			permission.NewPermissionService,

			// Interface adapters
			func(r staff.StaffRepository) audit.NameFinder { return r },
			func(s notification.NotificationService) record.Notifier { return s },

			// Controllers
			auth.NewAuthController,
			staff.NewStaffController,
			record.NewRecordController,
			audit.NewAuditController,
			notification.NewNotificationController,
			report.NewReportController,
			permission.NewPermissionController,
			system.NewHealthController,

			// API Routes
			AsRoute(auth.NewAuthApi),
			AsRoute(staff.NewStaffApi),
			AsRoute(record.NewRecordApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(report.NewReportApi),
			AsRoute(permission.NewPermissionApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewMetricsApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) { utils.SetSecret(cfg.JWTSecret) },
			RegisterAllRoutesWithAnnotation,
			StartServer,
			InitializeIndexes,
			report.RegisterDigestScheduler,
		),
	)

	app.Run()
}
