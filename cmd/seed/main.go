package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"

	"go-fitstaff/internal/access"
	"go-fitstaff/internal/config"
	"go-fitstaff/internal/database"
	"go-fitstaff/internal/features/audit"
	"go-fitstaff/internal/features/staff"
	"go-fitstaff/internal/logger"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

type seedStaff struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Position string `json:"position"`
}

// Seed creates one account per entry of data/staff.json. Existing usernames are skipped.
func Seed(
	lc fx.Lifecycle,
	staffRepo staff.StaffRepository,
	staffService staff.StaffService,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				ctx := context.Background()
				logger.Info("Starting staff seeding")

				path := os.Getenv("SEED_FILE")
				if path == "" {
					path = "cmd/seed/data/staff.json"
				}
				password := os.Getenv("SEED_PASSWORD")
				if password == "" {
					password = "changeme123"
				}

				b, err := os.ReadFile(path)
				if err != nil {
					logger.Error("Failed to read seed file", zap.String("path", path), zap.Error(err))
					return
				}
				var entries []seedStaff
				if err := json.Unmarshal(b, &entries); err != nil {
					logger.Error("Failed to parse seed file", zap.Error(err))
					return
				}

				if err := staffRepo.EnsureIndexes(ctx); err != nil {
					logger.Error("Failed to ensure staff indexes", zap.Error(err))
					return
				}

				for _, e := range entries {
					created, err := staffService.CreateStaff(ctx, staff.CreateStaffRequest{
						Username: e.Username,
						Password: password,
						Name:     e.Name,
						Role:     e.Role,
						Position: e.Position,
					})
					switch {
					case errors.Is(err, staff.ErrUsernameTaken):
						logger.Info("Staff exists, skipping", zap.String("username", e.Username))
					case err != nil:
						logger.Error("Failed to create staff", zap.String("username", e.Username), zap.Error(err))
					default:
						logger.Info("Staff created",
							zap.String("username", created.Username),
							zap.String("role", string(created.Role)),
							zap.String("department", created.Department),
						)
					}
				}

				logger.Info("Seeding complete")
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			func(cfg *config.Config) *access.Evaluator {
				return access.New(access.Policy{AllowMissingDepartment: cfg.AllowMissingDepartment})
			},
			staff.NewStaffRepository,
			fx.Annotate(
				staff.NewStaffRepository,
				fx.As(new(audit.NameFinder)),
			),
			audit.NewAuditRepository,
			audit.NewAuditService,
			staff.NewStaffService,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}

	<-app.Done()
}
