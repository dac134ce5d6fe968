package system

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"go-fitstaff/internal/config"

	"github.com/gofiber/fiber/v2"
)

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(ctx context.Context) error {
	return p.err
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"database up", nil, fiber.StatusOK},
		{"database down", errors.New("connection refused"), fiber.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := &HealthController{
				config:  &config.Config{AppId: "test", Environment: "development"},
				mongo:   fakePinger{err: tt.err},
				started: time.Now(),
			}
			app := fiber.New()
			app.Get("/api/health", ctrl.Health)

			resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}
