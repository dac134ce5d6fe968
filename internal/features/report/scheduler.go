package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-fitstaff/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const digestTimeout = time.Minute

// DigestScheduler runs RunDigest on the configured cron schedule
type DigestScheduler struct {
	service  ReportService
	logger   *zap.Logger
	schedule string
	cron     *cron.Cron
}

func NewDigestScheduler(cfg *config.Config, service ReportService, logger *zap.Logger) (*DigestScheduler, error) {
	s := &DigestScheduler{
		service:  service,
		logger:   logger,
		schedule: strings.TrimSpace(cfg.DigestSchedule),
		cron:     cron.New(),
	}
	if s.Enabled() {
		if _, err := s.cron.AddFunc(s.schedule, s.run); err != nil {
			return nil, fmt.Errorf("invalid DIGEST_SCHEDULE %q: %w", s.schedule, err)
		}
	}
	return s, nil
}

// Enabled is false when the schedule is empty or "off"
func (s *DigestScheduler) Enabled() bool {
	return s.schedule != "" && !strings.EqualFold(s.schedule, "off")
}

func (s *DigestScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
	defer cancel()

	if _, err := s.service.RunDigest(ctx); err != nil {
		s.logger.Error("Report digest failed", zap.Error(err))
	}
}

func (s *DigestScheduler) Start() {
	if !s.Enabled() {
		s.logger.Info("Report digest disabled")
		return
	}
	s.logger.Info("Starting report digest scheduler", zap.String("schedule", s.schedule))
	s.cron.Start()
}

func (s *DigestScheduler) Stop(ctx context.Context) error {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RegisterDigestScheduler ties the scheduler to the application lifecycle
func RegisterDigestScheduler(lc fx.Lifecycle, s *DigestScheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.Start()
			return nil
		},
		OnStop: s.Stop,
	})
}
