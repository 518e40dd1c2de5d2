package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/ports"
)

// Scheduler wires the cron driver with periodic retraining.
type Scheduler struct {
	driver  ports.Scheduler
	service *Service
	logger  *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring retrains.
func NewScheduler(driver ports.Scheduler, service *Service, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{driver: driver, service: service, logger: logger}
}

// Start registers the retrain job with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.service == nil {
		return nil
	}

	job := func(trigger time.Time) {
		s.logger.Info("scheduled retrain", "trigger", trigger.Format(time.RFC3339))
		_, err := s.service.Retrain(ctx, "schedule")
		switch {
		case errors.Is(err, domain.ErrTrainingInProgress):
			s.logger.Info("scheduled retrain skipped, another run is active")
		case err != nil:
			s.logger.Error("scheduled retrain failed", "error", err)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
