package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scanner is implemented by the notifier; a scan walks the stores and
// emits any notifications whose milestones have been crossed.
type Scanner interface {
	Scan(ctx context.Context) error
}

// NotificationScheduler drives the notifier: one delayed scan shortly
// after startup, periodic rescans on a cron spec, and on-demand rescans
// whenever a store mutation may have crossed a milestone.
type NotificationScheduler struct {
	cronEngine   *cron.Cron
	scanner      Scanner
	clock        Clock
	logger       *logrus.Logger
	startupDelay time.Duration
	cronSpecScan string
	startupTimer Timer
}

func NewNotificationScheduler(
	scanner Scanner,
	clock Clock,
	logger *logrus.Logger,
	startupDelay time.Duration, // e.g. 2s: lets the session settle before the first pop-ups
	cronSpecScan string, // e.g. "@every 1m"
) *NotificationScheduler {
	return &NotificationScheduler{
		cronEngine:   cron.New(cron.WithLocation(time.Local)),
		scanner:      scanner,
		clock:        clock,
		logger:       logger,
		startupDelay: startupDelay,
		cronSpecScan: cronSpecScan,
	}
}

// Start registers the cron job and arms the startup-delay timer.
func (s *NotificationScheduler) Start() error {
	s.logger.Info("Starting notification scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpecScan, func() {
		s.logger.Debug("Cron job triggered for notification scan.")
		s.runScan()
	})
	if err != nil {
		return fmt.Errorf("could not add notification scan cron job: %w", err)
	}

	s.startupTimer = s.clock.AfterFunc(s.startupDelay, func() {
		s.logger.Debug("Startup delay elapsed, running first notification scan.")
		s.runScan()
	})

	s.cronEngine.Start()
	s.logger.Info("Notification scheduler started.")
	return nil
}

// Rescan triggers an immediate scan. Called after store mutations
// (mark-paid, new post); emission stays idempotent per milestone, so
// redundant calls are harmless.
func (s *NotificationScheduler) Rescan() {
	s.runScan()
}

func (s *NotificationScheduler) runScan() {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()
	if err := s.scanner.Scan(ctx); err != nil {
		s.logger.Errorf("Error during notification scan: %v", err)
	}
}

// Stop cancels the pending startup scan and waits for running jobs.
func (s *NotificationScheduler) Stop() {
	s.logger.Info("Stopping notification scheduler...")
	if s.startupTimer != nil {
		s.startupTimer.Stop()
	}
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.logger.Info("Notification scheduler gracefully stopped.")
}
