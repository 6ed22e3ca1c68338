package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pota_dashboard/internal/app"
	"pota_dashboard/internal/infra/config"
	"pota_dashboard/internal/infra/httpapi"
	"pota_dashboard/internal/infra/logger"
	"pota_dashboard/internal/infra/memdb"
	"pota_dashboard/internal/infra/scheduler"
)

func main() {
	fmt.Println("Pota dashboard starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	log := logger.Get()
	log.Infof("Configuration loaded. LogLevel: %s, Environment: %s", cfg.LogLevel, cfg.Environment)

	// Seed the session-scoped in-memory stores. There is no persistence
	// layer; all state below this point is lost on shutdown.
	userRepo, invoiceRepo, postRepo, err := memdb.Seed()
	if err != nil {
		log.Fatalf("FATAL: Could not seed in-memory stores: %v", err)
	}
	log.Info("In-memory stores seeded.")

	clock := scheduler.NewClock()

	authService := app.NewAuthService(userRepo, log)
	billingService := app.NewBillingService(
		invoiceRepo,
		userRepo,
		cfg.Templates,
		cfg.PixKey,
		cfg.CountryCode,
		cfg.StudentDueSoonDays,
		cfg.TeacherUpcomingDays,
		clock,
		log,
	)
	bulletinService := app.NewBulletinService(postRepo, clock, log)
	log.Info("Application services initialized.")

	notifier := app.NewNotifier(
		userRepo,
		invoiceRepo,
		postRepo,
		clock,
		log,
		cfg.NotificationTTL,
		cfg.StudentDueSoonDays,
	)

	notifScheduler := scheduler.NewNotificationScheduler(
		notifier,
		clock,
		log,
		cfg.ScanStartupDelay,
		cfg.CronSpecScan,
	)
	if err := notifScheduler.Start(); err != nil {
		log.Fatalf("FATAL: Could not start notification scheduler: %v", err)
	}

	// Store mutations may cross a milestone; rescan right away instead
	// of waiting for the next cron tick.
	billingService.SetOnChange(notifScheduler.Rescan)
	bulletinService.SetOnChange(notifScheduler.Rescan)

	server := httpapi.NewServer(
		cfg.HTTPAddr,
		authService,
		billingService,
		bulletinService,
		notifier,
		userRepo,
		cfg.SessionSecret,
		log,
	)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: HTTP server failed: %v", err)
		}
	}()

	log.Info("Application setup complete.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down application...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	}
	notifScheduler.Stop()
	notifier.Close()
	log.Info("Application shut down gracefully.")
}
