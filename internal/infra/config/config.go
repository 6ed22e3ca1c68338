package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"pota_dashboard/internal/domain/invoice"
	"pota_dashboard/internal/domain/whatsapp"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	HTTPAddr      string
	LogLevel      string
	Environment   string
	SessionSecret string // empty means generate a random key at startup

	PixKey      string
	CountryCode string

	StudentDueSoonDays  int // reminder window for the student dashboard
	TeacherUpcomingDays int // look-ahead window for the teacher dashboard

	ScanStartupDelay time.Duration // delay before the first notification scan
	NotificationTTL  time.Duration // auto-dismiss delay per notification
	CronSpecScan     string        // periodic rescan schedule

	Templates whatsapp.Templates
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	cfg.SessionSecret = os.Getenv("SESSION_SECRET")

	cfg.PixKey = os.Getenv("PIX_KEY")
	if cfg.PixKey == "" {
		cfg.PixKey = "professor@pota.com"
	}

	cfg.CountryCode = os.Getenv("COUNTRY_CODE")
	if cfg.CountryCode == "" {
		cfg.CountryCode = whatsapp.DefaultCountryCode
	}

	cfg.StudentDueSoonDays, err = intEnv("STUDENT_DUE_SOON_DAYS", invoice.StudentDueSoonWindow)
	if err != nil {
		return nil, err
	}
	cfg.TeacherUpcomingDays, err = intEnv("TEACHER_UPCOMING_DAYS", invoice.TeacherUpcomingWindow)
	if err != nil {
		return nil, err
	}

	cfg.ScanStartupDelay, err = durationEnv("SCAN_STARTUP_DELAY", 2*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.NotificationTTL, err = durationEnv("NOTIFICATION_TTL", 5*time.Second)
	if err != nil {
		return nil, err
	}

	cfg.CronSpecScan = os.Getenv("CRON_SPEC_SCAN")
	if cfg.CronSpecScan == "" {
		cfg.CronSpecScan = "@every 1m"
	}

	cfg.Templates = whatsapp.DefaultTemplates()
	if v := os.Getenv("TEMPLATE_REMINDER"); v != "" {
		cfg.Templates.Reminder = v
	}
	if v := os.Getenv("TEMPLATE_DUE_TODAY"); v != "" {
		cfg.Templates.DueToday = v
	}
	if v := os.Getenv("TEMPLATE_OVERDUE"); v != "" {
		cfg.Templates.Overdue = v
	}
	if v := os.Getenv("TEMPLATE_PAYMENT_CONFIRMATION"); v != "" {
		cfg.Templates.PaymentConfirmation = v
	}

	return cfg, nil
}

func intEnv(name string, def int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", name)
	}
	return n, nil
}

func durationEnv(name string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return d, nil
}
