package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brightsmile/dental-booking-api/cmd/mainconfig"
	"github.com/brightsmile/dental-booking-api/internal/api/router"
	"github.com/brightsmile/dental-booking-api/internal/appointments"
	"github.com/brightsmile/dental-booking-api/internal/booking"
	"github.com/brightsmile/dental-booking-api/internal/calcom"
	appconfig "github.com/brightsmile/dental-booking-api/internal/config"
	"github.com/brightsmile/dental-booking-api/internal/http/handlers"
	"github.com/brightsmile/dental-booking-api/internal/notify"
	"github.com/brightsmile/dental-booking-api/internal/observability/metrics"
	"github.com/brightsmile/dental-booking-api/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting dental-booking-api server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	bookingMetrics := metrics.NewBookingMetrics(nil)

	// Appointment ledger
	var ledger appointments.Repository
	if cfg.HasDatabase() {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create database pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(context.Background()); err != nil {
			logger.Error("database unreachable", "error", err)
			os.Exit(1)
		}
		ledger = appointments.NewPostgresRepository(pool)
		logger.Info("appointment ledger ready")
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory appointment ledger")
		ledger = appointments.NewInMemoryRepository()
	}

	// External scheduler
	var scheduler booking.Scheduler
	var scheduleProvider handlers.ScheduleProvider
	if cfg.HasScheduler() {
		client := calcom.NewClient(calcom.Config{
			BaseURL:    cfg.CalAPIBaseURL,
			APIKey:     cfg.CalAPIKey,
			APIVersion: cfg.CalAPIVersion,
			Timeout:    cfg.CalTimeout,
		}, logger.Component("calcom"), bookingMetrics)
		scheduler = calcom.NewAdapter(client, cfg.BookingTimezone, logger.Component("calcom"))
		scheduleProvider = client
		logger.Info("cal.com scheduler enabled", "base_url", cfg.CalAPIBaseURL)
	} else {
		logger.Warn("CAL_API_KEY not set, bookings will be saved as pending")
	}

	// Front desk notifications
	var emailSender notify.EmailSender
	switch cfg.EmailProvider {
	case "sendgrid":
		emailSender = notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.NotifyFromEmail,
			FromName:  cfg.NotifyFromName,
		}, logger.Component("notify"))
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(context.Background(), cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		emailSender = notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.NotifyFromEmail,
			FromName:  cfg.NotifyFromName,
		}, logger.Component("notify"))
	}
	var notifier booking.Notifier
	if frontDesk := notify.NewFrontDeskService(emailSender, cfg.FrontDeskRecipients, cfg.NotifyFromName, logger.Component("notify")); frontDesk != nil {
		notifier = frontDesk
		logger.Info("front desk notifications enabled", "recipients", len(cfg.FrontDeskRecipients))
	}

	normalizer, err := booking.NewNormalizer(cfg.BookingTimezone)
	if err != nil {
		logger.Error("invalid booking timezone", "error", err, "timezone", cfg.BookingTimezone)
		os.Exit(1)
	}
	bookingService := booking.NewService(booking.ServiceConfig{
		Normalizer: normalizer,
		Scheduler:  scheduler,
		Ledger:     ledger,
		Notifier:   notifier,
		Metrics:    bookingMetrics,
		Logger:     logger.Component("booking"),
	})

	r := router.New(&router.Config{
		Logger:             logger,
		BookingHandler:     handlers.NewBookingHandler(bookingService, ledger, logger.Component("handlers")),
		ScheduleHandler:    handlers.NewScheduleHandler(scheduleProvider, logger.Component("handlers")),
		AdminAppointments:  handlers.NewAdminAppointmentsHandler(ledger, logger.Component("handlers")),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		BookingRateLimit:   cfg.BookingRateLimit,
		BookingRateBurst:   cfg.BookingRateBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
