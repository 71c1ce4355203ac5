// Package router assembles the HTTP surface of the booking API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/brightsmile/dental-booking-api/internal/http/handlers"
	httpmiddleware "github.com/brightsmile/dental-booking-api/internal/http/middleware"
	"github.com/brightsmile/dental-booking-api/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	BookingHandler     *handlers.BookingHandler
	ScheduleHandler    *handlers.ScheduleHandler
	AdminAppointments  *handlers.AdminAppointmentsHandler
	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// BookingRateLimit throttles POST /api/bookings per client IP.
	// Zero disables the limiter.
	BookingRateLimit float64
	BookingRateBurst int
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.BookingHandler != nil {
			create := chi.Chain()
			if cfg.BookingRateLimit > 0 {
				create = chi.Chain(httpmiddleware.RateLimit(cfg.BookingRateLimit, cfg.BookingRateBurst))
			}
			api.With(create...).Post("/bookings", cfg.BookingHandler.Create)
			api.Get("/bookings", cfg.BookingHandler.List)
		}
		if cfg.ScheduleHandler != nil {
			api.Get("/event-types", cfg.ScheduleHandler.GetEventTypes)
			api.Get("/slots", cfg.ScheduleHandler.GetAvailableSlots)
		}
	})

	if cfg.AdminAppointments != nil && cfg.AdminAuthSecret != "" {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Patch("/appointments/{id}/status", cfg.AdminAppointments.UpdateStatus)
		})
	}

	return r
}
