// Package router wires the HTTP surface: availability queries, the booking
// write path, staff schedule management, and org scheduling configuration.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/clinicos/schedcore/internal/availability"
	"github.com/clinicos/schedcore/internal/booking"
	httpmiddleware "github.com/clinicos/schedcore/internal/http/middleware"
	"github.com/clinicos/schedcore/internal/orgconfig"
	"github.com/clinicos/schedcore/internal/schedule"
	"github.com/clinicos/schedcore/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	AvailabilityHandler *availability.Handler
	BookingHandler      *booking.Handler
	ScheduleHandler     *schedule.Handler
	OrgConfigHandler    *orgconfig.Handler
	MetricsHandler      http.Handler
	StaffJWTSecret      string
	CORSAllowedOrigins  []string

	// RateLimitPerSecond enables per-IP rate limiting when > 0.
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.RateLimitPerSecond > 0 {
		r.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	}

	// Public endpoints
	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/orgs/{orgID}", func(r chi.Router) {
		r.Use(requireOrgID)
		r.Use(httpmiddleware.RoleFromJWT(cfg.StaffJWTSecret))

		// Availability queries: open to patients and staff alike; the
		// resolved role decides which booking rules apply.
		r.Route("/availability", func(r chi.Router) {
			r.Get("/day", cfg.AvailabilityHandler.GetDay)
			r.Get("/week", cfg.AvailabilityHandler.GetWeek)
			r.Post("/validate", cfg.AvailabilityHandler.Validate)
		})

		// Appointment write path.
		r.Route("/appointments", func(r chi.Router) {
			r.Post("/", cfg.BookingHandler.Create)
			r.Post("/{appointmentID}/cancel", cfg.BookingHandler.Cancel)
		})

		// Staff-only schedule management.
		r.Route("/doctors/{doctorID}/working-hours", func(r chi.Router) {
			r.Use(httpmiddleware.RequireStaff)
			r.Get("/", cfg.ScheduleHandler.ListBlocks)
			r.Post("/", cfg.ScheduleHandler.CreateBlock)
			r.Put("/{blockID}", cfg.ScheduleHandler.UpdateBlock)
			r.Delete("/{blockID}", cfg.ScheduleHandler.DeactivateBlock)
		})

		// Staff-only org scheduling configuration.
		r.Route("/scheduling-config", func(r chi.Router) {
			r.Use(httpmiddleware.RequireStaff)
			r.Get("/", cfg.OrgConfigHandler.GetConfig)
			r.Put("/", cfg.OrgConfigHandler.UpdateConfig)
		})
	})

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status": "ok"}`))
}
