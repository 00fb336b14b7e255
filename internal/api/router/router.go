package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rai252/Cliniify-marketplaces/internal/appointments"
	"github.com/rai252/Cliniify-marketplaces/internal/doctors"
	"github.com/rai252/Cliniify-marketplaces/internal/establishments"
	"github.com/rai252/Cliniify-marketplaces/internal/feedback"
	httpmiddleware "github.com/rai252/Cliniify-marketplaces/internal/http/middleware"
	"github.com/rai252/Cliniify-marketplaces/internal/patients"
	"github.com/rai252/Cliniify-marketplaces/internal/search"
	"github.com/rai252/Cliniify-marketplaces/internal/stats"
	"github.com/rai252/Cliniify-marketplaces/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger                *logging.Logger
	PatientsHandler       *patients.Handler
	DoctorsHandler        *doctors.Handler
	AppointmentsHandler   *appointments.Handler
	FeedbackHandler       *feedback.Handler
	EstablishmentsHandler *establishments.Handler
	SearchHandler         *search.Handler
	StatsHandler          *stats.Handler
	MetricsHandler        http.Handler
	CORSAllowedOrigins    []string

	// HMAC secret for user JWTs; empty disables the protected routes.
	UserAuthSecret string
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

	// Public endpoints (discovery, health checks)
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.PatientsHandler != nil {
			public.Post("/patients", cfg.PatientsHandler.Register)
		}
		if cfg.DoctorsHandler != nil {
			public.Route("/doctors/{id}", func(r chi.Router) {
				r.Get("/", cfg.DoctorsHandler.Get)
				r.Get("/time-slots", cfg.DoctorsHandler.TimeSlots)
				if cfg.FeedbackHandler != nil {
					r.Get("/feedback", cfg.FeedbackHandler.ListForDoctor)
				}
			})
		}
		if cfg.EstablishmentsHandler != nil {
			public.Get("/establishments/{id}", cfg.EstablishmentsHandler.Get)
		}
		if cfg.SearchHandler != nil {
			public.Get("/search", cfg.SearchHandler.Search)
			public.Get("/suggestions", cfg.SearchHandler.Suggestions)
		}
	})

	// Authenticated routes (patients and doctors acting on their own data)
	if cfg.UserAuthSecret != "" {
		r.Group(func(private chi.Router) {
			private.Use(httpmiddleware.UserJWT(cfg.UserAuthSecret))
			if cfg.PatientsHandler != nil {
				private.Get("/patients/{id}", cfg.PatientsHandler.Get)
			}
			if cfg.AppointmentsHandler != nil {
				private.Route("/appointments", func(r chi.Router) {
					r.Post("/", cfg.AppointmentsHandler.Create)
					r.Get("/", cfg.AppointmentsHandler.List)
					r.Get("/{id}", cfg.AppointmentsHandler.Get)
					r.Patch("/{id}", cfg.AppointmentsHandler.Update)
				})
			}
			if cfg.FeedbackHandler != nil {
				private.Post("/feedback", cfg.FeedbackHandler.Create)
				private.Post("/feedback/{id}/reply", cfg.FeedbackHandler.Reply)
			}
			if cfg.DoctorsHandler != nil {
				private.Patch("/doctors/{id}/timings", cfg.DoctorsHandler.UpdateTimings)
				private.Get("/doctors/{id}/profile-completion", cfg.DoctorsHandler.ProfileCompletion)
			}
			if cfg.EstablishmentsHandler != nil {
				private.Route("/staff", func(r chi.Router) {
					r.Get("/search-establishment", cfg.EstablishmentsHandler.SearchEstablishments)
					r.Post("/send-request", cfg.EstablishmentsHandler.SendStaffRequest)
					r.Get("/requests", cfg.EstablishmentsHandler.PendingStaffRequests)
					r.Patch("/requests/{id}/accept", cfg.EstablishmentsHandler.AcceptStaffRequest)
					r.Patch("/requests/{id}/reject", cfg.EstablishmentsHandler.RejectStaffRequest)
				})
			}
			if cfg.StatsHandler != nil {
				private.Get("/stats/appointments", cfg.StatsHandler.Overview)
			}
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
