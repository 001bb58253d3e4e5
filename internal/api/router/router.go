package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/brightsmiledental/clinic-platform/internal/auth"
	"github.com/brightsmiledental/clinic-platform/internal/http/handlers"
	httpmiddleware "github.com/brightsmiledental/clinic-platform/internal/http/middleware"
	"github.com/brightsmiledental/clinic-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	SlotsHandler       *handlers.SlotsHandler
	BookingHandler     *handlers.BookingHandler
	AdminHandler       *handlers.AdminHandler
	SessionStore       auth.SessionStore
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	StaticDir          string
}

// New creates the chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

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

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		public.Get("/api/slots/{date}", cfg.SlotsHandler.GetSlots)
		public.Post("/api/appointments", cfg.BookingHandler.Create)
	})

	r.Route("/api/admin", func(admin chi.Router) {
		// Login, logout and the auth probe stay unauthenticated.
		admin.Post("/login", cfg.AdminHandler.Login)
		admin.Post("/logout", cfg.AdminHandler.Logout)
		admin.Get("/check", cfg.AdminHandler.Check)

		admin.Group(func(gated chi.Router) {
			gated.Use(httpmiddleware.RequireSession(cfg.SessionStore))
			gated.Get("/appointments", cfg.AdminHandler.ListAppointments)
			gated.Patch("/appointments/{id}", cfg.AdminHandler.UpdateStatus)
			gated.Delete("/appointments/{id}", cfg.AdminHandler.Delete)
			gated.Get("/patients", cfg.AdminHandler.ListPatients)
			gated.Get("/patient-history/{email}", cfg.AdminHandler.PatientHistory)
		})
	})

	// Public website (booking page, admin dashboard, particle background)
	if cfg.StaticDir != "" {
		fs := http.FileServer(http.Dir(cfg.StaticDir))
		r.Handle("/*", fs)
	}

	return r
}
