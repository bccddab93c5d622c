package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hokkystyle/toolrent-backend/internal/catalog"
	httpmiddleware "github.com/hokkystyle/toolrent-backend/internal/http/middleware"
	"github.com/hokkystyle/toolrent-backend/internal/intake"
	"github.com/hokkystyle/toolrent-backend/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	CatalogHandler     *catalog.Handler
	IntakeHandler      *intake.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	StaticDir          string
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

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/inventory", cfg.CatalogHandler.GetInventory)
		api.Get("/reviews", cfg.CatalogHandler.GetReviews)
		api.Post("/bookings", cfg.IntakeHandler.CreateBooking)
		// The lead endpoint does its own method and preflight handling.
		api.HandleFunc("/lead", cfg.IntakeHandler.CreateLead)
	})

	// Landing page and the rest of the static assets.
	if cfg.StaticDir != "" {
		fileServer := http.FileServer(http.Dir(cfg.StaticDir))
		r.Handle("/*", fileServer)
	}

	return r
}
