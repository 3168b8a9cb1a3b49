package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"weather-dashboard/dashboard"
	"weather-dashboard/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Config holds the settings the HTTP surface needs
type Config struct {
	Port                 int
	Cities               []models.City
	AutocompleteDebounce time.Duration
}

// Server represents the dashboard web server
type Server struct {
	service   *dashboard.Service
	collector *dashboard.Collector
	cities    []models.City
	debounce  time.Duration
	views     *renderer
	router    *chi.Mux
	server    *http.Server
}

// NewServer creates a new dashboard server
func NewServer(service *dashboard.Service, collector *dashboard.Collector, cfg Config) (*Server, error) {
	views, err := newRenderer()
	if err != nil {
		return nil, err
	}

	debounce := cfg.AutocompleteDebounce
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}

	s := &Server{
		service:   service,
		collector: collector,
		cities:    cfg.Cities,
		debounce:  debounce,
		views:     views,
	}
	s.router = s.routes()
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Logger)
	router.Use(middleware.Timeout(60 * time.Second))

	// Pages
	router.Get("/", s.handleIndex)
	router.Get("/weather/{city}", s.handleForecastPage)

	// Fragments loaded by the page script
	router.Route("/partials", func(r chi.Router) {
		r.Get("/card/{city}", s.handleCardPartial)
		r.Get("/forecast/{city}", s.handleForecastPartial)
	})

	router.Route("/api", func(r chi.Router) {
		r.Get("/suggest", s.handleSuggest)
		r.Get("/cities", s.handleCities)
		r.Get("/current/{city}", s.handleCurrent)
		r.Get("/forecast/{city}", s.handleForecast)
		r.Get("/weathercodes", s.handleWeatherCodes)
		r.Get("/health", s.handleHealthCheck)
	})

	router.Handle("/static/*", http.StripPrefix("/static/", staticFiles()))

	return router
}

// Router returns the HTTP handler serving every route
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins serving and blocks until the server stops
func (s *Server) Start() error {
	fmt.Printf("Starting dashboard server on %s\n", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
