package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/elysia/ecocycle/internal/catalog"
	"github.com/elysia/ecocycle/internal/modules/calibration"
	"github.com/elysia/ecocycle/internal/modules/fleet"
	"github.com/elysia/ecocycle/internal/modules/recommend"
	"github.com/elysia/ecocycle/internal/modules/shock"
	"github.com/elysia/ecocycle/internal/modules/strategies"
)

// Config holds server configuration
type Config struct {
	Port    int
	Log     zerolog.Logger
	DevMode bool

	Catalog     *catalog.Handler
	Calibration *calibration.Handler
	Shock       *shock.Handler
	Strategies  *strategies.Handler
	Recommend   *recommend.Handler
	Fleet       *fleet.Handler
	System      *SystemHandlers
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
	cfg    Config
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    cfg.Log.With().Str("component", "server").Logger(),
		cfg:    cfg,
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.cfg.System.HandleSystemStatus)
			r.Get("/jobs", s.cfg.System.HandleJobsStatus)
			r.Post("/jobs/fleet-snapshot", s.cfg.System.HandleTriggerSnapshot)
			r.Get("/database", s.cfg.System.HandleDatabaseStats)
		})

		r.Route("/reference", func(r chi.Router) {
			r.Get("/personas", s.cfg.Catalog.HandleListPersonas)
			r.Get("/device-classes", s.cfg.Catalog.HandleListDeviceClasses)
			r.Get("/geographies", s.cfg.Catalog.HandleListGeographies)
			r.Get("/geographies/{id}", s.cfg.Catalog.HandleGetGeography)
		})

		r.Post("/calibrate", s.cfg.Calibration.HandleCalibrate)
		r.Post("/shock", s.cfg.Shock.HandleCompute)

		r.Route("/strategies", func(r chi.Router) {
			r.Get("/", s.cfg.Strategies.HandleListStrategies)
			r.Post("/compare", s.cfg.Strategies.HandleCompare)
		})

		r.Post("/recommend", s.cfg.Recommend.HandleRecommend)

		r.Route("/fleet", func(r chi.Router) {
			r.Post("/audit", s.cfg.Fleet.HandleAudit)
			r.Get("/audits", s.cfg.Fleet.HandleListRuns)
			r.Get("/audits/{id}", s.cfg.Fleet.HandleGetRun)
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
