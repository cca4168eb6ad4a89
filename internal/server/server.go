// Package server provides the HTTP server and routing for the SIP simulator.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/shashank1310/SIPSimulator/internal/config"
	"github.com/shashank1310/SIPSimulator/internal/database"
	fundshandlers "github.com/shashank1310/SIPSimulator/internal/modules/funds/handlers"
	goalshandlers "github.com/shashank1310/SIPSimulator/internal/modules/goals/handlers"
	portfoliohandlers "github.com/shashank1310/SIPSimulator/internal/modules/portfolio/handlers"
	riskhandlers "github.com/shashank1310/SIPSimulator/internal/modules/risk/handlers"
)

// Handlers carries the per-module HTTP handlers mounted under /api.
type Handlers struct {
	Portfolio *portfoliohandlers.Handler
	Risk      *riskhandlers.Handler
	Funds     *fundshandlers.Handler
	Goals     *goalshandlers.Handler
}

// Config holds server configuration.
type Config struct {
	Log      zerolog.Logger
	Config   *config.Config
	CacheDB  *database.DB
	Handlers Handlers
}

// Server represents the HTTP server.
type Server struct {
	router   *chi.Mux
	server   *http.Server
	log      zerolog.Logger
	cfg      *config.Config
	cacheDB  *database.DB
	handlers Handlers
}

// New creates a new HTTP server.
func New(cfg Config) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		log:      cfg.Log.With().Str("component", "server").Logger(),
		cfg:      cfg.Config,
		cacheDB:  cfg.CacheDB,
		handlers: cfg.Handlers,
	}

	s.setupMiddleware(cfg.Config.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
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
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
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
		s.handlers.Portfolio.RegisterRoutes(r)
		s.handlers.Risk.RegisterRoutes(r)
		s.handlers.Funds.RegisterRoutes(r)
		s.handlers.Goals.RegisterRoutes(r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	cacheStatus := "ok"
	code := http.StatusOK
	if s.cacheDB != nil {
		if err := s.cacheDB.QuickCheck(r.Context()); err != nil {
			// The cache is an accelerator, not a dependency; stay healthy
			// but report it.
			cacheStatus = err.Error()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    status,
		"cache":     cacheStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// Start begins serving requests. It blocks until the server stops.
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

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
