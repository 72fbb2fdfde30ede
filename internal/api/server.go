// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the composition root for the HTTP transport (chi router).
  - Catalog endpoints keep their historical paths under /Manga and /File.
  - The notification hub is mounted outside the request timeout, since its
    connections live for hours.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/mangaonline/internal/platform/config"
	"github.com/taibuivan/mangaonline/internal/platform/constants"
	"github.com/taibuivan/mangaonline/internal/platform/metrics"
	"github.com/taibuivan/mangaonline/internal/platform/middleware"
	"github.com/taibuivan/mangaonline/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// RouteRegistrar is implemented by every domain handler mounted on a shared prefix.
type RouteRegistrar interface {
	RegisterRoutes(router chi.Router)
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler; always 200 while the process runs.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler; 200 when PostgreSQL and Redis answer.
	Readiness http.HandlerFunc

	// Auth handles /api/v1/auth.
	Auth *auth.Handler

	// Files serves uploads and downloads under /File.
	Files RouteRegistrar

	// Manga holds every handler sharing the /Manga prefix: catalog, chapters,
	// authors, categories, library and social.
	Manga []RouteRegistrar

	// Hub upgrades websocket connections at [constants.HubPath].
	Hub http.Handler

	// Metrics exposes Prometheus instruments.
	Metrics http.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(metrics.Middleware)
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	if h.Metrics != nil {
		r.Handle("/metrics", h.Metrics)
	}

	// # Real-time
	if h.Hub != nil {
		r.Handle(constants.HubPath, h.Hub)
	}

	// # Application API
	r.Group(func(app chi.Router) {
		app.Use(chimw.Timeout(constants.GlobalRequestTimeout))
		app.Use(middleware.RateLimit(context))

		if h.Auth != nil {
			app.Route("/api/v1", func(api chi.Router) {
				api.Mount("/auth", h.Auth.Routes())
			})
		}

		if h.Files != nil {
			app.Route("/File", h.Files.RegisterRoutes)
		}

		app.Route("/Manga", func(catalog chi.Router) {
			for _, registrar := range h.Manga {
				registrar.RegisterRoutes(catalog)
			}
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler returns the root router. Tests drive it through httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
