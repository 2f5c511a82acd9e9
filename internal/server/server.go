// Package server hosts canopy trees over HTTP for a browser client.
//
// Every browser tab mounts its own widget through POST /api/sessions. The
// widget lives in a [Hub] and its state is saved to a session store after
// each change, so a restarted (or different) server instance can restore it.
// With a watched dataset, a [Reloader] swaps in the new tree and pushes a
// reload event to connected pages.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/canopy/pkg/buildinfo"
	"github.com/matzehuels/canopy/pkg/httputil"
	"github.com/matzehuels/canopy/pkg/observability"
)

// Config holds server configuration.
type Config struct {
	Addr     string
	Title    string
	Frames   int  // frames fetched per toggle animation
	AllowAll bool // allow all CORS origins (dev mode)
}

// Server is the HTTP host.
type Server struct {
	cfg        Config
	hub        *Hub
	reloader   *Reloader
	logger     *log.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server over hub. reloader may be nil when the dataset is
// not watched.
func New(cfg Config, hub *Hub, reloader *Reloader, logger *log.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8080"
	}
	if cfg.Frames <= 0 {
		cfg.Frames = 12
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s := &Server{cfg: cfg, hub: hub, reloader: reloader, logger: logger}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(instrument)
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"build":  buildinfo.Current(),
		})
	})
	r.Get("/", s.handlePage)
	s.routes(r)
	return r
}

// instrument reports requests to the HTTP observability hooks.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Hub returns the widget hub.
func (s *Server) Hub() *Hub { return s.hub }

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if s.reloader != nil {
		if err := s.reloader.Start(); err != nil {
			return err
		}
	}
	s.logger.Info("canopy server listening", "addr", fmt.Sprintf("http://%s", s.cfg.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.reloader != nil {
		s.reloader.Stop()
	}
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
