// Package server exposes the emission pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz   liveness and build version
//	GET  /v1/tech   layer, purpose and via tables of the loaded technology
//	POST /v1/emit   emit a layout into an in-memory design and return it
//
// Emission results are cached through the runner's cache, so repeated
// requests for the same layout and cell are replayed instead of re-encoded.
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/layoutwriter/pkg/pipeline"
	"github.com/matzehuels/layoutwriter/pkg/tech"
)

const (
	maxBodyBytes    = 32 << 20
	shutdownTimeout = 10 * time.Second
)

// Config holds the server dependencies.
type Config struct {
	Tech    *tech.Tech
	Runner  *pipeline.Runner
	Logger  *log.Logger
	Version string
}

// Server serves emission requests against one technology.
type Server struct {
	tech    *tech.Tech
	runner  *pipeline.Runner
	logger  *log.Logger
	version string
	router  chi.Router
}

// New creates a server. A nil runner gets an uncached one.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	runner := cfg.Runner
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	s := &Server{
		tech:    cfg.Tech,
		runner:  runner,
		logger:  logger,
		version: cfg.Version,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/tech", s.handleTech)
		r.With(middleware.AllowContentType("application/json")).Post("/emit", s.handleEmit)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
