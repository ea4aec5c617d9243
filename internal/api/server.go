// Package api serves Kamada-Kawai layouts over HTTP.
//
// Routes:
//
//	POST /v1/layout   compute a layout for {"graph": ..., "options": ...}
//	GET  /healthz     liveness probe
//	GET  /version     build information
//	GET  /metrics     Prometheus metrics
//
// Every response carries an X-Request-ID header; a client-supplied ID is
// echoed back after sanitization, otherwise a UUID is generated.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/kklayout/pkg/pipeline"
)

// Config holds server limits and layout defaults.
type Config struct {
	// MaxNodes rejects larger graphs. Zero means no limit.
	MaxNodes int

	// MaxBodyBytes caps the request body. Zero means no limit.
	MaxBodyBytes int64

	// RequestTimeout bounds a single layout computation. Zero means no limit.
	RequestTimeout time.Duration

	// Defaults are the options used for fields a request leaves out. The
	// zero value means pipeline.DefaultOptions.
	Defaults pipeline.Options
}

// Server is the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	gatherer prometheus.Gatherer
	cfg      Config
}

// New creates a server that computes layouts with runner. gatherer backs
// /metrics; when nil the route is not registered.
func New(runner *pipeline.Runner, logger *log.Logger, gatherer prometheus.Gatherer, cfg Config) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.Defaults == (pipeline.Options{}) {
		cfg.Defaults = pipeline.DefaultOptions()
	}
	return &Server{
		runner:   runner,
		logger:   logger,
		gatherer: gatherer,
		cfg:      cfg,
	}
}

// Handler returns the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(requestID)
	r.Use(s.instrument)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "no route for "+r.Method+" "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" not allowed on "+r.URL.Path)
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		if s.cfg.MaxBodyBytes > 0 {
			r.Use(chimw.RequestSize(s.cfg.MaxBodyBytes))
		}
		r.Post("/layout", s.handleLayout)
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
