// Package api serves layouts over HTTP.
//
// Clients create a layout session from a manifest, then query it as they
// scroll. The engine semantics carry over unchanged: a session computes once,
// later compute requests return the cached layout until the session is
// invalidated.
//
// # Routes
//
//	POST   /v1/layouts                    create a session and compute it
//	GET    /v1/layouts/{id}               full layout document
//	GET    /v1/layouts/{id}/size          content size
//	GET    /v1/layouts/{id}/visible       placements intersecting ?x=&y=&w=&h=
//	GET    /v1/layouts/{id}/svg           SVG, optionally clipped to ?x=&y=&w=&h=
//	POST   /v1/layouts/{id}/compute       compute (no-op while cached)
//	POST   /v1/layouts/{id}/invalidate    drop cached placements
//	DELETE /v1/layouts/{id}               delete the session
//	POST   /v1/render                     stateless render through the pipeline
//	GET    /healthz                       liveness and build info
//
// Errors are JSON objects {"code": ..., "message": ...} with a status derived
// from the error code.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/masonry/pkg/items"
	"github.com/matzehuels/masonry/pkg/pipeline"
	"github.com/matzehuels/masonry/pkg/session"
)

// Defaults for Config.
const (
	DefaultSessionTTL   = session.DefaultTTL
	DefaultMaxBodyBytes = 4 << 20
	DefaultTimeout      = 30 * time.Second
)

// Config configures a Server.
type Config struct {
	Store   session.Store
	Runner  *pipeline.Runner
	Fetcher *items.Fetcher
	Logger  *log.Logger

	SessionTTL   time.Duration
	MaxBodyBytes int64
	Timeout      time.Duration
}

// Server is the HTTP API.
type Server struct {
	store   session.Store
	runner  *pipeline.Runner
	fetcher *items.Fetcher
	logger  *log.Logger

	ttl     time.Duration
	maxBody int64
	timeout time.Duration
}

// New creates a server. Missing dependencies get in-memory or uncached
// defaults.
func New(cfg Config) *Server {
	s := &Server{
		store:   cfg.Store,
		runner:  cfg.Runner,
		fetcher: cfg.Fetcher,
		logger:  cfg.Logger,
		ttl:     cfg.SessionTTL,
		maxBody: cfg.MaxBodyBytes,
		timeout: cfg.Timeout,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.store == nil {
		s.store = session.NewMemoryStore()
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	if s.fetcher == nil {
		s.fetcher = items.NewFetcher(s.runner.Cache, s.logger)
	}
	if s.ttl <= 0 {
		s.ttl = DefaultSessionTTL
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBodyBytes
	}
	if s.timeout <= 0 {
		s.timeout = DefaultTimeout
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/render", s.handleRender)

		r.Route("/layouts", func(r chi.Router) {
			r.Post("/", s.handleCreate)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGet)
				r.Delete("/", s.handleDelete)
				r.Get("/size", s.handleSize)
				r.Get("/visible", s.handleVisible)
				r.Get("/svg", s.handleSVG)
				r.Post("/compute", s.handleCompute)
				r.Post("/invalidate", s.handleInvalidate)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errNotFound("no route for %s %s", r.Method, r.URL.Path))
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
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

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Sweep removes expired sessions every interval until ctx is cancelled.
func (s *Server) Sweep(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.store.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "error", err)
			}
		}
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
