// Package server exposes a navigation container over HTTP.
//
// Every request that changes the tree (actions, resets, configuration
// reloads) goes through one [container.Queue], so concurrent clients never
// trip the container's single-transaction guard. Reads take the latest
// committed state directly.
//
// # Endpoints
//
//	GET  /healthz         build info
//	GET  /state           live tree
//	GET  /state/partial   persisted projection of the tree
//	POST /actions         dispatch an action, respond {handled, state}
//	POST /reset           replace the tree (empty body: initial state)
//	GET  /can-go-back     {canGoBack}
//	GET  /graph.dot       Graphviz source (?detailed=true)
//	GET  /graph.svg       rendered diagram
//	GET  /metrics         Prometheus metrics, when configured
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/waypoint/pkg/config"
	"github.com/matzehuels/waypoint/pkg/container"
	"github.com/matzehuels/waypoint/pkg/errors"
)

// Shutdown bounds how long in-flight requests and queued actions may take
// once the serving context is cancelled.
const Shutdown = 10 * time.Second

// Server is the HTTP host for one container.
type Server struct {
	c       *container.Container
	queue   *container.Queue
	logger  *log.Logger
	metrics http.Handler
	router  chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and lifecycle logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithQueueSize sets the buffer of the dispatch queue.
func WithQueueSize(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.queue = s.c.NewQueue(n)
		}
	}
}

// New creates a server for c. The container must already be resolved.
func New(c *container.Container, opts ...Option) *Server {
	s := &Server{c: c, logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if s.queue == nil {
		s.queue = c.NewQueue(container.DefaultQueueSize)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Reload rebuilds the navigator spec from f and re-resolves the live tree
// against it. It is meant as the callback of [config.Watch].
func (s *Server) Reload(ctx context.Context, f *config.File) error {
	spec, err := f.Build()
	if err != nil {
		return err
	}
	return s.queue.Do(ctx, func(ctx context.Context) error {
		_, err := s.c.Reconfigure(ctx, spec)
		return err
	})
}

// Close drains the dispatch queue.
func (s *Server) Close(ctx context.Context) error {
	return s.queue.Close(ctx)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully and drains the queue.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving navigation state", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close(context.Background())
		if err == http.ErrServerClosed {
			return nil
		}
		return errors.Wrap(errors.ErrCodeInternal, err, "listen on %s", addr)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), Shutdown)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("shutdown", "error", err)
	}
	return s.Close(shutdownCtx)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/state", func(r chi.Router) {
		r.Get("/", s.handleState)
		r.Get("/partial", s.handlePartial)
	})
	r.Post("/actions", s.handleAction)
	r.Post("/reset", s.handleReset)
	r.Get("/can-go-back", s.handleCanGoBack)
	r.Get("/graph.dot", s.handleDOT)
	r.Get("/graph.svg", s.handleSVG)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
