// Package api serves schemaflow over HTTP.
//
// Stateless endpoints parse, lay out, route and render schema text sent in
// the request body. Session endpoints keep a diagram between requests so
// tables a client drags stay where they were dropped:
//
//	POST   /v1/parse
//	POST   /v1/layout
//	POST   /v1/route
//	POST   /v1/render?format=svg
//	POST   /v1/sessions
//	GET    /v1/sessions/{id}
//	PUT    /v1/sessions/{id}
//	DELETE /v1/sessions/{id}
//	POST   /v1/sessions/{id}/relayout
//	PUT    /v1/sessions/{id}/nodes/{node}
//	GET    /v1/sessions/{id}/render?format=svg
//	GET    /healthz
//
// Errors are returned as {"code": ..., "error": ...} with a status derived
// from the error code.
package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/schemaflow/pkg/observability"
	"github.com/matzehuels/schemaflow/pkg/pipeline"
	"github.com/matzehuels/schemaflow/pkg/session"
)

// Config holds configuration for the API server.
type Config struct {
	Addr       string
	Runner     *pipeline.Runner
	Store      session.Store
	Options    pipeline.Options
	SessionTTL time.Duration
	Logger     *log.Logger
	// AccessLog enables chi's request logger.
	AccessLog bool
}

// Server is the HTTP API server.
type Server struct {
	addr       string
	runner     *pipeline.Runner
	store      session.Store
	opts       pipeline.Options
	sessionTTL time.Duration
	logger     *log.Logger
	accessLog  bool
}

// NewServer creates a server. A nil runner, store or logger gets an
// uncached runner, an in-memory store and the runner's logger.
func NewServer(cfg Config) *Server {
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Logger == nil {
		cfg.Logger = cfg.Runner.Logger
	}
	if cfg.Store == nil {
		cfg.Store = session.NewMemoryStore()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = session.DefaultTTL
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	cfg.Options.SetDefaults()
	return &Server{
		addr:       cfg.Addr,
		runner:     cfg.Runner,
		store:      cfg.Store,
		opts:       cfg.Options,
		sessionTTL: cfg.SessionTTL,
		logger:     cfg.Logger,
		accessLog:  cfg.AccessLog,
	}
}

// Handler returns the router with every route mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	if s.accessLog {
		r.Use(middleware.Logger)
	}
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Compress(5),
		observe,
	)

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/parse", s.parse)
		r.Post("/layout", s.layout)
		r.Post("/route", s.route)
		r.Post("/render", s.render)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.createSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getSession)
				r.Put("/", s.updateSession)
				r.Delete("/", s.deleteSession)
				r.Post("/relayout", s.relayoutSession)
				r.Put("/nodes/{node}", s.moveNode)
				r.Get("/render", s.renderSession)
			})
		})
	})
	return r
}

// observe reports each response to the registered HTTP hooks under its
// matched route pattern.
func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, time.Since(start))
	})
}

// Serve listens on the configured address and blocks until ctx is cancelled
// or the listener fails.
func (s *Server) Serve(ctx context.Context) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("serving", "addr", s.addr)

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Expired sessions are swept every hour; Redis expires its own.
	eg.Go(func() error {
		t := time.NewTicker(time.Hour)
		defer t.Stop()
		for {
			select {
			case <-egctx.Done():
				return nil
			case <-t.C:
				if err := s.store.Cleanup(egctx); err != nil {
					s.logger.Warn("session cleanup failed", "error", err)
				}
			}
		}
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
