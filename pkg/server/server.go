// Package server exposes the packer as a JSON HTTP API.
//
// # Routes
//
//	GET  /healthz            liveness and build info
//	POST /v1/layouts         pack sizes, store and return the layout
//	GET  /v1/layouts         list recent layouts (?limit=N)
//	GET  /v1/layouts/{id}    fetch one layout
//
// Errors are returned as {"code": "...", "message": "..."} with the HTTP
// status derived from the code (see [apperrors.HTTPStatus]).
//
// [apperrors.HTTPStatus]: github.com/matzehuels/texatlas/pkg/errors.HTTPStatus
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/texatlas/pkg/pipeline"
	"github.com/matzehuels/texatlas/pkg/store"
)

const (
	// DefaultMaxSprites bounds the number of sizes in one request.
	DefaultMaxSprites = 4096

	// maxBodyBytes bounds request bodies.
	maxBodyBytes = 1 << 20

	shutdownTimeout = 10 * time.Second
)

// Option configures a Server.
type Option func(*Server)

// WithMaxSprites overrides DefaultMaxSprites.
func WithMaxSprites(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxSprites = n
		}
	}
}

// WithDefaults sets the packer options used when a request omits them.
func WithDefaults(opts pipeline.Options) Option {
	return func(s *Server) { s.defaults = opts }
}

// Server is the HTTP API.
type Server struct {
	runner     *pipeline.Runner
	store      store.Store
	logger     *log.Logger
	defaults   pipeline.Options
	maxSprites int
	router     chi.Router
}

// New builds a Server. runner packs (and caches) layouts; st persists them.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner:     runner,
		store:      st,
		logger:     logger,
		defaults:   pipeline.Options{Border: 1},
		maxSprites: DefaultMaxSprites,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/layouts", func(r chi.Router) {
		r.Post("/", s.handleCreateLayout)
		r.Get("/", s.handleListLayouts)
		r.Get("/{id}", s.handleGetLayout)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Code: "NOT_FOUND", Message: "no route for " + r.URL.Path})
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
