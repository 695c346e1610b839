// Package api serves layouts over HTTP.
//
// Every mutating route loads the layout, applies one designer operation and
// saves the result; requests for the same layout are serialized with a
// keyed mutex. Rule violations are answered with the error code in the JSON
// body:
//
//	409  DUPLICATE_IDENTIFIER
//	422  INVALID_CONTAINER, BOUNDS_OVERFLOW, MALFORMED_CODE, INCOMPLETE_MAPPING, ...
//	404  LAYOUT_NOT_FOUND, ITEM_NOT_FOUND
//	400  INVALID_INPUT, INVALID_FORMAT, INVALID_LAYOUT
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/floorplan/pkg/batch"
	"github.com/matzehuels/floorplan/pkg/facility"
	"github.com/matzehuels/floorplan/pkg/pipeline"
)

// Server hosts the layout API.
type Server struct {
	runner    *pipeline.Runner
	logger    *log.Logger
	catalog   batch.Catalog
	hierarchy facility.Hierarchy
	padding   int
	timeout   time.Duration
	readLimit time.Duration
	locks     *keyedMutex
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithCatalog sets the templates used by auto-fill.
func WithCatalog(c batch.Catalog) Option { return func(s *Server) { s.catalog = c } }

// WithHierarchy enables hierarchical location codes.
func WithHierarchy(h facility.Hierarchy) Option { return func(s *Server) { s.hierarchy = h } }

// WithPadding sets the crop padding applied when layouts are saved.
func WithPadding(p int) Option { return func(s *Server) { s.padding = p } }

// WithTimeout bounds request handling time.
func WithTimeout(d time.Duration) Option { return func(s *Server) { s.timeout = d } }

// WithReadTimeout bounds the time to read a request, body included.
func WithReadTimeout(d time.Duration) Option { return func(s *Server) { s.readLimit = d } }

// New creates a server persisting through runner.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		runner:  runner,
		logger:  runner.Logger,
		catalog: batch.DefaultCatalog(),
		padding: pipeline.DefaultPadding,
		timeout: 60 * time.Second,
		locks:   newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)

	r.Route("/facilities", func(r chi.Router) {
		r.Post("/", s.handleCreateFacility)
		r.Get("/{id}", s.handleGetFacility)
	})

	r.Route("/layouts/{org}", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Put("/", s.handlePut)
			r.Delete("/", s.handleDelete)
			r.Post("/crop", s.handleCrop)
			r.Post("/items", s.handlePlace)
			r.Patch("/items/{itemID}", s.handleEditItem)
			r.Delete("/items/{itemID}", s.handleDeleteItem)
			r.Post("/fill", s.handleFill)
			r.Post("/assign", s.handleAssign)
			r.Post("/levels", s.handleLevels)
			r.Delete("/assign/{itemID}", s.handleUnassign)
			r.Get("/export/{format}", s.handleExport)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within grace.
func (s *Server) ListenAndServe(ctx context.Context, addr string, grace time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.readLimit,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("serving layouts", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
