// Package server implements the bloom HTTP API.
//
// Datasets are binary graph files loaded from a directory (or uploaded over
// HTTP) into an in-memory registry. Analytics are computed lazily per
// dataset and memoized, so repeated queries over the same data are cheap.
// An optional filesystem watcher keeps the registry in sync with the
// dataset directory.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
)

// Options configures a Server.
type Options struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// DatasetDir is a directory of dataset files loaded at startup.
	// Empty means start with no datasets.
	DatasetDir string

	// Watch reloads DatasetDir on filesystem changes.
	Watch bool

	// Logger receives request and lifecycle logs. Defaults to log.Default().
	Logger *log.Logger
}

// Server is the HTTP API server.
type Server struct {
	opts     Options
	logger   *log.Logger
	registry *Registry
	http     *http.Server
}

// New creates a server and loads the dataset directory when one is
// configured. Individual dataset files that fail to decode are logged and
// skipped; only an unreadable directory is fatal.
func New(opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		opts:     opts,
		logger:   logger,
		registry: NewRegistry(),
	}

	if opts.DatasetDir != "" {
		errs := s.registry.LoadDir(opts.DatasetDir)
		for _, err := range errs {
			logger.Warn("skipped dataset", "error", err)
		}
		if s.registry.Len() == 0 && len(errs) > 0 {
			return nil, fmt.Errorf("no loadable datasets in %s", opts.DatasetDir)
		}
		logger.Info("loaded datasets", "dir", opts.DatasetDir, "count", s.registry.Len())
	}
	datasetsLoaded.Set(float64(s.registry.Len()))

	router := chi.NewRouter()
	router.Use(requestID)
	router.Use(s.recoverPanics)
	router.Use(s.logRequests)
	s.routes(router)

	s.http = &http.Server{
		Addr:              opts.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// Handler returns the configured HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Registry returns the dataset registry.
func (s *Server) Registry() *Registry {
	return s.registry
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully. The
// filesystem watcher, when enabled, runs for the same lifetime.
func (s *Server) Run(ctx context.Context) error {
	if s.opts.Watch && s.opts.DatasetDir != "" {
		w, err := newWatcher(s.registry, s.opts.DatasetDir, s.logger)
		if err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		go w.run(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
