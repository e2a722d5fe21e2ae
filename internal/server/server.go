// Package server implements the idef0 HTTP API.
//
// Routes:
//
//	GET  /health                     liveness probe
//	GET  /api/v1/diagram?variant=    stored document download
//	GET  /api/v1/diagrams            stored variant names
//	POST /api/v1/diagram/convert     diagram JSON → mxGraph XML
//	POST /api/v1/diagram/preview     diagram JSON → Graphviz preview
//	POST /api/v1/diagram/layout      diagram JSON → computed geometry
//
// Every response carries an X-Request-ID header. Errors are JSON bodies of
// the form {"detail": "...", "code": "..."}.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/PigStep/vibe-idef0-front/pkg/config"
	"github.com/PigStep/vibe-idef0-front/pkg/pipeline"
	"github.com/PigStep/vibe-idef0-front/pkg/store"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "IDEF0 Generator Backend"

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// Server serves the HTTP API. It is safe for concurrent use.
type Server struct {
	cfg    *config.Config
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
}

// New creates a server. The runner and store are owned by the caller.
func New(cfg *config.Config, runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{cfg: cfg, runner: runner, store: st, logger: logger}
}

// ListenAndServe serves on cfg.Server.Addr until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr, "store", s.store.Name())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
