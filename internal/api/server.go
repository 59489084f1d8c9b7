// Package api hosts the optional status HTTP server. Routes:
//   - GET /healthz for liveness probes.
//   - GET /progress for the live run snapshot.
//   - GET /metrics for Prometheus scraping.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/goodbuys/labelcrawler/internal/progress"
	"github.com/goodbuys/labelcrawler/internal/telemetry"
)

// SnapshotSource provides the current run state.
type SnapshotSource interface {
	Snapshot() progress.Snapshot
}

// Server wraps the status HTTP server.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// New builds the server on the given port.
func New(port int, source SnapshotSource, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", handleHealthz)
	r.Get("/progress", handleProgress(source, logger))
	r.Handle("/metrics", telemetry.Handler())

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start serves in a background goroutine until Shutdown.
func (s *Server) Start() {
	go func() {
		s.logger.Info("status server listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("status server failed", zap.Error(err))
		}
	}()
}

// Shutdown drains the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown status server: %w", err)
	}
	return nil
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func handleProgress(source SnapshotSource, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(source.Snapshot()); err != nil {
			logger.Warn("encode progress snapshot failed", zap.Error(err))
		}
	}
}
