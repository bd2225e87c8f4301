// Package health serves the container's exposed port: liveness checks for
// the bot's collaborators plus Prometheus metrics.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Pinger checks a dependency's availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Checker verifies the embedding/LLM provider.
type Checker interface {
	HealthCheck(ctx context.Context) error
}

// Config holds HTTP server settings.
type Config struct {
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	ShutdownSec     int
}

// Server exposes /healthz and /metrics.
type Server struct {
	cfg      Config
	catalog  Pinger  // nil when no catalog is loaded
	embedder Checker // nil when health checks of the provider are not wanted
	logger   *zap.Logger
}

// NewServer creates the health server. catalog and embedder may be nil.
func NewServer(cfg Config, catalog Pinger, embedder Checker, logger *zap.Logger) *Server {
	return &Server{cfg: cfg, catalog: catalog, embedder: embedder, logger: logger}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", s.cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting health/metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("health server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(s.cfg.ShutdownSec)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("health server shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"index": "ok"} // loaded at startup or the process wouldn't be up

	status := http.StatusOK
	if s.catalog != nil {
		checks["catalog"] = "ok"
		if err := s.catalog.Ping(r.Context()); err != nil {
			checks["catalog"] = "error"
			status = http.StatusServiceUnavailable
		}
	}
	if s.embedder != nil {
		checks["embedding"] = "ok"
		if err := s.embedder.HealthCheck(r.Context()); err != nil {
			checks["embedding"] = "error"
			status = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(checks)
}
