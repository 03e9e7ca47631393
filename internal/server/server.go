package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/microservicios/go-jwt-claims/internal/config"
)

const idleTimeoutMultiplier = 2

type Server struct {
	httpServer *http.Server
}

func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	var registry *prometheus.Registry
	if cfg.Observability.MetricsEnabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	router, err := NewRouter(cfg, logger, registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.ReadTimeout * idleTimeoutMultiplier,
		},
	}, nil
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
