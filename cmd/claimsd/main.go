// Command claimsd serves the claims carried by bearer tokens: GET /whoami
// echoes the subject, role and n claims, POST /inspect reports the decoded
// payload and per-claim outcomes.
//
// claimsd does not verify tokens. Run it behind a gateway that does.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/microservicios/go-jwt-claims/internal/config"
	"github.com/microservicios/go-jwt-claims/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := server.NewLogger(os.Stdout, cfg.Observability.LogLevel, cfg.Observability.LogFormat)
	slog.SetDefault(logger)

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		logger.Error("Failed to create server", slog.Any("error", err))
		os.Exit(1)
	}

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server",
			slog.String("addr", cfg.Server.Addr),
			slog.String("mode", cfg.Server.Mode))
		if listenErr := srv.ListenAndServe(); listenErr != nil &&
			!errors.Is(listenErr, http.ErrServerClosed) {
			serverErrChan <- listenErr
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutting down server")
	case serverErr := <-serverErrChan:
		logger.Error("Server error, shutting down", slog.Any("error", serverErr))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Error("Server forced to shutdown", slog.Any("error", shutdownErr))
		return
	}
	logger.Info("Server stopped gracefully")
}
