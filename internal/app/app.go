// Package app assembles the HTTP server: configuration, logging, services,
// router and lifecycle management.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"globecli/internal/config"
	"globecli/internal/infrastructure"
	"globecli/internal/services"
	transport "globecli/internal/transport/http"
)

// Version is set at compile time via -ldflags.
var Version = "dev"

// Application is the assembled server process.
type Application struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server
}

// New loads configuration and wires the service graph.
func New() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := infrastructure.NewLogger(cfg.Logging)

	analysis := services.NewAnalysisServiceWithLogger(cfg.GloBE, logger)
	health := services.NewHealthService(Version, cfg.GloBE, logger)
	router := transport.NewRouter(cfg, analysis, health, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Application{
		cfg:    cfg,
		logger: logger,
		server: server,
	}, nil
}

// Run starts the server and blocks until shutdown. SIGINT and SIGTERM
// trigger a graceful drain bounded by the configured shutdown timeout.
func (a *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening",
			slog.String("addr", a.server.Addr),
			slog.String("version", Version))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		a.logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	a.logger.Info("server stopped")
	return nil
}
