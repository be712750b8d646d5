// Package app assembles and runs one of the shop services.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/shop-microservices/internal/config"
	"github.com/deppfellow/shop-microservices/internal/database"
	"github.com/deppfellow/shop-microservices/internal/handler"
	"github.com/deppfellow/shop-microservices/internal/logger"
	"github.com/deppfellow/shop-microservices/internal/repository"
	"github.com/deppfellow/shop-microservices/internal/router"
	"github.com/deppfellow/shop-microservices/internal/server"
	"github.com/deppfellow/shop-microservices/internal/service"
	"github.com/deppfellow/shop-microservices/static"
)

// ShutdownTimeout bounds how long in-flight requests may take to finish.
const ShutdownTimeout = 10 * time.Second

// Run loads the configuration of svc, connects its stores, serves HTTP
// until ctx is cancelled and then shuts everything down.
func Run(ctx context.Context, svc config.Service) error {
	cfg, err := config.LoadConfig(svc)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	defer loggerService.Shutdown()

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	if cfg.Database != nil {
		if err := database.Migrate(ctx, &log, cfg.Database); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	repos := repository.NewRepositories(srv)
	services := service.NewServices(srv, repos)
	handlers := handler.NewHandlers(srv, services, static.FS)
	r := router.NewRouter(srv, handlers, static.FS)

	srv.SetupHTTPServer(r)

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
			return fmt.Errorf("failed to start server: %w", err)
		}
	}

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server exited properly")
	return nil
}
