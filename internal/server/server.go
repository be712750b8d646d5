// Package server defines the Server container that composes a service's
// shared dependencies.
//
// It owns the lifecycle of:
//   - configuration and logging (optionally backed by New Relic)
//   - the PostgreSQL pool (order service) or MongoDB client (product service)
//   - the Redis client and the asynq job service, when Redis is configured
//   - the Kafka event publisher, when Kafka is configured
//   - Prometheus metrics
//   - the http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/deppfellow/shop-microservices/internal/config"
	"github.com/deppfellow/shop-microservices/internal/database"
	"github.com/deppfellow/shop-microservices/internal/lib/event"
	"github.com/deppfellow/shop-microservices/internal/lib/job"
	loggerPkg "github.com/deppfellow/shop-microservices/internal/logger"
	"github.com/deppfellow/shop-microservices/internal/metrics"
)

const redisPingTimeout = 5 * time.Second

// Server holds the resources shared by handlers, services and repositories.
// It is not the HTTP server itself.
type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService

	// Exactly one of DB and Mongo is set, depending on the service.
	DB    *database.Database
	Mongo *database.Mongo

	// Redis, Job and Events are nil when their config block is absent.
	Redis  *redis.Client
	Job    *job.JobService
	Events *event.Publisher

	Metrics *metrics.Metrics

	httpServer *http.Server
}

// New connects every configured store and starts the job workers.
//
// Redis being unreachable at startup is logged, not fatal; asynq keeps
// retrying in the background.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	s := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		Metrics:       metrics.New(cfg.Observability.ServiceName),
	}

	if cfg.Database != nil {
		db, err := database.New(cfg, logger, loggerService)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		s.DB = db
	}

	if cfg.Mongo != nil {
		mongoDB, err := database.NewMongo(cfg, logger)
		if err != nil {
			_ = s.closeStores(context.Background())
			return nil, fmt.Errorf("failed to initialize mongo: %w", err)
		}
		s.Mongo = mongoDB
	}

	if cfg.Kafka != nil {
		s.Events = event.NewPublisher(cfg.Kafka, cfg.Observability.ServiceName, logger)
	}

	if cfg.Redis != nil {
		s.Redis = redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Address,
		})

		if loggerService.GetApplication() != nil {
			s.Redis.AddHook(nrredis.NewHook(s.Redis.Options()))
		}

		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()

		if err := s.Redis.Ping(ctx).Err(); err != nil {
			logger.Error().Err(err).Msg("Failed to connect to Redis, continuing without Redis")
		}

		// The Publisher is stored as the interface only when non-nil, so the
		// worker's nil check sees a true nil otherwise.
		var publisher job.OrderEventPublisher
		if s.Events != nil {
			publisher = s.Events
		}

		s.Job = job.NewJobService(logger, cfg.Redis, publisher, s.Metrics)
		if err := s.Job.Start(); err != nil {
			if closeErr := s.Job.Client.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("Failed to close job client")
			}
			s.Job = nil
			if closeErr := s.closeDependencies(context.Background()); closeErr != nil {
				logger.Error().Err(closeErr).Msg("Failed to release dependencies")
			}
			return nil, err
		}
	}

	return s, nil
}

// SetupHTTPServer configures the http.Server around handler.
// Timeouts in config are seconds.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("service", s.Config.Observability.ServiceName).
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown stops the HTTP server, waiting for in-flight requests until ctx
// expires, then releases every other resource.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown HTTP server: %w", err))
		}
	}

	if s.Job != nil {
		s.Job.Stop()
	}

	if err := s.closeDependencies(ctx); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// closeDependencies releases the Kafka writer, the Redis client and the stores.
func (s *Server) closeDependencies(ctx context.Context) error {
	var errs []error

	if s.Events != nil {
		if err := s.Events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close event publisher: %w", err))
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis client: %w", err))
		}
	}

	if err := s.closeStores(ctx); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (s *Server) closeStores(ctx context.Context) error {
	var errs []error

	if s.Mongo != nil {
		if err := s.Mongo.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to close mongo connection: %w", err))
		}
	}

	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database connection: %w", err))
		}
	}

	return errors.Join(errs...)
}
