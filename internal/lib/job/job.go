// Package job runs background tasks on asynq.
//
// Asynq is a Redis-backed queue: tasks are enqueued through asynq.Client
// and processed by the handlers registered on asynq.Server.
package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/deppfellow/shop-microservices/internal/config"
	"github.com/deppfellow/shop-microservices/internal/metrics"
	"github.com/deppfellow/shop-microservices/internal/model"
)

// OrderEventPublisher delivers order events to downstream consumers.
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, evt model.OrderPlacedEvent) error
}

// JobService holds the asynq client (enqueue) and server (workers).
type JobService struct {
	Client *asynq.Client

	server    *asynq.Server
	logger    *zerolog.Logger
	publisher OrderEventPublisher
	metrics   *metrics.Metrics
}

// NewJobService builds a JobService against the Redis at cfg.Address.
// publisher may be nil, in which case order events are only logged.
func NewJobService(logger *zerolog.Logger, cfg *config.RedisConfig, publisher OrderEventPublisher, m *metrics.Metrics) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Address}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			Logger: asynqLogger{logger: logger},
		},
	)

	return &JobService{
		Client:    client,
		server:    server,
		logger:    logger,
		publisher: publisher,
		metrics:   m,
	}
}

func (j *JobService) mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskOrderPlaced, j.handleOrderPlacedTask)
	return mux
}

// Start registers the task handlers and starts the workers in the background.
func (j *JobService) Start() error {
	j.logger.Info().Msg("Starting background job server")

	if err := j.server.Start(j.mux()); err != nil {
		return fmt.Errorf("start job server: %w", err)
	}
	return nil
}

// EnqueueOrderPlaced schedules the order:placed task for orderNumber.
func (j *JobService) EnqueueOrderPlaced(ctx context.Context, orderNumber string) error {
	task, err := NewOrderPlacedTask(orderNumber)
	if err != nil {
		return err
	}

	info, err := j.Client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", TaskOrderPlaced, err)
	}

	j.logger.Debug().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Str("order_number", orderNumber).
		Msg("Enqueued order placed task")
	return nil
}

// Stop waits for in-flight tasks and closes the client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Error().Err(err).Msg("Failed to close job client")
	}
}

// asynqLogger routes asynq's internal logs through zerolog.
type asynqLogger struct {
	logger *zerolog.Logger
}

func (l asynqLogger) Debug(args ...interface{}) {
	l.logger.Debug().Str("component", "asynq").Msg(fmt.Sprint(args...))
}

func (l asynqLogger) Info(args ...interface{}) {
	l.logger.Info().Str("component", "asynq").Msg(fmt.Sprint(args...))
}

func (l asynqLogger) Warn(args ...interface{}) {
	l.logger.Warn().Str("component", "asynq").Msg(fmt.Sprint(args...))
}

func (l asynqLogger) Error(args ...interface{}) {
	l.logger.Error().Str("component", "asynq").Msg(fmt.Sprint(args...))
}

func (l asynqLogger) Fatal(args ...interface{}) {
	l.logger.Fatal().Str("component", "asynq").Msg(fmt.Sprint(args...))
}
